package models

// WinnerUnknown is the predicted winner when efficiency data is missing
// for either side and the predictor degrades to a neutral 50/50 call.
const WinnerUnknown = "unknown"

// TeamEfficiency holds per-100-possession team ratings from the stats
// provider.
type TeamEfficiency struct {
	OffRating float64 `json:"off_rating"`
	DefRating float64 `json:"def_rating"`
	NetRating float64 `json:"net_rating"`
	Pace      float64 `json:"pace"`
}

// DefaultTeamEfficiency is the league-average fallback used when the
// provider cannot supply ratings for a team.
func DefaultTeamEfficiency() TeamEfficiency {
	return TeamEfficiency{
		OffRating: 110.0,
		DefRating: 110.0,
		NetRating: 0.0,
		Pace:      100.0,
	}
}

// NeutralRecentForm is the recent win fraction assumed when no game
// history is available.
const NeutralRecentForm = 0.5

// MatchupPrediction is the model's read on a single game. Probabilities
// are clamped to [0.05, 0.95] and always sum to 1.
type MatchupPrediction struct {
	HomeTeam           string  `json:"home_team"`
	AwayTeam           string  `json:"away_team"`
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
	PredictedWinner    string  `json:"predicted_winner"`
}

// IsFallback reports whether this prediction is the uninformative 50/50
// produced when team data was unavailable.
func (p MatchupPrediction) IsFallback() bool {
	return p.PredictedWinner == WinnerUnknown
}

// EfficiencyComparison holds the diagnostic differentials shown next to
// a prediction.
type EfficiencyComparison struct {
	NetRatingDiff    float64 `json:"net_rating_diff"`
	HomeOffVsAwayDef float64 `json:"home_off_vs_away_def"`
}

// RecentFormComparison holds both teams' recent win fractions.
type RecentFormComparison struct {
	HomeWinPct float64 `json:"home_win_pct"`
	AwayWinPct float64 `json:"away_win_pct"`
}

// MatchupAnalysis wraps a prediction with the raw differentials it was
// derived from. When data for either side is missing the differentials
// fall back to 0 / 0.5 rather than failing the analysis.
type MatchupAnalysis struct {
	Prediction MatchupPrediction    `json:"prediction"`
	Efficiency EfficiencyComparison `json:"efficiency_comparison"`
	RecentForm RecentFormComparison `json:"recent_form"`
}
