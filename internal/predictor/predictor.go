// Package predictor turns two teams' efficiency profiles into a home-win
// probability using a fixed linear heuristic. The coefficients are policy
// configuration, not fitted parameters.
package predictor

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/models"
	"github.com/yourusername/nba-edge/internal/statsapi"
)

// Coefficients are the knobs of the linear heuristic.
type Coefficients struct {
	// NetRatingScale converts a net-rating differential into probability
	NetRatingScale float64

	// HomeCourtBonus is the flat probability added for playing at home
	HomeCourtBonus float64

	// ProbabilityFloor / ProbabilityCeiling clamp the output so the model
	// never claims certainty
	ProbabilityFloor   float64
	ProbabilityCeiling float64

	// RecentGames is the window for recent-form win fractions
	RecentGames int
}

// DefaultCoefficients returns the stock heuristic settings.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		NetRatingScale:     0.015,
		HomeCourtBonus:     0.04,
		ProbabilityFloor:   0.05,
		ProbabilityCeiling: 0.95,
		RecentGames:        statsapi.DefaultRecentGames,
	}
}

// FeatureVector is the model input derived from both teams' stats.
type FeatureVector struct {
	NetRatingDiff    float64 `json:"net_rating_diff"`
	HomeOffVsAwayDef float64 `json:"home_off_vs_away_def"`
	RecentFormDiff   float64 `json:"recent_form_diff"`
	HomeCourtBonus   float64 `json:"home_court_bonus"`
}

// Predictor computes matchup predictions from provider data.
type Predictor struct {
	provider statsapi.Provider
	coeffs   Coefficients
	logger   *logrus.Logger
}

// New creates a predictor. Zero-valued coefficient fields fall back to
// the defaults so a partially filled config stays usable.
func New(provider statsapi.Provider, coeffs Coefficients, logger *logrus.Logger) *Predictor {
	defaults := DefaultCoefficients()
	if coeffs.NetRatingScale == 0 {
		coeffs.NetRatingScale = defaults.NetRatingScale
	}
	if coeffs.ProbabilityFloor <= 0 {
		coeffs.ProbabilityFloor = defaults.ProbabilityFloor
	}
	if coeffs.ProbabilityCeiling <= 0 || coeffs.ProbabilityCeiling > 1 {
		coeffs.ProbabilityCeiling = defaults.ProbabilityCeiling
	}
	if coeffs.RecentGames <= 0 {
		coeffs.RecentGames = defaults.RecentGames
	}
	return &Predictor{
		provider: provider,
		coeffs:   coeffs,
		logger:   logger,
	}
}

// teamProfile bundles one team's ratings with its recent form.
type teamProfile struct {
	efficiency models.TeamEfficiency
	recentForm float64
}

func (p *Predictor) teamProfile(ctx context.Context, teamName string) (teamProfile, error) {
	eff, err := p.provider.GetTeamEfficiency(ctx, teamName)
	if err != nil {
		return teamProfile{}, err
	}

	form, err := p.provider.GetRecentPerformance(ctx, teamName, p.coeffs.RecentGames)
	if err != nil {
		// Ratings succeeded, so the team exists; treat a missing game log
		// as neutral form rather than failing the prediction.
		p.logger.WithError(err).WithField("team", teamName).Debug("Recent form unavailable, using neutral 0.5")
		form = models.NeutralRecentForm
	}

	return teamProfile{efficiency: eff, recentForm: form}, nil
}

// Features extracts the model input for a matchup. It fails when either
// team's efficiency lookup fails (typically an unknown team name).
func (p *Predictor) Features(ctx context.Context, homeTeam, awayTeam string) (FeatureVector, error) {
	home, err := p.teamProfile(ctx, homeTeam)
	if err != nil {
		return FeatureVector{}, err
	}
	away, err := p.teamProfile(ctx, awayTeam)
	if err != nil {
		return FeatureVector{}, err
	}

	return FeatureVector{
		NetRatingDiff:    home.efficiency.NetRating - away.efficiency.NetRating,
		HomeOffVsAwayDef: home.efficiency.OffRating - away.efficiency.DefRating,
		RecentFormDiff:   home.recentForm - away.recentForm,
		HomeCourtBonus:   p.coeffs.HomeCourtBonus,
	}, nil
}

// Predict computes the home-win probability for a matchup. When features
// cannot be extracted it degrades to the uninformative 50/50 prediction
// instead of returning an error.
func (p *Predictor) Predict(ctx context.Context, homeTeam, awayTeam string) models.MatchupPrediction {
	features, err := p.Features(ctx, homeTeam, awayTeam)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"home": homeTeam,
			"away": awayTeam,
		}).Warn("Feature extraction failed, falling back to neutral prediction")
		return models.MatchupPrediction{
			HomeTeam:           homeTeam,
			AwayTeam:           awayTeam,
			HomeWinProbability: 0.5,
			AwayWinProbability: 0.5,
			PredictedWinner:    models.WinnerUnknown,
		}
	}

	homeWinProb := 0.5 + features.NetRatingDiff*p.coeffs.NetRatingScale + p.coeffs.HomeCourtBonus
	homeWinProb = clamp(homeWinProb, p.coeffs.ProbabilityFloor, p.coeffs.ProbabilityCeiling)

	winner := awayTeam
	if homeWinProb > 0.5 {
		winner = homeTeam
	}

	return models.MatchupPrediction{
		HomeTeam:           homeTeam,
		AwayTeam:           awayTeam,
		HomeWinProbability: homeWinProb,
		AwayWinProbability: 1 - homeWinProb,
		PredictedWinner:    winner,
	}
}

// Analyze wraps a prediction with the diagnostic differentials it came
// from. Missing data degrades the differentials to 0 / 0.5 rather than
// failing the analysis.
func (p *Predictor) Analyze(ctx context.Context, homeTeam, awayTeam string) models.MatchupAnalysis {
	prediction := p.Predict(ctx, homeTeam, awayTeam)

	analysis := models.MatchupAnalysis{
		Prediction: prediction,
		RecentForm: models.RecentFormComparison{
			HomeWinPct: models.NeutralRecentForm,
			AwayWinPct: models.NeutralRecentForm,
		},
	}

	home, homeErr := p.teamProfile(ctx, homeTeam)
	away, awayErr := p.teamProfile(ctx, awayTeam)
	if homeErr != nil || awayErr != nil {
		return analysis
	}

	analysis.Efficiency = models.EfficiencyComparison{
		NetRatingDiff:    home.efficiency.NetRating - away.efficiency.NetRating,
		HomeOffVsAwayDef: home.efficiency.OffRating - away.efficiency.DefRating,
	}
	analysis.RecentForm = models.RecentFormComparison{
		HomeWinPct: home.recentForm,
		AwayWinPct: away.recentForm,
	}
	return analysis
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
