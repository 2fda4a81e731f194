package models

// BetSide identifies which side of a two-way market a stake is for.
type BetSide string

const (
	BetSideHome BetSide = "home"
	BetSideAway BetSide = "away"
	BetSideNone BetSide = "none"
)

// Valid reports whether the side is one of the known values.
func (s BetSide) Valid() bool {
	switch s {
	case BetSideHome, BetSideAway, BetSideNone:
		return true
	}
	return false
}

// MarketOdds is a bookmaker's decimal price pair for one game. Each side
// must be > 1.0 for the market to be usable.
type MarketOdds struct {
	HomeDecimalOdds float64 `json:"home_odds"`
	AwayDecimalOdds float64 `json:"away_odds"`
}

// Valid reports whether both sides are priced above even money's floor.
func (m MarketOdds) Valid() bool {
	return m.HomeDecimalOdds > 1.0 && m.AwayDecimalOdds > 1.0
}

// KellyRecommendation is the sizing block attached to a report when the
// caller asked for a stake on one side.
type KellyRecommendation struct {
	FullKellyFraction float64 `json:"full_kelly_frac"`
	FractionUsed      float64 `json:"fraction_of_kelly_used"`
	SuggestedStake    float64 `json:"suggested_bet_size"`
	Bankroll          float64 `json:"bankroll"`
	BetSide           BetSide `json:"bet_side"`
}
