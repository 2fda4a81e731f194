package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketSummary echoes the quoted odds together with their raw implied
// probabilities. Implied values are nil when the quoted odds could not
// be converted.
type MarketSummary struct {
	HomeOdds float64  `json:"home_odds"`
	AwayOdds float64  `json:"away_odds"`
	ImpHome  *float64 `json:"imp_home"`
	ImpAway  *float64 `json:"imp_away"`
}

// FairMarket is the vig-free probability pair. Nil in a report when the
// market could not be normalized.
type FairMarket struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// ModelSummary is the model's probability pair as exported.
type ModelSummary struct {
	HomeProb float64 `json:"home_prob"`
	AwayProb float64 `json:"away_prob"`
}

// EdgeSummary reports the home side's advantage over both market views
// and the resulting verdict. Nil edges mean the market side was
// undefined.
type EdgeSummary struct {
	VsMarket       *float64 `json:"vs_market"`
	VsFair         *float64 `json:"vs_fair"`
	Recommendation string   `json:"recommendation"`
}

// Report is the full output of a single-matchup analysis. Key names are
// a compatibility contract with downstream consumers of the JSON export.
type Report struct {
	Home        string               `json:"home"`
	Away        string               `json:"away"`
	Market      MarketSummary        `json:"market"`
	FairMarket  *FairMarket          `json:"fair_market"`
	Model       ModelSummary         `json:"model"`
	Edge        *EdgeSummary         `json:"edge,omitempty"`
	Kelly       *KellyRecommendation `json:"kelly,omitempty"`
	RawAnalysis *MatchupAnalysis     `json:"raw_analysis,omitempty"`
}

// AnalysisRecord is a persisted report, used only when history storage
// is enabled.
type AnalysisRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Home      string    `db:"home_team" json:"home"`
	Away      string    `db:"away_team" json:"away"`
	Report    Report    `db:"report" json:"report"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
