package kelly

// Verdict is the categorical read on a model-vs-market edge.
type Verdict string

const (
	VerdictBack    Verdict = "back"
	VerdictAvoid   Verdict = "avoid"
	VerdictNoValue Verdict = "no_value"
)

// DefaultEdgeThreshold is the minimum edge vs the fair market before a
// side is worth backing. Policy constant, not a calibrated value.
const DefaultEdgeThreshold = 0.05

// Edge holds the difference between the model probability and both views
// of the market price for one side.
type Edge struct {
	VsMarket float64 `json:"vs_market"` // model prob minus raw implied prob
	VsFair   float64 `json:"vs_fair"`   // model prob minus vig-free prob
}

// NewEdge compares a model probability against the raw implied and
// vig-free market probabilities.
func NewEdge(modelProb, impliedProb, fairProb float64) Edge {
	return Edge{
		VsMarket: modelProb - impliedProb,
		VsFair:   modelProb - fairProb,
	}
}

// Classify turns an edge into a verdict using the given threshold. An
// edge vs fair above +threshold means the model sees value the market
// does not; below -threshold the market is far ahead of the model.
func (e Edge) Classify(threshold float64) Verdict {
	if threshold <= 0 {
		threshold = DefaultEdgeThreshold
	}
	switch {
	case e.VsFair > threshold:
		return VerdictBack
	case e.VsFair < -threshold:
		return VerdictAvoid
	default:
		return VerdictNoValue
	}
}

// ExpectedValue computes the expected profit of a stake at decimal odds
// given a win probability.
func ExpectedValue(probability, odds, stake float64) float64 {
	if probability <= 0 || odds <= 1 || stake <= 0 {
		return 0
	}
	winProfit := (odds - 1.0) * stake
	return probability*winProfit - (1.0-probability)*stake
}
