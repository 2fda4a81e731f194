// Package analyzer runs the full single-matchup pipeline: market implied
// probabilities, vig-free normalization, the model prediction, edge
// reporting and optional Kelly sizing.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/kelly"
	"github.com/yourusername/nba-edge/internal/metrics"
	"github.com/yourusername/nba-edge/internal/models"
	"github.com/yourusername/nba-edge/internal/oddsmath"
	"github.com/yourusername/nba-edge/internal/predictor"
)

// DefaultKellyMultiplier is the fraction of full Kelly used when the
// caller does not choose one. Half Kelly is the usual variance control.
const DefaultKellyMultiplier = 0.5

// Request describes one matchup analysis.
type Request struct {
	HomeTeam string
	AwayTeam string
	Odds     models.MarketOdds

	// BetSide selects the side to size a stake for; BetSideNone skips the
	// Kelly block entirely.
	BetSide         models.BetSide
	Bankroll        float64
	KellyMultiplier float64

	// IncludeRaw attaches the full MatchupAnalysis to the report.
	IncludeRaw bool
}

// Analyzer wires the predictor and the staking policy together.
type Analyzer struct {
	predictor     *predictor.Predictor
	edgeThreshold float64
	logger        *logrus.Logger
}

// New creates an analyzer. edgeThreshold <= 0 falls back to the default
// policy threshold.
func New(p *predictor.Predictor, edgeThreshold float64, logger *logrus.Logger) *Analyzer {
	if edgeThreshold <= 0 {
		edgeThreshold = kelly.DefaultEdgeThreshold
	}
	return &Analyzer{
		predictor:     p,
		edgeThreshold: edgeThreshold,
		logger:        logger,
	}
}

// Run produces the full report for a matchup. Invalid odds degrade the
// market sections to undefined values; missing team data degrades the
// model section to the 50/50 fallback. The only error cases are invalid
// request parameters.
func (a *Analyzer) Run(ctx context.Context, req Request) (*models.Report, error) {
	if req.HomeTeam == "" || req.AwayTeam == "" {
		return nil, fmt.Errorf("both home and away team names are required")
	}
	if !req.BetSide.Valid() {
		return nil, fmt.Errorf("invalid bet side %q", req.BetSide)
	}

	start := time.Now()
	defer func() {
		metrics.RecordAnalysis(time.Since(start).Seconds())
	}()

	report := &models.Report{
		Home: req.HomeTeam,
		Away: req.AwayTeam,
		Market: models.MarketSummary{
			HomeOdds: req.Odds.HomeDecimalOdds,
			AwayOdds: req.Odds.AwayDecimalOdds,
		},
	}

	impHome, homeErr := oddsmath.ImpliedProbability(req.Odds.HomeDecimalOdds)
	impAway, awayErr := oddsmath.ImpliedProbability(req.Odds.AwayDecimalOdds)
	if homeErr == nil {
		report.Market.ImpHome = &impHome
	}
	if awayErr == nil {
		report.Market.ImpAway = &impAway
	}

	if fair, err := oddsmath.FairProbabilities(req.Odds.HomeDecimalOdds, req.Odds.AwayDecimalOdds); err == nil {
		report.FairMarket = &models.FairMarket{Home: fair.Home, Away: fair.Away}
	} else {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"home_odds": req.Odds.HomeDecimalOdds,
			"away_odds": req.Odds.AwayDecimalOdds,
		}).Debug("Market could not be normalized")
	}

	analysis := a.predictor.Analyze(ctx, req.HomeTeam, req.AwayTeam)
	metrics.RecordPrediction(analysis.Prediction.IsFallback())
	report.Model = models.ModelSummary{
		HomeProb: analysis.Prediction.HomeWinProbability,
		AwayProb: analysis.Prediction.AwayWinProbability,
	}
	if req.IncludeRaw {
		report.RawAnalysis = &analysis
	}

	report.Edge = a.edgeSummary(report)

	if req.BetSide != models.BetSideNone && req.Bankroll > 0 {
		report.Kelly = a.kellyBlock(req, report.Model)
	}

	return report, nil
}

// edgeSummary compares the model's home probability against whichever
// market views are defined.
func (a *Analyzer) edgeSummary(report *models.Report) *models.EdgeSummary {
	summary := &models.EdgeSummary{
		Recommendation: string(kelly.VerdictNoValue),
	}

	if report.Market.ImpHome != nil {
		vsMarket := report.Model.HomeProb - *report.Market.ImpHome
		summary.VsMarket = &vsMarket
	}
	if report.FairMarket != nil {
		vsFair := report.Model.HomeProb - report.FairMarket.Home
		summary.VsFair = &vsFair
		summary.Recommendation = string(kelly.Edge{VsFair: vsFair}.Classify(a.edgeThreshold))
	}

	if summary.VsMarket == nil && summary.VsFair == nil {
		return nil
	}
	return summary
}

// kellyBlock sizes a stake for the requested side.
func (a *Analyzer) kellyBlock(req Request, model models.ModelSummary) *models.KellyRecommendation {
	multiplier := req.KellyMultiplier
	if multiplier <= 0 {
		multiplier = DefaultKellyMultiplier
	}

	var probability, odds float64
	switch req.BetSide {
	case models.BetSideHome:
		probability = model.HomeProb
		odds = req.Odds.HomeDecimalOdds
	case models.BetSideAway:
		probability = model.AwayProb
		odds = req.Odds.AwayDecimalOdds
	default:
		return nil
	}

	full := kelly.Fraction(probability, odds)
	return &models.KellyRecommendation{
		FullKellyFraction: full,
		FractionUsed:      multiplier,
		SuggestedStake:    kelly.SuggestedStake(probability, odds, req.Bankroll, multiplier),
		Bankroll:          req.Bankroll,
		BetSide:           req.BetSide,
	}
}
