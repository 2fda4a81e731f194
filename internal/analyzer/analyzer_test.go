package analyzer

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nba-edge/internal/models"
	"github.com/yourusername/nba-edge/internal/predictor"
	"github.com/yourusername/nba-edge/internal/statsapi"
)

type fixedProvider struct {
	efficiency map[string]models.TeamEfficiency
	recentForm map[string]float64
}

func (f *fixedProvider) GetTeamEfficiency(ctx context.Context, teamName string) (models.TeamEfficiency, error) {
	eff, ok := f.efficiency[teamName]
	if !ok {
		return models.TeamEfficiency{}, statsapi.NewProviderError("fixed", statsapi.ErrCodeNotFound, "unknown team", statsapi.ErrTeamNotFound)
	}
	return eff, nil
}

func (f *fixedProvider) GetRecentPerformance(ctx context.Context, teamName string, games int) (float64, error) {
	if form, ok := f.recentForm[teamName]; ok {
		return form, nil
	}
	return models.NeutralRecentForm, nil
}

func (f *fixedProvider) Name() string { return "fixed" }

func newTestAnalyzer() *Analyzer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	provider := &fixedProvider{
		efficiency: map[string]models.TeamEfficiency{
			// Net diff 10 gives the model a 0.69 home probability.
			"New York Knicks": {OffRating: 118, DefRating: 110, NetRating: 8, Pace: 98},
			"Miami Heat":      {OffRating: 112, DefRating: 114, NetRating: -2, Pace: 97},
		},
		recentForm: map[string]float64{
			"New York Knicks": 0.7,
			"Miami Heat":      0.4,
		},
	}

	p := predictor.New(provider, predictor.DefaultCoefficients(), logger)
	return New(p, 0, logger)
}

func marketRequest() Request {
	return Request{
		HomeTeam: "New York Knicks",
		AwayTeam: "Miami Heat",
		Odds:     models.MarketOdds{HomeDecimalOdds: 1.53, AwayDecimalOdds: 4.50},
		BetSide:  models.BetSideNone,
	}
}

func TestRunFullReport(t *testing.T) {
	a := newTestAnalyzer()

	report, err := a.Run(context.Background(), marketRequest())
	require.NoError(t, err)

	require.NotNil(t, report.Market.ImpHome)
	require.NotNil(t, report.Market.ImpAway)
	assert.InDelta(t, 0.6536, *report.Market.ImpHome, 0.0001)
	assert.InDelta(t, 0.2222, *report.Market.ImpAway, 0.0001)

	require.NotNil(t, report.FairMarket)
	assert.InDelta(t, 0.746269, report.FairMarket.Home, 1e-6)
	assert.InDelta(t, 0.253731, report.FairMarket.Away, 1e-6)
	assert.InDelta(t, 1.0, report.FairMarket.Home+report.FairMarket.Away, 1e-9)

	assert.InDelta(t, 0.69, report.Model.HomeProb, 1e-9)
	assert.InDelta(t, 0.31, report.Model.AwayProb, 1e-9)

	require.NotNil(t, report.Edge)
	require.NotNil(t, report.Edge.VsMarket)
	require.NotNil(t, report.Edge.VsFair)
	assert.InDelta(t, 0.69-1.0/1.53, *report.Edge.VsMarket, 1e-9)
	assert.InDelta(t, 0.69-0.746269, *report.Edge.VsFair, 1e-6)
	// Model is 5.6 points behind the fair market on the home side.
	assert.Equal(t, "avoid", report.Edge.Recommendation)

	assert.Nil(t, report.Kelly)
	assert.Nil(t, report.RawAnalysis)
}

func TestRunInvalidOddsDegradesMarket(t *testing.T) {
	a := newTestAnalyzer()

	req := marketRequest()
	req.Odds = models.MarketOdds{HomeDecimalOdds: 0, AwayDecimalOdds: 4.50}

	report, err := a.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, report.Market.ImpHome)
	require.NotNil(t, report.Market.ImpAway)
	assert.Nil(t, report.FairMarket)

	// Model prediction still runs; no home-side market view means no edge.
	assert.InDelta(t, 0.69, report.Model.HomeProb, 1e-9)
	assert.Nil(t, report.Edge)
}

func TestRunBothSidesInvalid(t *testing.T) {
	a := newTestAnalyzer()

	req := marketRequest()
	req.Odds = models.MarketOdds{}

	report, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, report.Market.ImpHome)
	assert.Nil(t, report.Market.ImpAway)
	assert.Nil(t, report.FairMarket)
	assert.Nil(t, report.Edge)
}

func TestRunKellyBlock(t *testing.T) {
	a := newTestAnalyzer()

	req := marketRequest()
	req.BetSide = models.BetSideHome
	req.Bankroll = 1000
	req.KellyMultiplier = 0.5

	report, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, report.Kelly)

	// b = 0.53, p = 0.69: (0.53*0.69 - 0.31) / 0.53
	wantFull := (0.53*0.69 - 0.31) / 0.53
	assert.InDelta(t, wantFull, report.Kelly.FullKellyFraction, 1e-9)
	assert.Equal(t, 0.5, report.Kelly.FractionUsed)
	assert.InDelta(t, math.Round(wantFull*0.5*1000*100)/100, report.Kelly.SuggestedStake, 1e-9)
	assert.Equal(t, models.BetSideHome, report.Kelly.BetSide)
	assert.Equal(t, 1000.0, report.Kelly.Bankroll)
}

func TestRunKellyAwaySideNoEdge(t *testing.T) {
	a := newTestAnalyzer()

	req := marketRequest()
	req.BetSide = models.BetSideAway
	req.Bankroll = 500

	report, err := a.Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, report.Kelly)

	// p=0.31 at 4.50: (3.5*0.31 - 0.69) / 3.5 > 0, so a stake exists.
	assert.Greater(t, report.Kelly.FullKellyFraction, 0.0)
	assert.Equal(t, DefaultKellyMultiplier, report.Kelly.FractionUsed)
}

func TestRunUnknownTeamNeutralModel(t *testing.T) {
	a := newTestAnalyzer()

	req := marketRequest()
	req.HomeTeam = "Seattle SuperSonics"
	req.IncludeRaw = true

	report, err := a.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0.5, report.Model.HomeProb)
	assert.Equal(t, 0.5, report.Model.AwayProb)
	require.NotNil(t, report.RawAnalysis)
	assert.Equal(t, models.WinnerUnknown, report.RawAnalysis.Prediction.PredictedWinner)
}

func TestRunValidation(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.Run(context.Background(), Request{AwayTeam: "Miami Heat", BetSide: models.BetSideNone})
	assert.Error(t, err)

	req := marketRequest()
	req.BetSide = models.BetSide("both")
	_, err = a.Run(context.Background(), req)
	assert.Error(t, err)
}
