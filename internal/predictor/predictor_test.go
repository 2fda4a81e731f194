package predictor

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/models"
	"github.com/yourusername/nba-edge/internal/statsapi"
)

// stubProvider serves canned efficiency data for tests.
type stubProvider struct {
	efficiency map[string]models.TeamEfficiency
	recentForm map[string]float64
	formErr    error
}

func (s *stubProvider) GetTeamEfficiency(ctx context.Context, teamName string) (models.TeamEfficiency, error) {
	eff, ok := s.efficiency[teamName]
	if !ok {
		return models.TeamEfficiency{}, statsapi.NewProviderError("stub", statsapi.ErrCodeNotFound, "unknown team", statsapi.ErrTeamNotFound)
	}
	return eff, nil
}

func (s *stubProvider) GetRecentPerformance(ctx context.Context, teamName string, games int) (float64, error) {
	if s.formErr != nil {
		return 0, s.formErr
	}
	form, ok := s.recentForm[teamName]
	if !ok {
		return models.NeutralRecentForm, nil
	}
	return form, nil
}

func (s *stubProvider) Name() string { return "stub" }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testProvider() *stubProvider {
	return &stubProvider{
		efficiency: map[string]models.TeamEfficiency{
			"New York Knicks": {OffRating: 118, DefRating: 110, NetRating: 8, Pace: 98},
			"Miami Heat":      {OffRating: 112, DefRating: 114, NetRating: -2, Pace: 97},
		},
		recentForm: map[string]float64{
			"New York Knicks": 0.7,
			"Miami Heat":      0.4,
		},
	}
}

func TestPredictKnownDifferential(t *testing.T) {
	// Net rating diff of 10: 0.5 + 10*0.015 + 0.04 = 0.69.
	p := New(testProvider(), DefaultCoefficients(), quietLogger())

	pred := p.Predict(context.Background(), "New York Knicks", "Miami Heat")
	if math.Abs(pred.HomeWinProbability-0.69) > 1e-9 {
		t.Fatalf("expected home win probability 0.69, got %f", pred.HomeWinProbability)
	}
	if pred.AwayWinProbability != 1-pred.HomeWinProbability {
		t.Fatalf("away probability %f does not complement home %f", pred.AwayWinProbability, pred.HomeWinProbability)
	}
	if pred.PredictedWinner != "New York Knicks" {
		t.Fatalf("expected home winner, got %s", pred.PredictedWinner)
	}
}

func TestPredictClampsProbability(t *testing.T) {
	provider := testProvider()
	provider.efficiency["New York Knicks"] = models.TeamEfficiency{OffRating: 130, DefRating: 95, NetRating: 35, Pace: 100}
	provider.efficiency["Miami Heat"] = models.TeamEfficiency{OffRating: 100, DefRating: 125, NetRating: -25, Pace: 100}

	p := New(provider, DefaultCoefficients(), quietLogger())
	pred := p.Predict(context.Background(), "New York Knicks", "Miami Heat")
	if pred.HomeWinProbability != 0.95 {
		t.Fatalf("expected probability clamped to 0.95, got %f", pred.HomeWinProbability)
	}

	// Reverse the matchup: heavy away favorite clamps to the floor.
	pred = p.Predict(context.Background(), "Miami Heat", "New York Knicks")
	if pred.HomeWinProbability != 0.05 {
		t.Fatalf("expected probability clamped to 0.05, got %f", pred.HomeWinProbability)
	}
	if pred.PredictedWinner != "New York Knicks" {
		t.Fatalf("expected away winner, got %s", pred.PredictedWinner)
	}
}

func TestPredictUnknownTeamFallsBack(t *testing.T) {
	p := New(testProvider(), DefaultCoefficients(), quietLogger())

	pred := p.Predict(context.Background(), "Seattle SuperSonics", "Miami Heat")
	if pred.HomeWinProbability != 0.5 || pred.AwayWinProbability != 0.5 {
		t.Fatalf("expected 50/50 fallback, got %f/%f", pred.HomeWinProbability, pred.AwayWinProbability)
	}
	if pred.PredictedWinner != models.WinnerUnknown {
		t.Fatalf("expected unknown winner, got %s", pred.PredictedWinner)
	}
	if !pred.IsFallback() {
		t.Fatal("expected fallback prediction")
	}
}

func TestPredictProbabilityAlwaysInRange(t *testing.T) {
	provider := testProvider()
	p := New(provider, DefaultCoefficients(), quietLogger())

	for net := -40.0; net <= 40.0; net += 5 {
		provider.efficiency["New York Knicks"] = models.TeamEfficiency{NetRating: net, OffRating: 110, DefRating: 110, Pace: 100}
		provider.efficiency["Miami Heat"] = models.TeamEfficiency{NetRating: 0, OffRating: 110, DefRating: 110, Pace: 100}

		pred := p.Predict(context.Background(), "New York Knicks", "Miami Heat")
		if pred.HomeWinProbability < 0.05 || pred.HomeWinProbability > 0.95 {
			t.Fatalf("net=%f: probability %f outside [0.05, 0.95]", net, pred.HomeWinProbability)
		}
	}
}

func TestFeatures(t *testing.T) {
	p := New(testProvider(), DefaultCoefficients(), quietLogger())

	features, err := p.Features(context.Background(), "New York Knicks", "Miami Heat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if features.NetRatingDiff != 10 {
		t.Fatalf("expected net rating diff 10, got %f", features.NetRatingDiff)
	}
	if features.HomeOffVsAwayDef != 4 {
		t.Fatalf("expected off-vs-def diff 4, got %f", features.HomeOffVsAwayDef)
	}
	if math.Abs(features.RecentFormDiff-0.3) > 1e-9 {
		t.Fatalf("expected recent form diff 0.3, got %f", features.RecentFormDiff)
	}
	if features.HomeCourtBonus != 0.04 {
		t.Fatalf("expected home court bonus 0.04, got %f", features.HomeCourtBonus)
	}
}

func TestFeaturesUnknownTeam(t *testing.T) {
	p := New(testProvider(), DefaultCoefficients(), quietLogger())
	if _, err := p.Features(context.Background(), "New York Knicks", "Vancouver Grizzlies"); err == nil {
		t.Fatal("expected error for unknown away team")
	}
}

func TestAnalyze(t *testing.T) {
	p := New(testProvider(), DefaultCoefficients(), quietLogger())

	analysis := p.Analyze(context.Background(), "New York Knicks", "Miami Heat")
	if analysis.Efficiency.NetRatingDiff != 10 {
		t.Fatalf("expected net rating diff 10, got %f", analysis.Efficiency.NetRatingDiff)
	}
	if analysis.RecentForm.HomeWinPct != 0.7 || analysis.RecentForm.AwayWinPct != 0.4 {
		t.Fatalf("unexpected recent form comparison: %+v", analysis.RecentForm)
	}
}

func TestAnalyzeFailsClosed(t *testing.T) {
	p := New(testProvider(), DefaultCoefficients(), quietLogger())

	analysis := p.Analyze(context.Background(), "Seattle SuperSonics", "Miami Heat")
	if analysis.Efficiency.NetRatingDiff != 0 || analysis.Efficiency.HomeOffVsAwayDef != 0 {
		t.Fatalf("expected zero differentials, got %+v", analysis.Efficiency)
	}
	if analysis.RecentForm.HomeWinPct != 0.5 || analysis.RecentForm.AwayWinPct != 0.5 {
		t.Fatalf("expected neutral recent form, got %+v", analysis.RecentForm)
	}
	if !analysis.Prediction.IsFallback() {
		t.Fatal("expected fallback prediction inside analysis")
	}
}

func TestCustomCoefficients(t *testing.T) {
	coeffs := DefaultCoefficients()
	coeffs.NetRatingScale = 0.02
	coeffs.HomeCourtBonus = 0.0

	p := New(testProvider(), coeffs, quietLogger())
	pred := p.Predict(context.Background(), "New York Knicks", "Miami Heat")
	// 0.5 + 10*0.02 + 0 = 0.7
	if math.Abs(pred.HomeWinProbability-0.7) > 1e-9 {
		t.Fatalf("expected 0.7 with custom coefficients, got %f", pred.HomeWinProbability)
	}
}
