package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nba-edge/internal/models"
)

func sampleReport() *models.Report {
	impHome := 0.6536
	impAway := 0.2222
	vsFair := -0.0564
	return &models.Report{
		Home: "New York Knicks",
		Away: "Miami Heat",
		Market: models.MarketSummary{
			HomeOdds: 1.53,
			AwayOdds: 4.50,
			ImpHome:  &impHome,
			ImpAway:  &impAway,
		},
		FairMarket: &models.FairMarket{Home: 0.7464, Away: 0.2536},
		Model:      models.ModelSummary{HomeProb: 0.69, AwayProb: 0.31},
		Edge: &models.EdgeSummary{
			VsFair:         &vsFair,
			Recommendation: "avoid",
		},
		Kelly: &models.KellyRecommendation{
			FullKellyFraction: 0.105,
			FractionUsed:      0.5,
			SuggestedStake:    52.45,
			Bankroll:          1000,
			BetSide:           models.BetSideHome,
		},
	}
}

func TestWriteJSONKeyContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"home", "away", "market", "fair_market", "model", "kelly"} {
		assert.Contains(t, decoded, key)
	}

	market, ok := decoded["market"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"home_odds", "away_odds", "imp_home", "imp_away"} {
		assert.Contains(t, market, key)
	}

	kellyBlock, ok := decoded["kelly"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"full_kelly_frac", "fraction_of_kelly_used", "suggested_bet_size", "bankroll", "bet_side"} {
		assert.Contains(t, kellyBlock, key)
	}

	model, ok := decoded["model"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.69, model["home_prob"].(float64), 1e-9)
}

func TestWriteJSONNilReport(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "report.json"), nil)
	assert.Error(t, err)
}

func TestWriteCSVColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.csv")

	degraded := sampleReport()
	degraded.Market.ImpHome = nil
	degraded.Market.ImpAway = nil
	degraded.Edge = nil

	require.NoError(t, WriteCSV(path, []*models.Report{sampleReport(), degraded, nil}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"home", "away", "model_home_prob", "model_away_prob",
		"imp_home", "imp_away", "edge_vs_fair_home",
	}, rows[0])

	assert.Equal(t, "New York Knicks", rows[1][0])
	assert.Equal(t, "0.690000", rows[1][2])
	assert.Equal(t, "0.653600", rows[1][4])
	assert.Equal(t, "-0.056400", rows[1][6])

	// Degraded markets render as empty cells, not zeros.
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "", rows[2][6])
}
