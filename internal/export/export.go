// Package export writes analysis reports to JSON and CSV files. The
// JSON key set and the CSV column order are a compatibility contract
// with downstream spreadsheet and notebook consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/nba-edge/internal/metrics"
	"github.com/yourusername/nba-edge/internal/models"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{
	"home",
	"away",
	"model_home_prob",
	"model_away_prob",
	"imp_home",
	"imp_away",
	"edge_vs_fair_home",
}

// WriteJSON writes a single report as pretty-printed JSON. Parent
// directories are created as needed.
func WriteJSON(path string, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	metrics.RecordExport("json")
	return nil
}

// WriteCSV writes reports as one CSV row per matchup under a fixed
// header. Undefined probabilities render as empty cells.
func WriteCSV(path string, reports []*models.Report) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, report := range reports {
		if report == nil {
			continue
		}
		if err := w.Write(csvRow(report)); err != nil {
			return fmt.Errorf("failed to write row for %s vs %s: %w", report.Home, report.Away, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	metrics.RecordExport("csv")
	return nil
}

func csvRow(report *models.Report) []string {
	var edgeVsFair *float64
	if report.Edge != nil {
		edgeVsFair = report.Edge.VsFair
	}
	return []string{
		report.Home,
		report.Away,
		formatProb(report.Model.HomeProb),
		formatProb(report.Model.AwayProb),
		formatOptional(report.Market.ImpHome),
		formatOptional(report.Market.ImpAway),
		formatOptional(edgeVsFair),
	}
}

func formatProb(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatProb(*v)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
