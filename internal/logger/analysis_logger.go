// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for matchup analysis runs.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analyzer"),
	}
}

// LogAnalysisRun logs a completed matchup analysis.
func (al *AnalysisLogger) LogAnalysisRun(home, away string, homeProb, awayProb float64, fallback bool, durationMs float64) {
	al.WithFields(logrus.Fields{
		"home":                 home,
		"away":                 away,
		"model_home_prob":      homeProb,
		"model_away_prob":      awayProb,
		"fallback":             fallback,
		"analysis_duration_ms": durationMs,
	}).Info("Matchup analysis completed")
}

// LogEdgeVerdict logs the edge verdict for a matchup.
func (al *AnalysisLogger) LogEdgeVerdict(home, away string, edgeVsFair float64, verdict string) {
	al.WithFields(logrus.Fields{
		"home":         home,
		"away":         away,
		"edge_vs_fair": edgeVsFair,
		"verdict":      verdict,
		"event_type":   "edge_verdict",
	}).Info("Edge verdict computed")
}

// LogKellySizing logs a stake sizing decision.
func (al *AnalysisLogger) LogKellySizing(home, away, betSide string, fullKelly, multiplier, stake, bankroll float64) {
	al.WithFields(logrus.Fields{
		"home":             home,
		"away":             away,
		"bet_side":         betSide,
		"full_kelly_frac":  fullKelly,
		"kelly_multiplier": multiplier,
		"suggested_stake":  stake,
		"bankroll":         bankroll,
	}).Info("Kelly stake sized")
}

// LogProviderFallback logs that the model ran on default team data.
func (al *AnalysisLogger) LogProviderFallback(team, reason string) {
	al.WithFields(logrus.Fields{
		"team":       team,
		"reason":     reason,
		"event_type": "provider_fallback",
	}).Warn("Falling back to default team data")
}

// LogExport logs a report export.
func (al *AnalysisLogger) LogExport(format, path string, reportCount int) {
	al.WithFields(logrus.Fields{
		"format":       format,
		"path":         path,
		"report_count": reportCount,
	}).Info("Reports exported")
}
