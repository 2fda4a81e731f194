package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/nba-edge/internal/models"
)

// AnalysisRepository persists and retrieves analysis reports.
type AnalysisRepository interface {
	Save(ctx context.Context, report *models.Report) (*models.AnalysisRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRecord, error)
	ListByTeam(ctx context.Context, teamName string, limit int) ([]*models.AnalysisRecord, error)
}

// PostgresAnalysisRepository implements AnalysisRepository for PostgreSQL
type PostgresAnalysisRepository struct {
	db *DB
}

// NewPostgresAnalysisRepository creates a new analysis history repository
func NewPostgresAnalysisRepository(db *DB) AnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// EnsureSchema creates the analyses table if it does not exist.
func EnsureSchema(ctx context.Context, db *DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			report JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_analyses_teams ON analyses (home_team, away_team);
	`
	if _, err := db.GetPool().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure analyses schema: %w", err)
	}
	return nil
}

// Save inserts a report and returns the stored record
func (r *PostgresAnalysisRepository) Save(ctx context.Context, report *models.Report) (*models.AnalysisRecord, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	record := &models.AnalysisRecord{
		ID:        uuid.New(),
		Home:      report.Home,
		Away:      report.Away,
		Report:    *report,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO analyses (id, home_team, away_team, report, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, query,
			record.ID, record.Home, record.Away, payload, record.CreatedAt,
		)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return record, nil
}

// GetByID retrieves an analysis record by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	query := `
		SELECT id, home_team, away_team, report, created_at
		FROM analyses WHERE id = $1
	`

	record, err := scanRecord(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return record, nil
}

// ListRecent retrieves the most recent analysis records
func (r *PostgresAnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, home_team, away_team, report, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByTeam retrieves recent analyses involving a team on either side
func (r *PostgresAnalysisRepository) ListByTeam(ctx context.Context, teamName string, limit int) ([]*models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, home_team, away_team, report, created_at
		FROM analyses
		WHERE home_team = $1 OR away_team = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by team: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AnalysisRecord, error) {
	record := &models.AnalysisRecord{}
	var payload []byte
	if err := row.Scan(&record.ID, &record.Home, &record.Away, &payload, &record.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &record.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored report: %w", err)
	}
	return record, nil
}

func scanRecords(rows pgx.Rows) ([]*models.AnalysisRecord, error) {
	var records []*models.AnalysisRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
