// Package store provides run-history persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
)

// SQLiteStore persists simulation runs in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the run-history database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.NewStoreError("open", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.NewStoreError("init", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		label TEXT,
		seed INTEGER NOT NULL,
		config TEXT NOT NULL,
		stats TEXT NOT NULL,
		num_results INTEGER NOT NULL,
		median_return REAL NOT NULL,
		win_probability REAL NOT NULL,
		ruin_probability REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON simulation_runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a completed batch run and returns its assigned ID.
// Summary columns are duplicated out of the stats JSON so history listings
// never have to unmarshal every row.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.SimulationRun) (int64, error) {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return 0, apperrors.NewStoreError("save_run", fmt.Errorf("encoding config: %w", err))
	}
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return 0, apperrors.NewStoreError("save_run", fmt.Errorf("encoding stats: %w", err))
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO simulation_runs
			(created_at, label, seed, config, stats, num_results, median_return, win_probability, ruin_probability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt, run.Label, run.Seed, string(configJSON), string(statsJSON),
		run.Stats.NumResults, run.Stats.ReturnPct.P50,
		run.Stats.WinProbability, run.Stats.RuinProbability,
	)
	if err != nil {
		return 0, apperrors.NewStoreError("save_run", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError("save_run", err)
	}
	run.ID = id
	return id, nil
}

// GetRuns returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *SQLiteStore) GetRuns(ctx context.Context, limit int) ([]models.SimulationRun, error) {
	query := `
		SELECT id, created_at, label, seed, config, stats
		FROM simulation_runs
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get_runs", err)
	}
	defer rows.Close()

	var runs []models.SimulationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("get_runs", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("get_runs", err)
	}

	return runs, nil
}

// GetRun fetches one run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*models.SimulationRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, label, seed, config, stats
		FROM simulation_runs WHERE id = ?`, id)
	if err != nil {
		return nil, apperrors.NewStoreError("get_run", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.NewStoreError("get_run", err)
		}
		return nil, apperrors.Wrapf(apperrors.ErrRunNotFound, "run %d", id)
	}

	run, err := scanRun(rows)
	if err != nil {
		return nil, apperrors.NewStoreError("get_run", err)
	}
	return &run, nil
}

// DeleteRun removes one run by ID.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM simulation_runs WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete_run", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete_run", err)
	}
	if affected == 0 {
		return apperrors.Wrapf(apperrors.ErrRunNotFound, "run %d", id)
	}
	return nil
}

func scanRun(rows *sql.Rows) (models.SimulationRun, error) {
	var (
		run        models.SimulationRun
		label      sql.NullString
		configJSON string
		statsJSON  string
	)
	if err := rows.Scan(&run.ID, &run.CreatedAt, &label, &run.Seed, &configJSON, &statsJSON); err != nil {
		return run, err
	}
	run.Label = label.String

	if err := json.Unmarshal([]byte(configJSON), &run.Config); err != nil {
		return run, fmt.Errorf("decoding config: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &run.Stats); err != nil {
		return run, fmt.Errorf("decoding stats: %w", err)
	}
	return run, nil
}
