package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kberkey/ccal/model"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNoRun = errors.New("no fit run found")

// Run describes one saved FitTable.
type Run struct {
	ID        string
	Source    string
	Features  int
	CreatedAt time.Time
}

// DB keeps fit tables in SQLite so a later essentiality build can reuse
// them without refitting.
type DB struct {
	db *sql.DB
}

func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fit_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fits (
		run_id TEXT NOT NULL REFERENCES fit_runs(id),
		position INTEGER NOT NULL,
		feature TEXT NOT NULL,
		n INTEGER NOT NULL,
		df REAL NOT NULL,
		shape REAL NOT NULL,
		location REAL NOT NULL,
		scale REAL NOT NULL,
		PRIMARY KEY (run_id, feature)
	);

	CREATE INDEX IF NOT EXISTS idx_fits_run_position ON fits(run_id, position);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// SaveFitTable stores t as a new run and returns the run id. Table order is
// preserved.
func (d *DB) SaveFitTable(ctx context.Context, source string, t *model.FitTable) (string, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `INSERT INTO fit_runs (id, source, created_at) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fits (run_id, position, feature, n, df, shape, location, scale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, fit := range t.Fits {
		_, err = stmt.ExecContext(ctx, id, i, fit.Feature, fit.N, fit.DF, fit.Shape, fit.Location, fit.Scale)
		if err != nil {
			return "", fmt.Errorf("inserting fit %q: %w", fit.Feature, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// LoadFitTable loads the run with the given id, or the latest run when id
// is empty.
func (d *DB) LoadFitTable(ctx context.Context, id string) (*model.FitTable, error) {
	if id == "" {
		run, err := d.LatestRun(ctx)
		if err != nil {
			return nil, err
		}
		id = run.ID
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT feature, n, df, shape, location, scale
		FROM fits WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying fits: %w", err)
	}
	defer rows.Close()

	fits := []model.FeatureFit{}
	for rows.Next() {
		var fit model.FeatureFit
		if err := rows.Scan(&fit.Feature, &fit.N, &fit.DF, &fit.Shape, &fit.Location, &fit.Scale); err != nil {
			return nil, fmt.Errorf("scanning fit: %w", err)
		}
		fits = append(fits, fit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fits) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	return model.NewFitTable(fits)
}

func (d *DB) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := d.runs(ctx, `ORDER BY r.created_at DESC, r.rowid DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRun
	}
	return &runs[0], nil
}

// Runs lists saved runs, newest first.
func (d *DB) Runs(ctx context.Context) ([]Run, error) {
	return d.runs(ctx, `ORDER BY r.created_at DESC, r.rowid DESC`)
}

func (d *DB) runs(ctx context.Context, order string) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.created_at, COUNT(f.feature)
		FROM fit_runs r LEFT JOIN fits f ON f.run_id = r.id
		GROUP BY r.id `+order)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.CreatedAt, &r.Features); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
