// Package ledger records runs and per-file outcomes in a relational store,
// so past batches can be inspected after the fact. SQLite is the default;
// a postgres:// DSN routes through pgx.
package ledger

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/docmill/docmill/constants"
	"github.com/docmill/docmill/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	input_dir   TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	model       TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	found       INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS run_files (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	source_path TEXT NOT NULL,
	essay_path  TEXT,
	status      TEXT NOT NULL,
	word_count  INTEGER NOT NULL DEFAULT 0,
	paragraphs  INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS run_files_run_idx ON run_files (run_id);
`

type Ledger struct {
	db     *sql.DB
	pool   *pgxpool.Pool // nil for sqlite
	logger *slog.Logger
}

// Open connects to the ledger store. DSNs starting with postgres:// or
// postgresql:// go through a pgx pool wrapped as database/sql (mirroring the
// main database layer); anything else is treated as an SQLite path or
// file: DSN. ":memory:" works for throwaway runs and tests.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var db *sql.DB
	var pool *pgxpool.Pool
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		pc, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, common.WrapError(err, "parse ledger dsn")
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "docmill"
		pool, err = pgxpool.NewWithConfig(ctx, pc)
		if err != nil {
			return nil, common.WrapError(err, "connect ledger")
		}
		db = stdlib.OpenDBFromPool(pool)
	} else {
		var err error
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, common.WrapError(err, "open ledger")
		}
		// The ledger is written from a single goroutine; one connection keeps
		// modernc/sqlite away from table-lock races.
		db.SetMaxOpenConns(1)
	}

	l := &Ledger{db: db, pool: pool, logger: logger}
	if err := l.migrate(ctx); err != nil {
		_ = l.Close()
		return nil, err
	}
	logger.Info("ledger.open", "dsn", redact(dsn))
	return l, nil
}

func (l *Ledger) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "migrate ledger")
		}
	}
	return nil
}

// BeginRun inserts a run row and returns its id.
func (l *Ledger) BeginRun(ctx context.Context, inputDir, outputDir, model string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_dir, output_dir, model, started_at) VALUES ($1, $2, $3, $4, $5)`,
		id.String(), inputDir, outputDir, model, time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, common.WrapError(err, "ledger begin run")
	}
	return id, nil
}

// FileRecord is one per-file outcome row.
type FileRecord struct {
	RunID          uuid.UUID
	SourcePath     string
	EssayPath      string
	Status         constants.FileStatus
	WordCount      int
	ParagraphCount int
	Err            string
	StartedAt      time.Time
}

// RecordFile persists one file's outcome.
func (l *Ledger) RecordFile(ctx context.Context, rec FileRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO run_files (id, run_id, source_path, essay_path, status, word_count, paragraphs, error, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New().String(), rec.RunID.String(), rec.SourcePath, rec.EssayPath,
		string(rec.Status), rec.WordCount, rec.ParagraphCount, rec.Err,
		rec.StartedAt.UTC(), time.Now().UTC(),
	)
	return common.WrapError(err, "ledger record file")
}

// FinishRun stamps the run row with final counters.
func (l *Ledger) FinishRun(ctx context.Context, runID uuid.UUID, found, succeeded, failed int) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = $1, found = $2, succeeded = $3, failed = $4 WHERE id = $5`,
		time.Now().UTC(), found, succeeded, failed, runID.String(),
	)
	return common.WrapError(err, "ledger finish run")
}

// Close closes the database connections gracefully.
func (l *Ledger) Close() error {
	err := l.db.Close()
	if l.pool != nil {
		l.pool.Close()
	}
	return err
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
	}
	return dsn
}
