package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS price_history (
	id          TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL,
	product_url TEXT NOT NULL,
	price       TEXT NOT NULL,
	mrp         TEXT,
	observed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_jobs (
	id          TEXT PRIMARY KEY,
	url         TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	result      TEXT,
	error       TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_price_history_product_id ON price_history(product_id);
CREATE INDEX IF NOT EXISTS idx_price_history_observed_at ON price_history(product_id, observed_at DESC);
CREATE INDEX IF NOT EXISTS idx_analysis_jobs_status ON analysis_jobs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendPrice(ctx context.Context, url string, price decimal.Decimal, mrp *decimal.Decimal, ts time.Time) error {
	var mrpStr sql.NullString
	if mrp != nil {
		mrpStr = sql.NullString{String: mrp.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history (id, product_id, product_url, price, mrp, observed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), ProductID(url), url, price.String(), mrpStr, ts.UTC(),
	)
	return eris.Wrap(err, "sqlite: append price")
}

func (s *SQLiteStore) History(ctx context.Context, url string, limit int) ([]model.PricePoint, error) {
	if limit <= 0 {
		limit = 30
	}

	// Most recent window, returned oldest first.
	rows, err := s.db.QueryContext(ctx,
		`SELECT price, mrp, observed_at FROM (
			SELECT price, mrp, observed_at FROM price_history
			WHERE product_id = ? ORDER BY observed_at DESC LIMIT ?
		) ORDER BY observed_at ASC`,
		ProductID(url), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query history")
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		p, err := scanPricePoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	return points, eris.Wrap(rows.Err(), "sqlite: history iterate")
}

func (s *SQLiteStore) CreateJob(ctx context.Context, url string) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_jobs (id, url, status, created_at) VALUES (?, ?, ?, ?)`,
		id, url, string(model.JobQueued), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert job")
	}

	return &model.Job{
		ID:        id,
		URL:       url,
		Status:    model.JobQueued,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = ? WHERE id = ?`,
		string(status), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job status %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) CompleteJob(ctx context.Context, jobID string, report *model.AnalysisReport) error {
	resultJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = ?, result = ?, finished_at = ? WHERE id = ?`,
		string(model.JobDone), string(resultJSON), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) FailJob(ctx context.Context, jobID string, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(model.JobFailed), message, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, status, result, error, created_at, finished_at FROM analysis_jobs WHERE id = ?`,
		jobID,
	)

	var j model.Job
	var resultJSON, errMsg sql.NullString
	var finishedAt sql.NullTime
	err := row.Scan(&j.ID, &j.URL, &j.Status, &resultJSON, &errMsg, &j.CreatedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan job")
	}

	if errMsg.Valid {
		j.Error = errMsg.String
	}
	if finishedAt.Valid {
		j.FinishedAt = &finishedAt.Time
	}
	if resultJSON.Valid {
		j.Result = &model.AnalysisReport{}
		if err := json.Unmarshal([]byte(resultJSON.String), j.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
	}
	return &j, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPricePoint(row scannable) (*model.PricePoint, error) {
	var priceStr string
	var mrpStr sql.NullString
	var ts time.Time

	if err := row.Scan(&priceStr, &mrpStr, &ts); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan price point")
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse price %q", priceStr)
	}

	p := model.PricePoint{Price: price, Timestamp: ts}
	if mrpStr.Valid {
		mrp, err := decimal.NewFromString(mrpStr.String)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse mrp %q", mrpStr.String)
		}
		p.MRP = &mrp
	}
	return &p, nil
}
