package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store, abstracted for
// mocking with pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_price": `INSERT INTO price_history (id, product_id, product_url, price, mrp, observed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"get_history": `SELECT price, mrp, observed_at FROM (
		SELECT price, mrp, observed_at FROM price_history
		WHERE product_id = $1 ORDER BY observed_at DESC LIMIT $2
	) recent ORDER BY observed_at ASC`,
	"insert_job": `INSERT INTO analysis_jobs (id, url, status, created_at) VALUES ($1, $2, $3, $4)`,
	"get_job":    `SELECT id, url, status, result, error, created_at, finished_at FROM analysis_jobs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS price_history (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id  TEXT NOT NULL,
	product_url TEXT NOT NULL,
	price       NUMERIC(12,2) NOT NULL,
	mrp         NUMERIC(12,2),
	observed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_jobs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	url         TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	result      JSONB,
	error       TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_price_history_product_id ON price_history(product_id);
CREATE INDEX IF NOT EXISTS idx_price_history_observed ON price_history(product_id, observed_at DESC);
CREATE INDEX IF NOT EXISTS idx_analysis_jobs_status ON analysis_jobs(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) AppendPrice(ctx context.Context, url string, price decimal.Decimal, mrp *decimal.Decimal, ts time.Time) error {
	var mrpVal any
	if mrp != nil {
		mrpVal = mrp.String()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO price_history (id, product_id, product_url, price, mrp, observed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), ProductID(url), url, price.String(), mrpVal, ts.UTC(),
	)
	return eris.Wrap(err, "postgres: append price")
}

func (s *PostgresStore) History(ctx context.Context, url string, limit int) ([]model.PricePoint, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := s.pool.Query(ctx,
		`SELECT price, mrp, observed_at FROM (
			SELECT price, mrp, observed_at FROM price_history
			WHERE product_id = $1 ORDER BY observed_at DESC LIMIT $2
		) recent ORDER BY observed_at ASC`,
		ProductID(url), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query history")
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		var mrpVal *decimal.Decimal
		if err := rows.Scan(&p.Price, &mrpVal, &p.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan price point")
		}
		p.MRP = mrpVal
		points = append(points, p)
	}
	return points, eris.Wrap(rows.Err(), "postgres: history iterate")
}

func (s *PostgresStore) CreateJob(ctx context.Context, url string) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_jobs (id, url, status, created_at) VALUES ($1, $2, $3, $4)`,
		id, url, string(model.JobQueued), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert job")
	}

	return &model.Job{
		ID:        id,
		URL:       url,
		Status:    model.JobQueued,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE analysis_jobs SET status = $1 WHERE id = $2`,
		string(status), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update job status %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) CompleteJob(ctx context.Context, jobID string, report *model.AnalysisReport) error {
	resultJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE analysis_jobs SET status = $1, result = $2, finished_at = $3 WHERE id = $4`,
		string(model.JobDone), resultJSON, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) FailJob(ctx context.Context, jobID string, message string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE analysis_jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
		string(model.JobFailed), message, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	var j model.Job
	var resultJSON []byte
	var errMsg *string
	var finishedAt *time.Time

	err := s.pool.QueryRow(ctx,
		`SELECT id, url, status, result, error, created_at, finished_at FROM analysis_jobs WHERE id = $1`,
		jobID,
	).Scan(&j.ID, &j.URL, &j.Status, &resultJSON, &errMsg, &j.CreatedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("job not found: %s", jobID)
		}
		return nil, eris.Wrapf(err, "postgres: get job %s", jobID)
	}

	if errMsg != nil {
		j.Error = *errMsg
	}
	j.FinishedAt = finishedAt
	if resultJSON != nil {
		j.Result = &model.AnalysisReport{}
		if err := json.Unmarshal(resultJSON, j.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
	}
	return &j, nil
}
