package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across cli/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026031401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	status TEXT NOT NULL,
	risk TEXT NOT NULL DEFAULT '',
	explanation TEXT NOT NULL DEFAULT '',
	report_path TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO submissions (
	id, filename, mime_type, storage_key, status, risk, explanation, report_path, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		sub.ID, sub.Filename, sub.MimeType, sub.StorageKey, string(sub.Status),
		string(sub.Risk), sub.Explanation, sub.ReportPath, sub.Error, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_key, status, risk, explanation, report_path, error_message, created_at, updated_at
FROM submissions
WHERE id = $1
`, id)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSubmissionNotFound, "get submission by id", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return &sub, nil
}

func (r *SubmissionRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, `
UPDATE submissions
SET status = $2, updated_at = $3
WHERE id = $1
`, string(domain.SubmissionProcessing))
}

func (r *SubmissionRepository) MarkDone(ctx context.Context, id string, risk domain.RiskLevel, explanation, reportPath string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE submissions
SET status = $2, risk = $3, explanation = $4, report_path = $5, error_message = '', updated_at = $6
WHERE id = $1
`, id, string(domain.SubmissionDone), string(risk), explanation, reportPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark submission done: %w", err)
	}
	return requireRow(result, id)
}

func (r *SubmissionRepository) MarkFailed(ctx context.Context, id, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE submissions
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.SubmissionFailed), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark submission failed: %w", err)
	}
	return requireRow(result, id)
}

func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, mime_type, storage_key, status, risk, explanation, report_path, error_message, created_at, updated_at
FROM submissions
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

func (r *SubmissionRepository) setStatus(ctx context.Context, id, query, status string) error {
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("submission rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrSubmissionNotFound, "update submission", fmt.Errorf("id=%s", id))
	}
	return nil
}

type submissionScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row submissionScanner) (domain.Submission, error) {
	var sub domain.Submission
	var status, risk string
	err := row.Scan(
		&sub.ID,
		&sub.Filename,
		&sub.MimeType,
		&sub.StorageKey,
		&status,
		&risk,
		&sub.Explanation,
		&sub.ReportPath,
		&sub.Error,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return domain.Submission{}, err
	}
	sub.Status = domain.SubmissionStatus(status)
	sub.Risk = domain.RiskLevel(risk)
	return sub, nil
}
