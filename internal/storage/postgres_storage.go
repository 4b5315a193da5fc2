package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/contactrelay/internal/model"
)

const schema = `
	CREATE TABLE IF NOT EXISTS contact_submissions (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		message    TEXT NOT NULL,
		company    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		service    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PostgresStorage struct {
	db *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) SubmissionStorage {
	return &PostgresStorage{db: pool}
}

// EnsureSchema creates the submissions table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.db.Ping(ctx)
}

func (ps *PostgresStorage) Save(ctx context.Context, s model.Submission) (model.StoredSubmission, error) {
	const query = `
		INSERT INTO contact_submissions (name, email, message, company, phone, service)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`

	stored := model.StoredSubmission{Submission: s}
	err := ps.db.QueryRow(ctx, query,
		s.Name, s.Email, s.Message, s.Company, s.Phone, s.Service,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return model.StoredSubmission{}, fmt.Errorf("failed to save submission: %w", err)
	}
	return stored, nil
}
