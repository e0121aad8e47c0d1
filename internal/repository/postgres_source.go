package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentFile is a stored content document.
type ContentFile struct {
	Name string
	Body []byte
}

// PostgresSource serves content files stored in the content_files table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a new PostgresSource.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Fetch returns the JSON body stored under name.
func (r *PostgresSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateContentName(name); err != nil {
		return nil, err
	}

	var body []byte
	err := r.pool.QueryRow(ctx,
		`SELECT body FROM content_files WHERE name = $1`, name,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
		}
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return body, nil
}

// Upsert stores or replaces a content file.
func (r *PostgresSource) Upsert(ctx context.Context, f ContentFile) error {
	if err := ValidateContentName(f.Name); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO content_files (name, body, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		f.Name, f.Body)
	return err
}

// UpsertAll stores several files in one transaction.
func (r *PostgresSource) UpsertAll(ctx context.Context, files []ContentFile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, f := range files {
		if err := ValidateContentName(f.Name); err != nil {
			return err
		}
		batch.Queue(
			`INSERT INTO content_files (name, body, updated_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
			f.Name, f.Body)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return tx.Commit(ctx)
}

// ListNames returns every stored content file name.
func (r *PostgresSource) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM content_files ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
