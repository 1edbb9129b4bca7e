package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"amartaka-bot/internal/model"
)

// DefaultDocumentName is the row key of the ledger document.
const DefaultDocumentName = "ledger"

// Postgres keeps the document as a single JSONB row. Updates lock the row
// for the duration of the transaction, which serializes all writers.
type Postgres struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgres creates a store over the document row called name.
func NewPostgres(pool *pgxpool.Pool, name string) *Postgres {
	if name == "" {
		name = DefaultDocumentName
	}
	return &Postgres{pool: pool, name: name}
}

// Migrate creates the documents table and seeds an empty document.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_documents (
			name VARCHAR(64) PRIMARY KEY,
			body JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ledger_documents table: %w", err)
	}

	empty, err := Encode(model.NewDocument())
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO ledger_documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO NOTHING
	`, p.name, empty)
	if err != nil {
		return fmt.Errorf("failed to seed ledger document: %w", err)
	}
	return nil
}

func (p *Postgres) View(ctx context.Context, fn func(doc *model.Document) error) error {
	const query = `SELECT body FROM ledger_documents WHERE name = $1`

	var body []byte
	err := p.pool.QueryRow(ctx, query, p.name).Scan(&body)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to load document: %w", err)
	}
	doc, err := Decode(body)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (p *Postgres) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		const selectQuery = `SELECT body FROM ledger_documents WHERE name = $1 FOR UPDATE`

		var body []byte
		err := tx.QueryRow(ctx, selectQuery, p.name).Scan(&body)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock document: %w", err)
		}
		doc, err := Decode(body)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		out, err := Encode(doc)
		if err != nil {
			return err
		}

		const upsertQuery = `
			INSERT INTO ledger_documents (name, body, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
		`
		if _, err := tx.Exec(ctx, upsertQuery, p.name, out); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		return nil
	})
}

// Close is a no-op: the pool is owned by the caller.
func (p *Postgres) Close() error { return nil }
