// Package repository implements persistence for the credential keystore.
//
// Entries are opaque name/value strings: the keystore metadata, one encrypted value per
// provider and the legacy key material. Every SQL repository resolves its querier with
// database.GetTx so writes join the caller's transaction when there is one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/omnichat/internal/database"
	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// PostgreSQLEntryRepository implements keystore entry persistence for PostgreSQL databases.
type PostgreSQLEntryRepository struct {
	db *sql.DB
}

// Get returns the value stored under name or ErrEntryNotFound.
func (p *PostgreSQLEntryRepository) Get(ctx context.Context, name string) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT value FROM keystore_entries WHERE name = $1`

	var value string
	if err := querier.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", keystoreDomain.ErrEntryNotFound
		}
		return "", apperrors.Wrap(err, "failed to get keystore entry")
	}
	return value, nil
}

// Set inserts or replaces the value stored under name.
func (p *PostgreSQLEntryRepository) Set(ctx context.Context, name, value string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO keystore_entries (name, value, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := querier.ExecContext(ctx, query, name, value, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to set keystore entry")
	}
	return nil
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (p *PostgreSQLEntryRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM keystore_entries WHERE name = $1`

	if _, err := querier.ExecContext(ctx, query, name); err != nil {
		return apperrors.Wrap(err, "failed to delete keystore entry")
	}
	return nil
}

// NewPostgreSQLEntryRepository creates a new PostgreSQL keystore entry repository.
func NewPostgreSQLEntryRepository(db *sql.DB) *PostgreSQLEntryRepository {
	return &PostgreSQLEntryRepository{db: db}
}
