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

// SQLiteEntryRepository implements keystore entry persistence for a local SQLite file.
// It is the default store of a single-user installation.
type SQLiteEntryRepository struct {
	db *sql.DB
}

// Get returns the value stored under name or ErrEntryNotFound.
func (s *SQLiteEntryRepository) Get(ctx context.Context, name string) (string, error) {
	querier := database.GetTx(ctx, s.db)

	var value string
	err := querier.QueryRowContext(ctx, `SELECT value FROM keystore_entries WHERE name = ?`, name).
		Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", keystoreDomain.ErrEntryNotFound
		}
		return "", apperrors.Wrap(err, "failed to get keystore entry")
	}
	return value, nil
}

// Set inserts or replaces the value stored under name.
func (s *SQLiteEntryRepository) Set(ctx context.Context, name, value string) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO keystore_entries (name, value, updated_at)
			  VALUES (?, ?, ?)
			  ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := querier.ExecContext(ctx, query, name, value, updatedAt); err != nil {
		return apperrors.Wrap(err, "failed to set keystore entry")
	}
	return nil
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (s *SQLiteEntryRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, s.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM keystore_entries WHERE name = ?`, name); err != nil {
		return apperrors.Wrap(err, "failed to delete keystore entry")
	}
	return nil
}

// NewSQLiteEntryRepository creates a new SQLite keystore entry repository.
func NewSQLiteEntryRepository(db *sql.DB) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{db: db}
}
