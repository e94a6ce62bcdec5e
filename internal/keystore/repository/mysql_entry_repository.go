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

// MySQLEntryRepository implements keystore entry persistence for MySQL databases.
type MySQLEntryRepository struct {
	db *sql.DB
}

// Get returns the value stored under name or ErrEntryNotFound.
func (m *MySQLEntryRepository) Get(ctx context.Context, name string) (string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT value FROM keystore_entries WHERE name = ?`

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
func (m *MySQLEntryRepository) Set(ctx context.Context, name, value string) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO keystore_entries (name, value, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, query, name, value, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to set keystore entry")
	}
	return nil
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (m *MySQLEntryRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM keystore_entries WHERE name = ?`

	if _, err := querier.ExecContext(ctx, query, name); err != nil {
		return apperrors.Wrap(err, "failed to delete keystore entry")
	}
	return nil
}

// NewMySQLEntryRepository creates a new MySQL keystore entry repository.
func NewMySQLEntryRepository(db *sql.DB) *MySQLEntryRepository {
	return &MySQLEntryRepository{db: db}
}
