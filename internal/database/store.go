package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/store"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresStore implements store.Store on a lib/pq connection pool.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

type pgTx struct {
	tx *sql.Tx
}

// mapError translates constraint violations into domain errors and wraps
// everything else.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, apperrors.ErrDuplicate)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, apperrors.ErrNotFound)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
