package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/models"
)

const adminColumns = `id, username, email, password_hash, role, created_at`

func scanAdmin(row rowScanner) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
	)
	return admin, err
}

func (t *pgTx) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.tx.ExecContext(ctx, query,
		admin.ID, admin.Username, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt)
	if err != nil {
		return mapError("create admin", err)
	}
	return nil
}

func (t *pgTx) GetAdminByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1 OR lower(email) = lower($1)`
	return t.getAdmin(ctx, query, identifier)
}

func (t *pgTx) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return t.getAdmin(ctx, query, id)
}

func (t *pgTx) getAdmin(ctx context.Context, query, arg string) (*models.Admin, error) {
	admin, err := scanAdmin(t.tx.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %s: %w", arg, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (t *pgTx) CountAdmins(ctx context.Context) (int, error) {
	if _, err := t.tx.ExecContext(ctx, `LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("failed to lock admins: %w", err)
	}
	var count int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

func (t *pgTx) AdminExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE username = $1 OR lower(email) = lower($2))`
	if err := t.tx.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	return exists, nil
}
