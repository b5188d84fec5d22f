package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/models"
)

const portfolioColumns = `id, title, category, image_ref, public_id, uploaded_at, sort_order`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolioItem(row rowScanner) (*models.PortfolioItem, error) {
	item := &models.PortfolioItem{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Category,
		&item.ImageRef,
		&item.PublicID,
		&item.UploadedAt,
		&item.Order,
	)
	return item, err
}

func (t *pgTx) ListPortfolioItems(ctx context.Context) ([]models.PortfolioItem, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items ORDER BY sort_order, seq`

	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio items: %w", err)
	}
	defer rows.Close()

	var items []models.PortfolioItem
	for rows.Next() {
		item, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio items: %w", err)
	}
	return items, nil
}

// GetPortfolioItem holds a share lock on the row so a concurrent delete waits
// for this transaction.
func (t *pgTx) GetPortfolioItem(ctx context.Context, id string) (*models.PortfolioItem, error) {
	return t.getPortfolioItem(ctx, id, "FOR SHARE")
}

// GetPortfolioItemForUpdate takes the row lock an UPDATE would, so two
// concurrent edits queue instead of deadlocking on an upgrade from FOR SHARE.
func (t *pgTx) GetPortfolioItemForUpdate(ctx context.Context, id string) (*models.PortfolioItem, error) {
	return t.getPortfolioItem(ctx, id, "FOR UPDATE")
}

func (t *pgTx) getPortfolioItem(ctx context.Context, id, lock string) (*models.PortfolioItem, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items WHERE id = $1 ` + lock

	item, err := scanPortfolioItem(t.tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("portfolio item %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio item: %w", err)
	}
	return item, nil
}

func (t *pgTx) FindPortfolioItemByImageRef(ctx context.Context, imageRef string) (*models.PortfolioItem, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items WHERE image_ref = $1`

	item, err := scanPortfolioItem(t.tx.QueryRowContext(ctx, query, imageRef))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("portfolio item with image %s: %w", imageRef, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find portfolio item: %w", err)
	}
	return item, nil
}

func (t *pgTx) CountPortfolioItems(ctx context.Context) (int, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM portfolio_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count portfolio items: %w", err)
	}
	return count, nil
}

func (t *pgTx) InsertPortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	query := `
		INSERT INTO portfolio_items (id, title, category, image_ref, public_id, uploaded_at, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.ExecContext(ctx, query,
		item.ID, item.Title, item.Category, item.ImageRef, item.PublicID, item.UploadedAt, item.Order)
	if err != nil {
		return mapError("insert portfolio item", err)
	}
	return nil
}

func (t *pgTx) UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	query := `UPDATE portfolio_items SET title = $2, category = $3, sort_order = $4 WHERE id = $1`

	result, err := t.tx.ExecContext(ctx, query, item.ID, item.Title, item.Category, item.Order)
	if err != nil {
		return mapError("update portfolio item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update portfolio item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("portfolio item %s: %w", item.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *pgTx) DeletePortfolioItem(ctx context.Context, id string) (bool, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete portfolio item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete portfolio item: %w", err)
	}
	return affected > 0, nil
}

func (t *pgTx) DeleteAllPortfolioItems(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM portfolio_items`); err != nil {
		return fmt.Errorf("failed to delete portfolio items: %w", err)
	}
	return nil
}
