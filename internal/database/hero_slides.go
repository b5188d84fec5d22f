package database

import (
	"context"
	"encoding/json"
	"fmt"

	"dgstudios-backend/internal/models"
)

// LockHeroSlides conflicts with itself and with row writes, so two curation
// transactions never read the same slide set.
func (t *pgTx) LockHeroSlides(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, `LOCK TABLE hero_slides IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock hero slides: %w", err)
	}
	return nil
}

func (t *pgTx) ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	query := `
		SELECT id, portfolio_item_id, snapshot, sort_order, is_active, added_at
		FROM hero_slides
		ORDER BY sort_order
	`
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hero slides: %w", err)
	}
	defer rows.Close()

	var slides []models.HeroSlide
	for rows.Next() {
		var slide models.HeroSlide
		var snapshot []byte
		if err := rows.Scan(
			&slide.ID,
			&slide.PortfolioItemID,
			&snapshot,
			&slide.Order,
			&slide.IsActive,
			&slide.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hero slide: %w", err)
		}
		if err := json.Unmarshal(snapshot, &slide.PortfolioItem); err != nil {
			return nil, fmt.Errorf("failed to decode hero slide %s snapshot: %w", slide.ID, err)
		}
		slides = append(slides, slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hero slides: %w", err)
	}
	return slides, nil
}

func (t *pgTx) ReplaceHeroSlides(ctx context.Context, slides []models.HeroSlide) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM hero_slides`); err != nil {
		return fmt.Errorf("failed to clear hero slides: %w", err)
	}

	query := `
		INSERT INTO hero_slides (id, portfolio_item_id, snapshot, sort_order, is_active, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, slide := range slides {
		snapshot, err := json.Marshal(slide.PortfolioItem)
		if err != nil {
			return fmt.Errorf("failed to encode hero slide %s snapshot: %w", slide.ID, err)
		}
		if _, err := t.tx.ExecContext(ctx, query,
			slide.ID, slide.PortfolioItemID, snapshot, slide.Order, slide.IsActive, slide.AddedAt); err != nil {
			return mapError("insert hero slide", err)
		}
	}
	return nil
}
