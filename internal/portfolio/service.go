package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/events"
	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	store store.Store
	bus   *events.Bus
	log   *zap.Logger
	now   func() time.Time
}

func NewService(st store.Store, bus *events.Bus, log *zap.Logger) *Service {
	return &Service{store: st, bus: bus, log: log, now: time.Now}
}

// List returns all items, or only those whose category matches (case-insensitive).
func (s *Service) List(ctx context.Context, category string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		items, err = tx.ListPortfolioItems(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio: %w", err)
	}

	filtered := make([]models.PortfolioItem, 0, len(items))
	for _, item := range items {
		if category == "" || strings.EqualFold(item.Category, category) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *Service) Create(ctx context.Context, req models.PortfolioItemRequest) (*models.PortfolioItem, error) {
	ref := strings.TrimSpace(req.Reference())
	if ref == "" {
		return nil, apperrors.Validation("Missing image data")
	}

	item := models.PortfolioItem{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Category:   strings.TrimSpace(req.Category),
		ImageRef:   ref,
		PublicID:   req.PublicID,
		UploadedAt: s.now().UTC(),
	}

	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		existing, err := tx.FindPortfolioItemByImageRef(ctx, ref)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return apperrors.Duplicate("Image already exists in portfolio")
		}

		if req.Order != nil {
			item.Order = *req.Order
		} else {
			count, err := tx.CountPortfolioItems(ctx)
			if err != nil {
				return err
			}
			item.Order = count
		}
		return tx.InsertPortfolioItem(ctx, &item)
	})
	if err != nil {
		// a concurrent insert can still trip the unique index
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Duplicate("Image already exists in portfolio")
		}
		return nil, err
	}

	s.log.Info("portfolio item created",
		zap.String("id", item.ID),
		zap.String("category", item.Category),
		zap.Int("order", item.Order),
	)
	return &item, nil
}

// Update edits title and category only.
func (s *Service) Update(ctx context.Context, id string, patch models.PortfolioItemPatch) (*models.PortfolioItem, error) {
	var updated *models.PortfolioItem
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		item, err := tx.GetPortfolioItemForUpdate(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("Portfolio item not found")
		}
		if err != nil {
			return err
		}

		if patch.Title != nil {
			item.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Category != nil {
			item.Category = strings.TrimSpace(*patch.Category)
		}
		if err := tx.UpdatePortfolioItem(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("portfolio item updated", zap.String("id", id))
	return updated, nil
}

// Delete removes the item and, in the same transaction, lets subscribers drop
// anything that references it. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	var deleted bool
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		deleted, err = tx.DeletePortfolioItem(ctx, id)
		if err != nil || !deleted {
			return err
		}
		return s.bus.PublishPortfolioItemDeleted(ctx, tx, events.PortfolioItemDeleted{
			ItemID:    id,
			DeletedAt: s.now().UTC(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete portfolio item %s: %w", id, err)
	}

	if deleted {
		s.log.Info("portfolio item deleted", zap.String("id", id))
	}
	return nil
}

// Clear removes every item and everything that references them.
func (s *Service) Clear(ctx context.Context) error {
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteAllPortfolioItems(ctx); err != nil {
			return err
		}
		return s.bus.PublishPortfolioCleared(ctx, tx, events.PortfolioCleared{ClearedAt: s.now().UTC()})
	})
	if err != nil {
		return fmt.Errorf("failed to clear portfolio: %w", err)
	}

	s.log.Warn("portfolio cleared")
	return nil
}
