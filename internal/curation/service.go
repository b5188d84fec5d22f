// Package curation maintains the hero slideshow: a bounded, contiguously
// ordered subset of the portfolio whose first slide is the active one.
package curation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/events"
	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const capacityMessage = "Maximum 5 hero slides allowed"

// SnapshotPolicy decides what List embeds in each slide.
type SnapshotPolicy int

const (
	// UseSnapshot returns the item as it was when the slide was added.
	UseSnapshot SnapshotPolicy = iota
	// RefetchLive replaces the snapshot with the current portfolio item.
	RefetchLive
)

type Service struct {
	store  store.Store
	log    *zap.Logger
	policy SnapshotPolicy
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithSnapshotPolicy(p SnapshotPolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the service and subscribes it to portfolio deletions on bus.
func NewService(st store.Store, bus *events.Bus, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		log:    log,
		policy: UseSnapshot,
		now:    time.Now,
		newID:  func() string { return models.HeroSlideIDPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if bus != nil {
		bus.OnPortfolioItemDeleted(s.handlePortfolioItemDeleted)
		bus.OnPortfolioCleared(s.handlePortfolioCleared)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]models.HeroSlide, error) {
	var slides []models.HeroSlide
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		slides, err = tx.ListHeroSlides(ctx)
		if err != nil {
			return err
		}
		if s.policy == RefetchLive {
			return s.refresh(ctx, tx, slides)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list hero slides: %w", err)
	}
	return nonNil(slides), nil
}

func (s *Service) refresh(ctx context.Context, tx store.Tx, slides []models.HeroSlide) error {
	for i := range slides {
		item, err := tx.GetPortfolioItem(ctx, slides[i].PortfolioItemID)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		slides[i].PortfolioItem = *item
	}
	return nil
}

// Add appends the portfolio item to the end of the slideshow.
func (s *Service) Add(ctx context.Context, portfolioItemID string) (*models.HeroSlide, error) {
	var created models.HeroSlide
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		// Read the item before taking the slide lock; portfolio deletes
		// lock in the same order.
		var item *models.PortfolioItem
		if portfolioItemID != "" {
			var err error
			item, err = tx.GetPortfolioItem(ctx, portfolioItemID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}
		if err := tx.LockHeroSlides(ctx); err != nil {
			return err
		}
		slides, err := tx.ListHeroSlides(ctx)
		if err != nil {
			return err
		}

		if len(slides) >= models.MaxHeroSlides {
			return apperrors.CapacityExceeded(capacityMessage)
		}
		if portfolioItemID == "" {
			return apperrors.Validation("Missing portfolio item")
		}
		for _, slide := range slides {
			if slide.PortfolioItemID == portfolioItemID {
				return apperrors.Duplicate("Portfolio item is already a hero slide")
			}
		}
		if item == nil {
			return apperrors.NotFound("Portfolio item not found")
		}

		created = models.HeroSlide{
			ID:              s.newID(),
			PortfolioItemID: item.ID,
			PortfolioItem:   *item,
			Order:           len(slides),
			IsActive:        len(slides) == 0,
			AddedAt:         s.now().UTC(),
		}
		return tx.ReplaceHeroSlides(ctx, append(slides, created))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("hero slide added",
		zap.String("slide_id", created.ID),
		zap.String("portfolio_item_id", portfolioItemID),
		zap.Int("order", created.Order),
	)
	return &created, nil
}

// Remove deletes a slide and closes the gap it leaves.
func (s *Service) Remove(ctx context.Context, slideID string) ([]models.HeroSlide, error) {
	var result []models.HeroSlide
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.LockHeroSlides(ctx); err != nil {
			return err
		}
		slides, err := tx.ListHeroSlides(ctx)
		if err != nil {
			return err
		}

		remaining, removed := without(slides, func(sl models.HeroSlide) bool { return sl.ID == slideID })
		if removed == 0 {
			return apperrors.NotFound("Hero slide not found")
		}

		result = reindex(remaining)
		return tx.ReplaceHeroSlides(ctx, result)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("hero slide removed", zap.String("slide_id", slideID), zap.Int("remaining", len(result)))
	return nonNil(result), nil
}

// Reorder rewrites the slideshow to follow slideIDs. Unknown ids are ignored
// and slides missing from slideIDs are dropped.
func (s *Service) Reorder(ctx context.Context, slideIDs []string) ([]models.HeroSlide, error) {
	var result []models.HeroSlide
	var dropped int
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.LockHeroSlides(ctx); err != nil {
			return err
		}
		slides, err := tx.ListHeroSlides(ctx)
		if err != nil {
			return err
		}

		byID := make(map[string]models.HeroSlide, len(slides))
		for _, slide := range slides {
			byID[slide.ID] = slide
		}

		ordered := make([]models.HeroSlide, 0, len(slideIDs))
		for _, id := range slideIDs {
			slide, ok := byID[id]
			if !ok {
				continue
			}
			ordered = append(ordered, slide)
			delete(byID, id)
		}
		dropped = len(slides) - len(ordered)

		result = reindex(ordered)
		return tx.ReplaceHeroSlides(ctx, result)
	})
	if err != nil {
		return nil, err
	}

	if dropped > 0 {
		s.log.Warn("hero reorder dropped slides missing from the request", zap.Int("dropped", dropped))
	}
	s.log.Info("hero slides reordered", zap.Int("count", len(result)))
	return nonNil(result), nil
}

func (s *Service) handlePortfolioCleared(ctx context.Context, tx store.Tx, ev events.PortfolioCleared) error {
	if err := tx.LockHeroSlides(ctx); err != nil {
		return err
	}
	s.log.Info("hero slides cleared with portfolio")
	return tx.ReplaceHeroSlides(ctx, nil)
}

func (s *Service) handlePortfolioItemDeleted(ctx context.Context, tx store.Tx, ev events.PortfolioItemDeleted) error {
	if err := tx.LockHeroSlides(ctx); err != nil {
		return err
	}
	slides, err := tx.ListHeroSlides(ctx)
	if err != nil {
		return err
	}

	remaining, removed := without(slides, func(sl models.HeroSlide) bool { return sl.PortfolioItemID == ev.ItemID })
	if removed == 0 {
		return nil
	}

	s.log.Info("hero slide cascade", zap.String("portfolio_item_id", ev.ItemID), zap.Int("removed", removed))
	return tx.ReplaceHeroSlides(ctx, reindex(remaining))
}

// reindex assigns contiguous orders from 0 and marks only the first slide active.
func reindex(slides []models.HeroSlide) []models.HeroSlide {
	out := make([]models.HeroSlide, len(slides))
	for i, slide := range slides {
		slide.Order = i
		slide.IsActive = i == 0
		out[i] = slide
	}
	return out
}

func without(slides []models.HeroSlide, drop func(models.HeroSlide) bool) ([]models.HeroSlide, int) {
	kept := make([]models.HeroSlide, 0, len(slides))
	for _, slide := range slides {
		if !drop(slide) {
			kept = append(kept, slide)
		}
	}
	return kept, len(slides) - len(kept)
}

func nonNil(slides []models.HeroSlide) []models.HeroSlide {
	if slides == nil {
		return []models.HeroSlide{}
	}
	return slides
}
