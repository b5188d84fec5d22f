// Package events carries domain events between the portfolio and curation
// services without either importing the other.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dgstudios-backend/internal/store"
)

type PortfolioItemDeleted struct {
	ItemID    string
	DeletedAt time.Time
}

// PortfolioCleared is published when every portfolio item is removed at once.
type PortfolioCleared struct {
	ClearedAt time.Time
}

// PortfolioItemDeletedHandler runs inside the transaction that deleted the
// item. Returning an error rolls the delete back.
type PortfolioItemDeletedHandler func(ctx context.Context, tx store.Tx, ev PortfolioItemDeleted) error

type PortfolioClearedHandler func(ctx context.Context, tx store.Tx, ev PortfolioCleared) error

type Bus struct {
	mu      sync.RWMutex
	deleted []PortfolioItemDeletedHandler
	cleared []PortfolioClearedHandler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnPortfolioItemDeleted(h PortfolioItemDeletedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, h)
}

// PublishPortfolioItemDeleted calls every handler in subscription order and
// stops at the first failure.
func (b *Bus) PublishPortfolioItemDeleted(ctx context.Context, tx store.Tx, ev PortfolioItemDeleted) error {
	b.mu.RLock()
	handlers := append([]PortfolioItemDeletedHandler(nil), b.deleted...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, tx, ev); err != nil {
			return fmt.Errorf("portfolio item %s deleted handler: %w", ev.ItemID, err)
		}
	}
	return nil
}

func (b *Bus) OnPortfolioCleared(h PortfolioClearedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleared = append(b.cleared, h)
}

func (b *Bus) PublishPortfolioCleared(ctx context.Context, tx store.Tx, ev PortfolioCleared) error {
	b.mu.RLock()
	handlers := append([]PortfolioClearedHandler(nil), b.cleared...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, tx, ev); err != nil {
			return fmt.Errorf("portfolio cleared handler: %w", err)
		}
	}
	return nil
}
