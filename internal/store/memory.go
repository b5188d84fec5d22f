package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/models"
)

// MemoryStore keeps all collections in process. Transactions are serialized
// by one mutex and run against a copy of the state that replaces the live
// state only when fn succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	seq       int64
	portfolio []portfolioRow
	slides    []models.HeroSlide
	admins    []models.Admin
}

type portfolioRow struct {
	seq  int64
	item models.PortfolioItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (st memoryState) clone() memoryState {
	return memoryState{
		seq:       st.seq,
		portfolio: append([]portfolioRow(nil), st.portfolio...),
		slides:    append([]models.HeroSlide(nil), st.slides...),
		admins:    append([]models.Admin(nil), st.admins...),
	}
}

type memoryTx struct {
	state memoryState
}

func (tx *memoryTx) ListPortfolioItems(ctx context.Context) ([]models.PortfolioItem, error) {
	rows := append([]portfolioRow(nil), tx.state.portfolio...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].item.Order != rows[j].item.Order {
			return rows[i].item.Order < rows[j].item.Order
		}
		return rows[i].seq < rows[j].seq
	})

	items := make([]models.PortfolioItem, len(rows))
	for i, row := range rows {
		items[i] = row.item
	}
	return items, nil
}

func (tx *memoryTx) GetPortfolioItem(ctx context.Context, id string) (*models.PortfolioItem, error) {
	for _, row := range tx.state.portfolio {
		if row.item.ID == id {
			item := row.item
			return &item, nil
		}
	}
	return nil, fmt.Errorf("portfolio item %s: %w", id, apperrors.ErrNotFound)
}

// GetPortfolioItemForUpdate needs no extra locking: the store is held for the
// whole transaction.
func (tx *memoryTx) GetPortfolioItemForUpdate(ctx context.Context, id string) (*models.PortfolioItem, error) {
	return tx.GetPortfolioItem(ctx, id)
}

func (tx *memoryTx) FindPortfolioItemByImageRef(ctx context.Context, imageRef string) (*models.PortfolioItem, error) {
	for _, row := range tx.state.portfolio {
		if row.item.ImageRef == imageRef {
			item := row.item
			return &item, nil
		}
	}
	return nil, fmt.Errorf("portfolio item with image %s: %w", imageRef, apperrors.ErrNotFound)
}

func (tx *memoryTx) CountPortfolioItems(ctx context.Context) (int, error) {
	return len(tx.state.portfolio), nil
}

func (tx *memoryTx) InsertPortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	for _, row := range tx.state.portfolio {
		if row.item.ID == item.ID {
			return fmt.Errorf("portfolio item %s: %w", item.ID, apperrors.ErrDuplicate)
		}
		if row.item.ImageRef == item.ImageRef {
			return fmt.Errorf("portfolio image %s: %w", item.ImageRef, apperrors.ErrDuplicate)
		}
	}
	tx.state.seq++
	tx.state.portfolio = append(tx.state.portfolio, portfolioRow{seq: tx.state.seq, item: *item})
	return nil
}

func (tx *memoryTx) UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	for i, row := range tx.state.portfolio {
		if row.item.ID == item.ID {
			tx.state.portfolio[i].item = *item
			return nil
		}
	}
	return fmt.Errorf("portfolio item %s: %w", item.ID, apperrors.ErrNotFound)
}

func (tx *memoryTx) DeletePortfolioItem(ctx context.Context, id string) (bool, error) {
	for i, row := range tx.state.portfolio {
		if row.item.ID == id {
			tx.state.portfolio = append(tx.state.portfolio[:i:i], tx.state.portfolio[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) DeleteAllPortfolioItems(ctx context.Context) error {
	tx.state.portfolio = nil
	return nil
}

// LockHeroSlides is a no-op: RunInTx already holds the store mutex.
func (tx *memoryTx) LockHeroSlides(ctx context.Context) error {
	return nil
}

func (tx *memoryTx) ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	slides := append([]models.HeroSlide(nil), tx.state.slides...)
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })
	return slides, nil
}

func (tx *memoryTx) ReplaceHeroSlides(ctx context.Context, slides []models.HeroSlide) error {
	seen := make(map[string]bool, len(slides))
	for _, slide := range slides {
		if seen[slide.PortfolioItemID] {
			return fmt.Errorf("hero slide for portfolio item %s: %w", slide.PortfolioItemID, apperrors.ErrDuplicate)
		}
		seen[slide.PortfolioItemID] = true
	}
	tx.state.slides = append([]models.HeroSlide(nil), slides...)
	return nil
}

func (tx *memoryTx) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	exists, err := tx.AdminExists(ctx, admin.Username, admin.Email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("admin %s: %w", admin.Username, apperrors.ErrDuplicate)
	}
	tx.state.admins = append(tx.state.admins, *admin)
	return nil
}

func (tx *memoryTx) GetAdminByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	for _, admin := range tx.state.admins {
		if admin.Username == identifier || strings.EqualFold(admin.Email, identifier) {
			a := admin
			return &a, nil
		}
	}
	return nil, fmt.Errorf("admin %s: %w", identifier, apperrors.ErrNotFound)
}

func (tx *memoryTx) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	for _, admin := range tx.state.admins {
		if admin.ID == id {
			a := admin
			return &a, nil
		}
	}
	return nil, fmt.Errorf("admin %s: %w", id, apperrors.ErrNotFound)
}

func (tx *memoryTx) CountAdmins(ctx context.Context) (int, error) {
	return len(tx.state.admins), nil
}

func (tx *memoryTx) AdminExists(ctx context.Context, username, email string) (bool, error) {
	for _, admin := range tx.state.admins {
		if admin.Username == username || strings.EqualFold(admin.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
