// Package store defines the persistence boundary shared by the portfolio and
// curation services. Every read and write goes through a transaction so the
// hero slide invariants can be checked and written atomically.
package store

import (
	"context"

	"dgstudios-backend/internal/models"
)

// Store runs fn inside a single transaction. If fn returns an error nothing it
// wrote is kept.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

type PortfolioRepository interface {
	// ListPortfolioItems returns items by order, ties in insertion order.
	ListPortfolioItems(ctx context.Context) ([]models.PortfolioItem, error)
	// GetPortfolioItem returns apperrors.ErrNotFound when id is unknown. The
	// row stays locked against deletion until the transaction ends.
	GetPortfolioItem(ctx context.Context, id string) (*models.PortfolioItem, error)
	// GetPortfolioItemForUpdate is GetPortfolioItem for a caller that will
	// write the row in the same transaction.
	GetPortfolioItemForUpdate(ctx context.Context, id string) (*models.PortfolioItem, error)
	FindPortfolioItemByImageRef(ctx context.Context, imageRef string) (*models.PortfolioItem, error)
	CountPortfolioItems(ctx context.Context) (int, error)
	InsertPortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	// DeletePortfolioItem reports whether a row was removed.
	DeletePortfolioItem(ctx context.Context, id string) (bool, error)
	DeleteAllPortfolioItems(ctx context.Context) error
}

type HeroSlideRepository interface {
	// LockHeroSlides blocks other transactions from mutating the slide set
	// until this transaction ends.
	LockHeroSlides(ctx context.Context) error
	// ListHeroSlides returns slides sorted by order.
	ListHeroSlides(ctx context.Context) ([]models.HeroSlide, error)
	// ReplaceHeroSlides overwrites the whole slide set.
	ReplaceHeroSlides(ctx context.Context, slides []models.HeroSlide) error
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	// GetAdminByIdentifier matches either username or email.
	GetAdminByIdentifier(ctx context.Context, identifier string) (*models.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
	AdminExists(ctx context.Context, username, email string) (bool, error)
	// CountAdmins blocks concurrent admin inserts until the transaction ends.
	CountAdmins(ctx context.Context) (int, error)
}

type Tx interface {
	PortfolioRepository
	HeroSlideRepository
	AdminRepository
}
