package models

import "time"

// MaxHeroSlides caps the curated slideshow.
const MaxHeroSlides = 5

// HeroSlideIDPrefix distinguishes slide ids from portfolio item ids.
const HeroSlideIDPrefix = "hero_"

// HeroSlide is a curated, ordered reference to a PortfolioItem. PortfolioItem is
// a snapshot taken when the slide was added.
type HeroSlide struct {
	ID              string        `json:"id"`
	PortfolioItemID string        `json:"portfolioItemId"`
	PortfolioItem   PortfolioItem `json:"portfolioItem"`
	Order           int           `json:"order"`
	IsActive        bool          `json:"isActive"`
	AddedAt         time.Time     `json:"addedAt"`
}

type AddHeroSlideRequest struct {
	PortfolioItem *PortfolioItem `json:"portfolioItem"`
}

type ReorderHeroSlidesRequest struct {
	SlideIDs []string `json:"slideIds"`
}
