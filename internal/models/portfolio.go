package models

import "time"

// PortfolioItem is a single catalog entry for an externally hosted image.
type PortfolioItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	ImageRef   string    `json:"imageRef"`
	PublicID   string    `json:"publicId,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	Order      int       `json:"order"`
}

// PortfolioItemRequest accepts the original client payload, which sends the
// image as cloudinaryUrl.
type PortfolioItemRequest struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	ImageRef      string `json:"imageRef"`
	CloudinaryURL string `json:"cloudinaryUrl"`
	PublicID      string `json:"publicId"`
	Order         *int   `json:"order"`
}

// Reference returns the image reference, preferring imageRef over cloudinaryUrl.
func (r PortfolioItemRequest) Reference() string {
	if r.ImageRef != "" {
		return r.ImageRef
	}
	return r.CloudinaryURL
}

// PortfolioItemPatch holds the fields an admin may edit after upload.
type PortfolioItemPatch struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
}
