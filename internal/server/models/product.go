package models

// Product is a catalog item.
type Product struct {
	ID          string  `json:"pid"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`

	// ImageKey is the object-storage key of an uploaded image, if any.
	ImageKey string `json:"-"`
	// ImageURL is a short-lived presigned GET URL for ImageKey.
	ImageURL string `json:"imageUrl,omitempty"`
}
