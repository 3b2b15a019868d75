// Package models holds the client-side view of shop resources.
package models

// Product is a catalog item as returned by the shop API.
type Product struct {
	ID          string  `json:"pid"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// User is the public part of an account.
type User struct {
	ID    string `json:"uid"`
	Email string `json:"email"`
}
