package models

import "time"

// Order is a single "buy now" purchase. Quantity is always 1 and
// ShippingAddress is never collected.
type Order struct {
	ID              string
	UserID          string
	ProductID       string
	Quantity        int
	OrderDate       time.Time
	TotalAmount     float64
	ShippingAddress *string
}
