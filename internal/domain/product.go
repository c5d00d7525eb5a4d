package domain

import "github.com/shopspring/decimal"

// Product is the pricing/stock gateway's current view of a sellable product.
// AvailableStock is a point-in-time figure, not a reservation.
type Product struct {
	ID             string
	Name           string
	UnitPrice      decimal.Decimal
	AvailableStock int
}
