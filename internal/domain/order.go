package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents one purchase transaction for an institutional client.
// Total is always Subtotal + Tax and Subtotal is the sum of the item
// subtotals; the aggregate is persisted and read as a single unit.
type Order struct {
	ID        string
	ClientID  string
	OrderDate time.Time
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []OrderItem
}

// OrderItem is one product line within an order. Name and unit price are
// snapshotted from the catalog at order time; later catalog changes never
// alter stored items.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
