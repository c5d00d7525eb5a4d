package domain

import "errors"

var (
	ErrClientNotFound     = errors.New("institutional client not found")
	ErrClientNameRequired = errors.New("client name required")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNoOrderItems       = errors.New("order requires at least one item")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrForbidden          = errors.New("forbidden")
	ErrGatewayUnavailable = errors.New("product catalog unavailable")
	ErrInvalidID          = errors.New("invalid id")
)
