package app

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetClient(ctx context.Context, clientID string) (domain.InstitutionalClient, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// ProductCatalog is the pricing/stock gateway consulted per order line.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// UnauthorizedReporter records an unauthorized status-read attempt. The
// order read path treats it as best-effort: failures are logged, never
// surfaced.
type UnauthorizedReporter interface {
	RecordUnauthorizedStatusAttempt(ctx context.Context, in UnauthorizedAttempt) (domain.SecurityAlert, int64, error)
}

type OrderService struct {
	repo    OrderRepository
	catalog ProductCatalog
	alerts  UnauthorizedReporter
	clock   clock.Clock
	taxRate decimal.Decimal
	logger  *log.Logger
}

func NewOrderService(repo OrderRepository, cat ProductCatalog, alerts UnauthorizedReporter, clk clock.Clock, taxRate decimal.Decimal, logger *log.Logger) *OrderService {
	if logger == nil {
		logger = log.Default()
	}
	return &OrderService{
		repo:    repo,
		catalog: cat,
		alerts:  alerts,
		clock:   clk,
		taxRate: taxRate,
		logger:  logger,
	}
}

type CreateOrderInput struct {
	ClientID string
	Items    []CreateOrderItemInput
}

// CreateOrderItemInput carries only what the caller decides: which product
// and how many. Name and unit price always come from the catalog.
type CreateOrderItemInput struct {
	ProductID string
	Quantity  int
}

// Create validates the institutional client, checks price and stock for
// every line against the catalog, computes decimal totals and persists the
// order with all its items atomically. No partial order is ever visible: a
// failed line or a failed write leaves the store untouched.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrNoOrderItems
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	// Client existence is checked before any gateway round-trip.
	if _, err := s.repo.GetClient(ctx, in.ClientID); err != nil {
		return domain.Order{}, err
	}

	now := s.clock.Now()
	orderID := uuid.NewString()

	items := make([]domain.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, req := range in.Items {
		product, err := s.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if product.AvailableStock < req.Quantity {
			return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}

		lineSubtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		items = append(items, domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			ProductID:   req.ProductID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.UnitPrice,
			Subtotal:    lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	// Rounding to currency precision happens only here, at total time.
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(s.taxRate).Round(2)

	order := domain.Order{
		ID:        orderID,
		ClientID:  in.ClientID,
		OrderDate: now,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     items,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateOrder(txCtx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Caller identifies who is asking for an order, as far as the transport
// could tell.
type Caller struct {
	UserID   string
	Role     string
	SourceIP string
}

// Get returns the order with its items when the caller holds a privileged
// role. Any other caller gets domain.ErrForbidden, and the attempt is
// reported to the alert service before the error is returned; reporting can
// never change or delay the forbidden outcome beyond its own bounded work.
func (s *OrderService) Get(ctx context.Context, orderID string, caller Caller) (domain.Order, error) {
	if !domain.IsPrivilegedRole(caller.Role) {
		s.reportUnauthorized(ctx, orderID, caller)
		return domain.Order{}, domain.ErrForbidden
	}
	return s.repo.GetOrder(ctx, orderID)
}

func (s *OrderService) reportUnauthorized(ctx context.Context, orderID string, caller Caller) {
	if s.alerts == nil {
		return
	}
	_, _, err := s.alerts.RecordUnauthorizedStatusAttempt(ctx, UnauthorizedAttempt{
		OrderID:  orderID,
		UserID:   caller.UserID,
		UserRole: caller.Role,
		SourceIP: caller.SourceIP,
	})
	if err != nil {
		s.logger.Printf("WARN: record unauthorized access alert for order %s: %v", orderID, err)
	}
}
