package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestOrderRepository_CreateAndGetAggregate(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	clientID := testutil.InsertClient(t, ctx, pool, "Hospital Central")
	repo := NewOrderRepository(pool)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	order := domain.Order{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		OrderDate: now,
		Subtotal:  decimal.RequireFromString("336000.00"),
		Tax:       decimal.RequireFromString("63840.00"),
		Total:     decimal.RequireFromString("399840.00"),
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Items: []domain.OrderItem{
			{
				ID:          uuid.NewString(),
				ProductID:   "101",
				ProductName: "Kit de sutura",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("150000.00"),
				Subtotal:    decimal.RequireFromString("300000.00"),
			},
			{
				ID:          uuid.NewString(),
				ProductID:   "202",
				ProductName: "Guantes estériles",
				Quantity:    3,
				UnitPrice:   decimal.RequireFromString("12000.00"),
				Subtotal:    decimal.RequireFromString("36000.00"),
			},
		},
	}

	err := repo.WithTx(ctx, func(txCtx context.Context) error {
		return repo.CreateOrder(txCtx, order)
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := repo.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.ClientID != clientID {
		t.Fatalf("expected client %s, got %s", clientID, got.ClientID)
	}
	if !got.Subtotal.Equal(order.Subtotal) || !got.Tax.Equal(order.Tax) || !got.Total.Equal(order.Total) {
		t.Fatalf("stored totals do not match: %s / %s / %s", got.Subtotal, got.Tax, got.Total)
	}
	if got.Status != domain.OrderStatusPending {
		t.Fatalf("expected status pending, got %s", got.Status)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ProductName != "Kit de sutura" || got.Items[1].ProductName != "Guantes estériles" {
		t.Fatalf("items out of order: %q, %q", got.Items[0].ProductName, got.Items[1].ProductName)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.RequireFromString("150000.00")) {
		t.Fatalf("expected unit price snapshot 150000.00, got %s", got.Items[0].UnitPrice)
	}
	if !got.OrderDate.Equal(now) {
		t.Fatalf("expected order date %v, got %v", now, got.OrderDate)
	}
}

func TestOrderRepository_TxRollbackLeavesNoRows(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	clientID := testutil.InsertClient(t, ctx, pool, "Hospital Central")
	repo := NewOrderRepository(pool)

	now := time.Now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		OrderDate: now,
		Subtotal:  decimal.RequireFromString("10.00"),
		Tax:       decimal.RequireFromString("1.90"),
		Total:     decimal.RequireFromString("11.90"),
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Items: []domain.OrderItem{
			{ID: uuid.NewString(), ProductID: "101", ProductName: "Kit de sutura", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"), Subtotal: decimal.RequireFromString("10.00")},
		},
	}

	failure := errors.New("late failure")
	err := repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := repo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	if n := testutil.CountRows(t, ctx, pool, "orders"); n != 0 {
		t.Fatalf("expected 0 orders after rollback, got %d", n)
	}
	if n := testutil.CountRows(t, ctx, pool, "order_items"); n != 0 {
		t.Fatalf("expected 0 order items after rollback, got %d", n)
	}
}

func TestOrderRepository_GetClient(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	clientID := testutil.InsertClient(t, ctx, pool, "Clínica del Norte")
	repo := NewOrderRepository(pool)

	client, err := repo.GetClient(ctx, clientID)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if client.Name != "Clínica del Norte" {
		t.Fatalf("expected name Clínica del Norte, got %q", client.Name)
	}

	if _, err := repo.GetClient(ctx, uuid.NewString()); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := repo.GetClient(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestOrderRepository_GetOrderNotFound(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewOrderRepository(pool)
	if _, err := repo.GetOrder(ctx, uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
