package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/app"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

const (
	userIDHeader   = "X-User-Id"
	userRoleHeader = "X-User-Role"
)

// OrderCreator is the minimal interface needed to create an order.
type OrderCreator interface {
	Create(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
}

// OrderReader is the minimal interface needed to read an order with the
// authorization gate applied.
type OrderReader interface {
	Get(ctx context.Context, orderID string, caller app.Caller) (domain.Order, error)
}

// HandleCreateOrder returns an HTTP handler for order creation.
func HandleCreateOrder(svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ClientID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "institutional_client_id is required")
			return
		}
		if len(req.Items) == 0 {
			writeError(w, http.StatusBadRequest, codeNoOrderItems, domain.ErrNoOrderItems.Error())
			return
		}

		in := app.CreateOrderInput{
			ClientID: req.ClientID,
			Items:    make([]app.CreateOrderItemInput, 0, len(req.Items)),
		}
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
				return
			}
			// Caller-supplied name, price and subtotal are accepted on the
			// wire but never trusted: the catalog is the source of truth.
			in.Items = append(in.Items, app.CreateOrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.Create(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrClientNotFound):
				writeError(w, http.StatusNotFound, codeClientNotFound, err.Error())
			case errors.Is(err, domain.ErrProductNotFound):
				writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
			case errors.Is(err, domain.ErrInsufficientStock):
				writeError(w, http.StatusBadRequest, codeInsufficientStock, err.Error())
			case errors.Is(err, domain.ErrInvalidQuantity):
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
			case errors.Is(err, domain.ErrNoOrderItems):
				writeError(w, http.StatusBadRequest, codeNoOrderItems, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrGatewayUnavailable):
				writeError(w, http.StatusServiceUnavailable, codeGatewayUnavailable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

// HandleOrderByID returns an HTTP handler for reading a single order. The
// caller's identity comes from headers; an unauthorized caller gets a
// generic forbidden response while the attempt is reported server-side.
func HandleOrderByID(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderID, ok := parseOrderPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		caller := app.Caller{
			UserID:   r.Header.Get(userIDHeader),
			Role:     r.Header.Get(userRoleHeader),
			SourceIP: sourceIP(r),
		}

		order, err := svc.Get(r.Context(), orderID, caller)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

func parseOrderPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "orders" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func sourceIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type createOrderRequest struct {
	ClientID string                   `json:"institutional_client_id"`
	Items    []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price,omitempty"`
	Subtotal    json.Number `json:"subtotal,omitempty"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	ClientID  string              `json:"institutional_client_id"`
	OrderDate time.Time           `json:"order_date"`
	Subtotal  string              `json:"subtotal"`
	Tax       string              `json:"tax"`
	Total     string              `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Items     []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

func toOrderResponse(order domain.Order) orderResponse {
	resp := orderResponse{
		ID:        order.ID,
		ClientID:  order.ClientID,
		OrderDate: order.OrderDate,
		Subtotal:  order.Subtotal.StringFixed(2),
		Tax:       order.Tax.StringFixed(2),
		Total:     order.Total.StringFixed(2),
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Items:     make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Subtotal:    item.Subtotal.StringFixed(2),
		})
	}
	return resp
}
