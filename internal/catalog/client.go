package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

// Client consults the remote pricing/stock gateway for one product at a
// time. Lookups are read-only point-in-time checks; the gateway holds
// nothing on our behalf.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a gateway client. The timeout bounds each lookup so a
// stalled gateway cannot block order creation indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

type productResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AvailableStock int             `json:"available_stock"`
}

// GetProduct returns the gateway's current name, unit price and available
// stock for productID. An unknown product maps to domain.ErrProductNotFound;
// timeouts, connection errors and gateway-side failures map to
// domain.ErrGatewayUnavailable and are not retried.
func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+url.PathEscape(productID), nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	case resp.StatusCode != http.StatusOK:
		return domain.Product{}, fmt.Errorf("%w: catalog returned status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.Product{}, fmt.Errorf("%w: decode catalog response: %v", domain.ErrGatewayUnavailable, err)
	}
	if pr.ID == "" {
		pr.ID = productID
	}

	return domain.Product{
		ID:             pr.ID,
		Name:           pr.Name,
		UnitPrice:      pr.UnitPrice,
		AvailableStock: pr.AvailableStock,
	}, nil
}
