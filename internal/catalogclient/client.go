package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
)

var (
	ErrProductNotFound = errors.New("catalog product not found")
)

// Client resolves products through the catalog service REST API
type Client struct {
	upstream *upstream.Client
}

// NewClient creates a client for the catalog API rooted at u's base URL
// (for example http://localhost:5001/api).
func NewClient(u *upstream.Client) *Client {
	return &Client{upstream: u}
}

// GetProduct calls GET /get-product/{id}. A 404 answer maps to ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := c.upstream.GetJSON(ctx, fmt.Sprintf("/get-product/%d", id), &product)
	if upstream.StatusCode(err) == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog product %d: %w", id, err)
	}
	return &product, nil
}

// ListLocalProducts calls GET /list-local-products and returns the body
// untouched so fields unknown to this service survive the proxy.
func (c *Client) ListLocalProducts(ctx context.Context) (json.RawMessage, error) {
	body, err := c.upstream.Get(ctx, "/list-local-products")
	if err != nil {
		return nil, fmt.Errorf("list catalog products: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("list catalog products: response is not valid JSON")
	}
	return json.RawMessage(body), nil
}
