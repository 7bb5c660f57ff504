package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
)

// Client reads the external product feed, a JSON array of product objects
// such as https://fakestoreapi.com/products.
type Client struct {
	upstream *upstream.Client
}

func NewClient(u *upstream.Client) *Client {
	return &Client{upstream: u}
}

// FetchProducts downloads the whole feed. Each returned product keeps its
// original JSON in Raw.
func (c *Client) FetchProducts(ctx context.Context) ([]models.FeedProduct, error) {
	body, err := c.upstream.Get(ctx, "")
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	products := make([]models.FeedProduct, 0, len(entries))
	for i, raw := range entries {
		var p models.FeedProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode feed entry %d: %w", i, err)
		}
		p.Raw = raw
		products = append(products, p)
	}
	return products, nil
}
