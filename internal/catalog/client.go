package catalog

import (
	"context"
	"net/url"

	"github.com/ariefcatur/go-storefront/internal/httpx"
)

// Filter narrows a catalog listing. Zero value lists everything.
type Filter struct {
	Search   string
	Category string
}

type Client struct {
	api *httpx.Client
}

func NewClient(api *httpx.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context, f Filter) ([]Product, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != CategoryAll {
		q.Set("category", f.Category)
	}

	var out []Product
	if err := c.api.GetJSON(ctx, "/api/products", q, "", &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (Product, error) {
	var out Product
	if err := c.api.GetJSON(ctx, "/api/products/"+url.PathEscape(id), nil, "", &out); err != nil {
		return Product{}, err
	}
	normalize(&out)
	return out, nil
}
