package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/session"
)

// ErrUnauthorized covers both "no token held" and "backend rejected the
// token".
var ErrUnauthorized = httpx.ErrUnauthorized

var ErrInvalidDraft = errors.New("invalid product draft")

// ProductDraft is what the admin form submits to create a product.
type ProductDraft struct {
	Title       string   `json:"title" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,oneof=Mobiles Laptops Accessories Fashion"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
}

type Stats struct {
	Users    int `json:"users"`
	Orders   int `json:"orders"`
	Products int `json:"products"`
}

type Dashboard struct {
	Stats    Stats
	Products []catalog.Product
}

// Controller mutates the catalog with the session's bearer token. It holds
// no product cache of its own: after any mutation callers re-read the list
// via Refresh, so there is never a divergent local copy to roll back.
type Controller struct {
	api     *httpx.Client
	catalog *catalog.Client
	session *session.Holder
	valid   *validator.Validate
}

func NewController(api *httpx.Client, cat *catalog.Client, sess *session.Holder) *Controller {
	return &Controller{api: api, catalog: cat, session: sess, valid: validator.New()}
}

// AddProduct validates draft locally, then creates it. Blank image entries
// are dropped before submission.
func (c *Controller) AddProduct(ctx context.Context, draft ProductDraft) (catalog.Product, error) {
	images := draft.Images[:0:0]
	for _, img := range draft.Images {
		if strings.TrimSpace(img) != "" {
			images = append(images, img)
		}
	}
	draft.Images = images

	if err := c.valid.Struct(draft); err != nil {
		return catalog.Product{}, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	token := c.session.Token()
	if token == "" {
		return catalog.Product{}, fmt.Errorf("%w: no token held", ErrUnauthorized)
	}

	var created catalog.Product
	if err := c.api.PostJSON(ctx, "/api/products", token, draft, &created); err != nil {
		return catalog.Product{}, err
	}
	logger.Get().Info().Str("product_id", created.ID).Str("title", created.Title).Msg("product created")
	return created, nil
}

func (c *Controller) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing product id", ErrInvalidDraft)
	}
	token := c.session.Token()
	if token == "" {
		return fmt.Errorf("%w: no token held", ErrUnauthorized)
	}
	if err := c.api.Delete(ctx, "/api/products/"+url.PathEscape(id), token); err != nil {
		return err
	}
	logger.Get().Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// LoadStats reads the aggregate counts. Without a valid token it returns
// zero stats and no error, so the dashboard stays usable for browsing.
func (c *Controller) LoadStats(ctx context.Context) (Stats, error) {
	token := c.session.Token()
	if token == "" {
		return Stats{}, nil
	}
	var stats Stats
	err := c.api.GetJSON(ctx, "/api/admin/stats", nil, token, &stats)
	if errors.Is(err, httpx.ErrUnauthorized) {
		logger.Get().Debug().Msg("stats unauthorized, showing empty")
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Refresh re-reads stats and the product listing. This is the only way to
// observe the list through the controller, and the required follow-up after
// AddProduct/DeleteProduct.
func (c *Controller) Refresh(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := c.LoadStats(ctx)
		if err != nil {
			return err
		}
		d.Stats = stats
		return nil
	})
	g.Go(func() error {
		products, err := c.catalog.List(ctx, catalog.Filter{})
		if err != nil {
			return err
		}
		d.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
