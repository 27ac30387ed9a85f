package devserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/devserver"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/session"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(devserver.New().Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return res
}

func TestListFiltering(t *testing.T) {
	srv := newServer(t)
	c := catalog.NewClient(httpx.NewClient(srv.URL, time.Second))
	ctx := context.Background()

	all, err := c.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	mobiles, err := c.List(ctx, catalog.Filter{Category: "Mobiles"})
	require.NoError(t, err)
	for _, p := range mobiles {
		assert.Equal(t, "Mobiles", p.Category)
	}
	assert.Less(t, len(mobiles), len(all))

	samsung, err := c.List(ctx, catalog.Filter{Search: "samsung"})
	require.NoError(t, err)
	require.NotEmpty(t, samsung)
	for _, p := range samsung {
		assert.Equal(t, "Samsung", p.Brand)
	}
}

func TestOrderUsesServerSidePricing(t *testing.T) {
	srv := newServer(t)
	c := catalog.NewClient(httpx.NewClient(srv.URL, time.Second))

	products, err := c.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	p := products[0]

	// client lies about the price; the server's catalog price must win
	res := postJSON(t, srv.URL+"/api/orders", map[string]any{
		"items": []map[string]any{
			{"product_id": p.ID, "title": p.Title, "price": 0.01, "quantity": 2},
		},
		"name": "Jane", "address": "1 Main St", "phone": "555", "payment_method": "COD",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var conf checkout.Confirmation
	require.NoError(t, json.NewDecoder(res.Body).Decode(&conf))
	assert.InDelta(t, p.Price*2, conf.Total, 1e-9)
}

func TestOrderIdempotentOnExternalID(t *testing.T) {
	srv := newServer(t)
	body := map[string]any{
		"external_id": "ext-1",
		"items":       []map[string]any{{"product_id": "unknown", "price": 5.0, "quantity": 1}},
		"name":        "Jane", "address": "1 Main St", "phone": "555", "payment_method": "COD",
	}

	res1 := postJSON(t, srv.URL+"/api/orders", body)
	defer res1.Body.Close()
	require.Equal(t, http.StatusCreated, res1.StatusCode)
	var c1 checkout.Confirmation
	require.NoError(t, json.NewDecoder(res1.Body).Decode(&c1))

	res2 := postJSON(t, srv.URL+"/api/orders", body)
	defer res2.Body.Close()
	require.Equal(t, http.StatusOK, res2.StatusCode)
	var c2 checkout.Confirmation
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&c2))

	assert.Equal(t, c1.OrderID, c2.OrderID, "replay of the same external_id must not create a second order")
}

func TestAdminRoutesRequireBearerToken(t *testing.T) {
	srv := newServer(t)

	res := postJSON(t, srv.URL+"/api/products", map[string]any{"title": "X", "brand": "Y", "price": 1, "category": "Mobiles"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/products/whatever", nil)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)

	res3, err := http.Get(srv.URL + "/api/admin/stats")
	require.NoError(t, err)
	defer res3.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res3.StatusCode)
}

// Full storefront flow against the fixture backend, through the real client
// components: signup, browse, fill the cart, check out, admin mutation.
func TestEndToEndStorefrontFlow(t *testing.T) {
	srv := newServer(t)
	api := httpx.NewClient(srv.URL, 2*time.Second)
	ctx := context.Background()

	catalogClient := catalog.NewClient(api)
	cartStore := cart.New()
	submitter := checkout.NewSubmitter(api, cartStore)
	holder := session.NewHolder(api, &session.MemStore{})
	controller := admin.NewController(api, catalogClient, holder)

	// browse and fill the cart
	products, err := catalogClient.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(products), 2)

	cartStore.Add(products[0])
	cartStore.Add(products[0])
	cartStore.Add(products[1])
	require.Equal(t, cart.StatePopulated, cartStore.State())
	clientTotal := cartStore.Total()

	// check out
	form := checkout.NewDeliveryForm()
	form.Name, form.Address, form.Phone = "Jane", "1 Main St", "555-0101"
	conf, err := submitter.Submit(ctx, form)
	require.NoError(t, err)
	assert.InDelta(t, clientTotal, conf.Total, 0.01, "fixture prices match, so totals agree")
	assert.Equal(t, cart.StateEmpty, cartStore.State(), "cart empties after a successful order")

	// stats are silently empty before auth
	stats, err := controller.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.Stats{}, stats)

	// sign up, then mutate the catalog
	require.NoError(t, holder.Signup(ctx, "Jane", "jane@example.com", "secret"))

	created, err := controller.AddProduct(ctx, admin.ProductDraft{
		Title: "Pixel 9", Brand: "Google", Price: 699, Category: "Mobiles",
		Images: []string{"https://img.example.com/p9.jpg", ""},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	d, err := controller.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(products)+1, d.Stats.Products)
	assert.Equal(t, 1, d.Stats.Orders)

	require.NoError(t, controller.DeleteProduct(ctx, created.ID))
	d, err = controller.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(products), d.Stats.Products)
}
