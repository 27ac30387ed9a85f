package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/httpx"
)

func TestListSendsFilterParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := catalog.NewClient(httpx.NewClient(srv.URL, time.Second))

	_, err := c.List(context.Background(), catalog.Filter{Search: "phone", Category: "Mobiles"})
	require.NoError(t, err)
	assert.Equal(t, "category=Mobiles&search=phone", gotQuery)

	_, err = c.List(context.Background(), catalog.Filter{Category: catalog.CategoryAll})
	require.NoError(t, err)
	assert.Empty(t, gotQuery, `category "All" means no filter`)
}

func TestListDefaultsMissingRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","title":"A"},{"id":"2","title":"B","rating":4.7}]`))
	}))
	defer srv.Close()

	c := catalog.NewClient(httpx.NewClient(srv.URL, time.Second))

	products, err := c.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 4.0, products[0].Rating)
	assert.Equal(t, 4.7, products[1].Rating)
}

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p-1","title":"A","price":9.5,"images":["x","y"]}`))
	}))
	defer srv.Close()

	c := catalog.NewClient(httpx.NewClient(srv.URL, time.Second))

	p, err := c.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Title)
	assert.Equal(t, "x", p.PrimaryImage())
	assert.Equal(t, 4.0, p.Rating)
}

func TestFetcherDropsStaleResponse(t *testing.T) {
	slow := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("search") == "slow" {
			<-slow
			_, _ = w.Write([]byte(`[{"id":"stale","title":"Stale"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"fresh","title":"Fresh"}]`))
	}))
	defer srv.Close()

	f := catalog.NewFetcher(catalog.NewClient(httpx.NewClient(srv.URL, 5*time.Second)), nil)
	defer f.Close()

	first := f.Refresh(context.Background(), catalog.Filter{Search: "slow"})
	second := f.Refresh(context.Background(), catalog.Filter{Search: "fresh"})
	<-second

	products, err := f.Latest()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "fresh", products[0].ID)

	// let the superseded request finish; its result must be dropped
	close(slow)
	<-first

	products, err = f.Latest()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "fresh", products[0].ID, "stale response must not overwrite the newer one")
}

func TestFetcherDropsResponsesAfterClose(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"late","title":"Late"}]`))
	}))
	defer srv.Close()

	f := catalog.NewFetcher(catalog.NewClient(httpx.NewClient(srv.URL, 5*time.Second)), nil)

	done := f.Refresh(context.Background(), catalog.Filter{})
	f.Close() // the view navigated away
	close(release)
	<-done

	products, err := f.Latest()
	require.NoError(t, err)
	assert.Empty(t, products, "a response landing after Close must be discarded")
}

func TestFetcherRefreshAfterCloseSkipsFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := catalog.NewFetcher(catalog.NewClient(httpx.NewClient(srv.URL, time.Second)), nil)
	f.Close()

	<-f.Refresh(context.Background(), catalog.Filter{})

	assert.Zero(t, hits.Load(), "a closed fetcher must not issue requests")
	products, err := f.Latest()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetcherCallsOnUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","title":"A"}]`))
	}))
	defer srv.Close()

	updates := make(chan []catalog.Product, 1)
	f := catalog.NewFetcher(catalog.NewClient(httpx.NewClient(srv.URL, time.Second)), func(ps []catalog.Product) {
		updates <- ps
	})
	defer f.Close()

	<-f.Refresh(context.Background(), catalog.Filter{})

	select {
	case ps := <-updates:
		require.Len(t, ps, 1)
		assert.Equal(t, "1", ps[0].ID)
	case <-time.After(time.Second):
		t.Fatal("onUpdate was not called")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range catalog.Categories {
		assert.True(t, catalog.ValidCategory(c))
	}
	assert.False(t, catalog.ValidCategory("Groceries"))
	assert.False(t, catalog.ValidCategory(catalog.CategoryAll))
}
