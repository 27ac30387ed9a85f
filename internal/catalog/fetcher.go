package catalog

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/logger"
)

// Fetcher serializes filter-driven listing refreshes. Changing the search
// text or category fires overlapping requests; only the response belonging
// to the newest Refresh is applied, stale ones are dropped. After Close
// every in-flight response is dropped.
type Fetcher struct {
	client *Client

	mu       sync.Mutex
	gen      uint64
	closed   bool
	products []Product
	err      error
	onUpdate func([]Product)
}

// NewFetcher wraps client. onUpdate, if non-nil, runs after each applied
// refresh with the new listing.
func NewFetcher(client *Client, onUpdate func([]Product)) *Fetcher {
	return &Fetcher{client: client, onUpdate: onUpdate}
}

// Refresh fetches the listing for f in the background. The returned channel
// closes once the response has been applied or dropped. After Close no
// request is issued at all.
func (f *Fetcher) Refresh(ctx context.Context, filter Filter) <-chan struct{} {
	done := make(chan struct{})

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(done)
		return done
	}
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	go func() {
		defer close(done)
		products, err := f.client.List(ctx, filter)
		f.apply(gen, products, err)
	}()
	return done
}

func (f *Fetcher) apply(gen uint64, products []Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen {
		logger.Get().Debug().Uint64("gen", gen).Uint64("current", f.gen).Msg("dropping stale catalog response")
		return
	}
	if err != nil {
		f.err = err
		return
	}
	f.products = products
	f.err = nil
	if f.onUpdate != nil {
		f.onUpdate(products)
	}
}

// Latest returns the most recently applied listing, or the error of the
// newest failed refresh.
func (f *Fetcher) Latest() ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.err
}

// Close drops every response still in flight.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}
