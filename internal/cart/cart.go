package cart

import (
	"math"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/logger"
)

// State distinguishes a cart that is still hydrating from one that is
// genuinely empty, so views never have to infer "loading" from emptiness.
type State int

const (
	StateLoading State = iota
	StateEmpty
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "empty"
	}
}

// Line is a product snapshot plus a quantity, never below 1.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Store is the single source of truth for cart contents. At most one line
// exists per product id; lines keep the order products were first added in.
// All ops are total: bad ids are no-ops, nothing returns an error.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	loading bool
}

func New() *Store {
	return &Store{}
}

// Add appends a quantity-1 line for p, or bumps the quantity of the
// existing line for the same product id.
func (s *Store) Add(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == p.ID {
			s.lines[i].Quantity++
			logger.Get().Debug().Str("product_id", p.ID).Int("quantity", s.lines[i].Quantity).Msg("cart line merged")
			return
		}
	}
	s.lines = append(s.lines, Line{Product: p, Quantity: 1})
	logger.Get().Debug().Str("product_id", p.ID).Msg("cart line added")
}

// Increment bumps the quantity of the line for id. Unknown id is a no-op.
func (s *Store) Increment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity++
			return
		}
	}
}

// Decrement lowers the quantity of the line for id, floored at 1. Lines are
// only ever removed by Remove.
func (s *Store) Decrement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			if s.lines[i].Quantity > 1 {
				s.lines[i].Quantity--
			}
			return
		}
	}
}

// Remove deletes the line for id regardless of quantity. Unknown id is a
// no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			logger.Get().Debug().Str("product_id", id).Msg("cart line removed")
			return
		}
	}
}

// Clear empties the cart. Called after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a deep copy, images and specs included; mutations go
// through the ops above.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	for i := range out {
		if len(out[i].Images) > 0 {
			out[i].Images = append([]string(nil), out[i].Images...)
		}
		if len(out[i].Specs) > 0 {
			specs := make(map[string]string, len(out[i].Specs))
			for k, v := range out[i].Specs {
				specs[k] = v
			}
			out[i].Specs = specs
		}
	}
	return out
}

// Count is the badge number: the sum of quantities across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Total is the unrounded sum of price*quantity. The server-computed order
// total stays authoritative; this one is advisory.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := 0.0
	for _, l := range s.lines {
		t += l.Price * float64(l.Quantity)
	}
	return t
}

// DisplayTotal rounds Total to 2 decimals. Presentation only.
func (s *Store) DisplayTotal() float64 {
	return math.Round(s.Total()*100) / 100
}

// BeginLoad marks the cart as hydrating; EndLoad clears the mark.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
}

func (s *Store) EndLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.loading:
		return StateLoading
	case len(s.lines) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}
