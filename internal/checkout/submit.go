package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/logger"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidForm = errors.New("invalid delivery form")
	// ErrOrderFailed: the backend refused the order (non-2xx).
	ErrOrderFailed = errors.New("order failed")
)

// Submitter turns the cart plus a delivery form into one order-creation
// request. One call is one user-initiated attempt; it never retries.
type Submitter struct {
	api   *httpx.Client
	cart  *cart.Store
	valid *validator.Validate
}

func NewSubmitter(api *httpx.Client, cart *cart.Store) *Submitter {
	return &Submitter{api: api, cart: cart, valid: validator.New()}
}

// Submit posts the order. On success the cart is cleared and the returned
// Confirmation carries the server-computed total. On any failure the cart
// is left exactly as it was.
//
// Each attempt carries a fresh external id, so a backend that dedupes on it
// can drop transport-level replays, while an explicit re-submission is a new
// order.
func (s *Submitter) Submit(ctx context.Context, form DeliveryForm) (Confirmation, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return Confirmation{}, ErrEmptyCart
	}
	if form.PaymentMethod == "" {
		form.PaymentMethod = PaymentCOD
	}
	if err := s.valid.Struct(form); err != nil {
		return Confirmation{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	req := orderRequest{
		ExternalID:    uuid.NewString(),
		Items:         make([]OrderItem, 0, len(lines)),
		Name:          form.Name,
		Address:       form.Address,
		Phone:         form.Phone,
		PaymentMethod: form.PaymentMethod,
	}
	for _, l := range lines {
		req.Items = append(req.Items, OrderItem{
			ProductID: l.ID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.PrimaryImage(),
		})
	}

	var conf Confirmation
	if err := s.api.PostJSON(ctx, "/api/orders", "", req, &conf); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			err = fmt.Errorf("%w: %v", ErrOrderFailed, se)
		}
		logger.Get().Error().Err(err).Str("external_id", req.ExternalID).Msg("order submission failed")
		return Confirmation{}, err
	}

	s.cart.Clear()
	logger.Get().Info().Str("order_id", conf.OrderID).Float64("total", conf.Total).Msg("order placed")
	return conf, nil
}
