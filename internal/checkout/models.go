package checkout

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// DeliveryForm is transient, scoped to the checkout screen.
type DeliveryForm struct {
	Name          string        `json:"name" validate:"required"`
	Address       string        `json:"address" validate:"required"`
	Phone         string        `json:"phone" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=COD Card UPI"`
}

// NewDeliveryForm returns an empty form with the default payment method.
func NewDeliveryForm() DeliveryForm {
	return DeliveryForm{PaymentMethod: PaymentCOD}
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type orderRequest struct {
	ExternalID    string        `json:"external_id"`
	Items         []OrderItem   `json:"items"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// Confirmation echoes what the backend computed. Total here is the
// authoritative one; the client-side cart total is an estimate only.
type Confirmation struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}
