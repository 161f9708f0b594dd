package entity

import "time"

// Order workflow states; only admins move an order between them.
const (
	StatusNotProcessed = "not_processed"
	StatusProcessing   = "processing"
	StatusShipped      = "shipped"
	StatusDelivered    = "delivered"
	StatusCancelled    = "cancelled"
)

// OrderStatuses lists every valid workflow state.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderBuyer is the populated buyer projection attached to order listings.
type OrderBuyer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderProduct is the product projection embedded in an order. The photo
// field is deliberately excluded from order listings.
type OrderProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Price float64 `json:"price"`
}

// Order keeps its products as an ordered sequence (insertion order is
// preserved via the order_products.position column).
type Order struct {
	ID             string         `json:"id"`
	Buyer          OrderBuyer     `json:"buyer"`
	Products       []OrderProduct `json:"products"`
	Status         string         `json:"status"`
	PaymentSuccess bool           `json:"payment_success"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
