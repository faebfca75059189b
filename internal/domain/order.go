package domain

// Order statuses. delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderTransitions is the full status graph: forward steps plus
// cancellation from any non-terminal status.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidOrderStatus reports whether s is one of the five known statuses.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from -> to.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderTerminal reports whether s is a terminal order status.
func OrderTerminal(s string) bool {
	return s == OrderDelivered || s == OrderCancelled
}

// ShippingAddress is captured in full at order time. Every field is
// required.
type ShippingAddress struct {
	FullName   string `db:"full_name" json:"fullName"`
	Phone      string `db:"phone" json:"phone"`
	Address    string `db:"address" json:"address"`
	City       string `db:"city" json:"city"`
	Province   string `db:"province" json:"province"`
	PostalCode string `db:"postal_code" json:"postalCode"`
}

// OrderItem snapshots price/quantity/customization at order time.
type OrderItem struct {
	ProductID     string  `db:"product_id" json:"productId"`
	ProductName   string  `db:"product_name" json:"productName"`
	Price         float64 `db:"price" json:"price"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Image         string  `db:"image" json:"image,omitempty"`
	Customization string  `db:"customization" json:"customizationDetails,omitempty"`
}

// Order is immutable once created except for its status, tracking number
// and notes. Buyer name/email are denormalized at creation.
type Order struct {
	OrderID        string          `json:"orderId"`
	BuyerID        string          `json:"buyerId"`
	BuyerName      string          `json:"buyerName"`
	BuyerEmail     string          `json:"buyerEmail"`
	SellerID       string          `json:"sellerId"`
	Items          []OrderItem     `json:"items"`
	TotalPrice     float64         `json:"totalPrice"`
	Status         string          `json:"status"`
	Shipping       ShippingAddress `json:"shippingAddress"`
	PaymentMethod  string          `json:"paymentMethod"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
}
