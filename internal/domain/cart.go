package domain

// CartItem is a line in a buyer's cart. Name and price are snapshots taken
// when the item was added; they are not re-read from the product later.
type CartItem struct {
	ProductID   string  `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Image       string  `db:"image" json:"image,omitempty"`
	SellerID    string  `db:"seller_id" json:"sellerId,omitempty"`
}

// Cart holds the pending line items for one buyer. There is exactly one cart
// per buyer (unique index on buyer_id); clearing empties the items but keeps
// the record.
type Cart struct {
	BuyerID    string     `json:"buyerId"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`
}
