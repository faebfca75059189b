package domain

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"` // Furniture | Crafts | Custom | Accessories
	SellerID    string  `db:"seller_id" json:"sellerId"`
	ImagesJSON  string  `db:"images_json" json:"-"`
	Stock       int     `db:"stock" json:"stock"`
	Rating      float64 `db:"rating" json:"rating"`
	Reviews     int     `db:"reviews" json:"reviews"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt,omitempty"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	BuyerID   string `db:"buyer_id" json:"buyerId"`
	BuyerName string `db:"buyer_name" json:"buyerName"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
