package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderFilter narrows List; zero values are ignored.
type OrderFilter struct {
	BuyerID  string
	SellerID string
	OrderID  string
	Status   string
}

// Create inserts the order header and its items in one transaction. A
// collision on the generated order id surfaces as a unique violation; the
// service retries once with a fresh id.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (order_id, buyer_id, buyer_name, buyer_email, seller_id, total_price, status,
	     full_name, phone, address, city, province, postal_code,
	     payment_method, tracking_number, notes)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.OrderID, o.BuyerID, o.BuyerName, o.BuyerEmail, o.SellerID, o.TotalPrice, o.Status,
		o.Shipping.FullName, o.Shipping.Phone, o.Shipping.Address, o.Shipping.City,
		o.Shipping.Province, o.Shipping.PostalCode,
		o.PaymentMethod, o.TrackingNumber, o.Notes); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, product_name, price, quantity, image, customization)
		  VALUES (?,?,?,?,?,?,?)
		`, o.OrderID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Image, it.Customization); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type orderRow struct {
	OrderID        string         `db:"order_id"`
	BuyerID        string         `db:"buyer_id"`
	BuyerName      string         `db:"buyer_name"`
	BuyerEmail     string         `db:"buyer_email"`
	SellerID       string         `db:"seller_id"`
	TotalPrice     float64        `db:"total_price"`
	Status         string         `db:"status"`
	FullName       string         `db:"full_name"`
	Phone          string         `db:"phone"`
	Address        string         `db:"address"`
	City           string         `db:"city"`
	Province       string         `db:"province"`
	PostalCode     string         `db:"postal_code"`
	PaymentMethod  string         `db:"payment_method"`
	TrackingNumber string         `db:"tracking_number"`
	Notes          string         `db:"notes"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      sql.NullString `db:"updated_at"`
}

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		OrderID:    row.OrderID,
		BuyerID:    row.BuyerID,
		BuyerName:  row.BuyerName,
		BuyerEmail: row.BuyerEmail,
		SellerID:   row.SellerID,
		TotalPrice: row.TotalPrice,
		Status:     row.Status,
		Shipping: domain.ShippingAddress{
			FullName:   row.FullName,
			Phone:      row.Phone,
			Address:    row.Address,
			City:       row.City,
			Province:   row.Province,
			PostalCode: row.PostalCode,
		},
		PaymentMethod:  row.PaymentMethod,
		TrackingNumber: row.TrackingNumber,
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt.String,
	}
}

const orderColumns = `
  order_id, buyer_id, buyer_name, buyer_email, seller_id, total_price, status,
  full_name, phone, address, city, province, postal_code,
  payment_method, tracking_number, notes, created_at, updated_at`

// Get loads one order with its items.
func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `SELECT`+orderColumns+` FROM orders WHERE order_id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	o := row.toDomain()
	if err := r.db.Select(&o.Items, `
	  SELECT product_id, product_name, price, quantity, image, customization
	  FROM order_items WHERE order_id = ? ORDER BY rowid
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// List returns orders matching the filter, newest first, items included.
func (r *OrderRepo) List(f OrderFilter) ([]domain.Order, error) {
	where := `1=1`
	args := []any{}
	if f.BuyerID != "" {
		where += ` AND buyer_id = ?`
		args = append(args, f.BuyerID)
	}
	if f.SellerID != "" {
		where += ` AND seller_id = ?`
		args = append(args, f.SellerID)
	}
	if f.OrderID != "" {
		where += ` AND order_id = ?`
		args = append(args, f.OrderID)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}

	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT`+orderColumns+` FROM orders
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, order_id DESC
	`, args...); err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o := row.toDomain()
		if err := r.db.Select(&o.Items, `
		  SELECT product_id, product_name, price, quantity, image, customization
		  FROM order_items WHERE order_id = ? ORDER BY rowid
		`, o.OrderID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateStatusFrom moves the order from one exact status to another in a
// single compare-and-set; false means the order was not in `from` anymore.
func (r *OrderRepo) UpdateStatusFrom(orderID, from, to string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = ? AND status = ?
	`, to, orderID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateStatus is the CAS above plus optional tracking number and notes,
// which are additive and never required.
func (r *OrderRepo) UpdateStatus(orderID, from, to, trackingNumber, notes string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE orders
		SET status = ?,
		    tracking_number = COALESCE(NULLIF(?,''), tracking_number),
		    notes = COALESCE(NULLIF(?,''), notes),
		    updated_at = CURRENT_TIMESTAMP
		WHERE order_id = ? AND status = ?
	`, to, trackingNumber, notes, orderID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
