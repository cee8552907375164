package order

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
)

type SQL struct {
	conn *sqlx.DB
}

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.Order) (uint64, error)
	InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.OrderItem) error
	DeleteOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
	GetStatusByOrderNumber(ctx context.Context, orderNumber string) (*model.OrderStatusRow, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Order, error)
	GetByOrderNumberTx(ctx context.Context, tx *sqlx.Tx, orderNumber string) (*model.Order, error)
	GetItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItem, error)
	TransitionStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, from, to constant.OrderStatus) (bool, error)
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

const (
	insertOrder = "INSERT INTO `order` (order_number, user_id, full_name, email, phone, address, city, postal_code, payment_method, shipping_fee, total_amount, status, created_at, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())"
	insertOrderItem = "INSERT INTO order_item (order_id, product_id, product_name, quantity, price) VALUES (?, ?, ?, ?, ?)"
	deleteItems     = "DELETE FROM order_item WHERE order_id = ?"
	deleteOrder     = "DELETE FROM `order` WHERE id = ?"
	selectOrder     = "SELECT id, order_number, user_id, full_name, email, phone, address, city, postal_code, payment_method, shipping_fee, total_amount, status, created_at, updated_at, paid_at FROM `order`"
	selectItems     = "SELECT id, order_id, product_id, product_name, quantity, price FROM order_item WHERE order_id = ? ORDER BY product_id"
	selectStatus    = "SELECT o.id AS order_id, o.status AS order_status, o.paid_at, p.status AS payment_status " +
		"FROM `order` o LEFT JOIN payment p ON p.order_id = o.id WHERE o.order_number = ?"

	// paid_at is written only on the move into paid and only if it was never set.
	transitionStatus = "UPDATE `order` SET status = ?, updated_at = NOW(), " +
		"paid_at = CASE WHEN ? = 'paid' AND paid_at IS NULL THEN NOW() ELSE paid_at END " +
		"WHERE id = ? AND status = ?"
)

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, o *model.Order) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertOrder,
		o.OrderNumber, o.UserID, o.FullName, o.Email, o.Phone, o.Address, o.City, o.PostalCode,
		o.PaymentMethod, o.ShippingFee, o.TotalAmount, o.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.OrderItem) error {
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, insertOrderItem, orderID, it.ProductID, it.ProductName, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQL) DeleteOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	if _, err := tx.ExecContext(ctx, deleteItems, orderID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, deleteOrder, orderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetStatusByOrderNumber reads the order and payment status in one statement, so the pair
// always comes from the same committed state.
func (r *SQL) GetStatusByOrderNumber(ctx context.Context, orderNumber string) (*model.OrderStatusRow, error) {
	var row model.OrderStatusRow
	if err := r.conn.GetContext(ctx, &row, selectStatus, orderNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SQL) GetByIDTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Order, error) {
	var o model.Order
	if err := tx.GetContext(ctx, &o, selectOrder+" WHERE id = ? FOR UPDATE", orderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *SQL) GetByOrderNumberTx(ctx context.Context, tx *sqlx.Tx, orderNumber string) (*model.Order, error) {
	var o model.Order
	if err := tx.GetContext(ctx, &o, selectOrder+" WHERE order_number = ? FOR UPDATE", orderNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *SQL) GetItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0)
	if err := tx.SelectContext(ctx, &items, selectItems, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// TransitionStatusTx is a compare-and-swap on status. It returns false when the stored status
// is no longer from, which means another actor won the race.
func (r *SQL) TransitionStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, from, to constant.OrderStatus) (bool, error) {
	res, err := tx.ExecContext(ctx, transitionStatus, to, to, orderID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
