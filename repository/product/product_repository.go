package product

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/threeofkind/storefront/model"
)

type SQL struct {
	conn *sqlx.DB
}

// ProductRepository is the storage side of the inventory ledger. Stock is only ever changed by
// the guarded statements below.
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []uint64) ([]model.Product, error)
	ReserveStock(ctx context.Context, productID uint64, quantity int64) (bool, error)
	ReleaseStock(ctx context.Context, productID uint64, quantity int64) error
	ReleaseStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int64) error
}

func NewProductRepository(conn *sqlx.DB) ProductRepository {
	return &SQL{conn: conn}
}

const (
	getProductsByIDs = `SELECT id, name, price, stock FROM product WHERE id IN (?) ORDER BY id`
	reserveStock     = `UPDATE product SET stock = stock - ? WHERE id = ? AND stock >= ?`
	releaseStock     = `UPDATE product SET stock = stock + ? WHERE id = ?`
)

func (s *SQL) GetByIDs(ctx context.Context, ids []uint64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	query, args, err := sqlx.In(getProductsByIDs, ids)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(ids))
	if err := s.conn.SelectContext(ctx, &products, s.conn.Rebind(query), args...); err != nil {
		return nil, err
	}
	return products, nil
}

// ReserveStock decrements stock in one conditional statement. It reports false, leaving the row
// untouched, when the product is missing or has less than quantity in stock.
func (s *SQL) ReserveStock(ctx context.Context, productID uint64, quantity int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, reserveStock, quantity, productID, quantity)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQL) ReleaseStock(ctx context.Context, productID uint64, quantity int64) error {
	_, err := s.conn.ExecContext(ctx, releaseStock, quantity, productID)
	return err
}

func (s *SQL) ReleaseStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int64) error {
	_, err := tx.ExecContext(ctx, releaseStock, quantity, productID)
	return err
}
