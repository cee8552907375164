package payment

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

type PaymentRepository interface {
	Insert(ctx context.Context, p *model.Payment) (uint64, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	GetByOrderIDTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Payment, error)
	TransitionStatusTx(ctx context.Context, tx *sqlx.Tx, paymentID uint64, from, to constant.PaymentStatus) (bool, error)
}

func NewPaymentRepository(conn *sqlx.DB) PaymentRepository {
	return &SQL{conn: conn}
}

const (
	insertPayment = `INSERT INTO payment (order_id, payment_method, bank_choice, ewallet_choice, transaction_id, snap_token, redirect_url, amount, status, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	selectPayment = `SELECT id, order_id, payment_method, bank_choice, ewallet_choice, transaction_id, snap_token, redirect_url, amount, status, expires_at, created_at, updated_at FROM payment`
	transitionPay = `UPDATE payment SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`
)

func (r *SQL) Insert(ctx context.Context, p *model.Payment) (uint64, error) {
	res, err := r.conn.ExecContext(ctx, insertPayment,
		p.OrderID, p.PaymentMethod, p.BankChoice, p.EWalletChoice, p.TransactionID, p.SnapToken,
		p.RedirectURL, p.Amount, p.Status, p.ExpiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	return r.get(ctx, r.conn, selectPayment+" WHERE transaction_id = ?", transactionID)
}

func (r *SQL) GetByOrderIDTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Payment, error) {
	return r.get(ctx, tx, selectPayment+" WHERE order_id = ? FOR UPDATE", orderID)
}

func (r *SQL) TransitionStatusTx(ctx context.Context, tx *sqlx.Tx, paymentID uint64, from, to constant.PaymentStatus) (bool, error) {
	res, err := tx.ExecContext(ctx, transitionPay, to, paymentID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQL) get(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*model.Payment, error) {
	var p model.Payment
	if err := sqlx.GetContext(ctx, q, &p, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
