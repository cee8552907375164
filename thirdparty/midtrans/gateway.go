package midtrans

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/threeofkind/storefront/cmd/config"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
)

var (
	ErrTimeout          = errors.New("gateway request timed out")
	ErrInvalidSignature = errors.New("notification signature mismatch")
)

// Gateway is the payment gateway boundary used by checkout and reconciliation.
type Gateway interface {
	CreateTransaction(ctx context.Context, req *model.GatewayTransactionRequest) (*model.GatewayTransactionResponse, error)
	VerifyNotification(n *model.PaymentNotification) error
}

type createFunc func(req *snap.Request) (*snap.Response, *mt.Error)

type snapGateway struct {
	serverKey     string
	timeout       time.Duration
	skipSignature bool
	create        createFunc
}

func NewGateway(cfg config.MidtransConfig) Gateway {
	env := mt.Sandbox
	if cfg.IsProduction {
		env = mt.Production
	}
	var client snap.Client
	client.New(cfg.ServerKey, env)

	return &snapGateway{
		serverKey:     cfg.ServerKey,
		timeout:       cfg.Timeout,
		skipSignature: cfg.SkipSignature,
		create:        client.CreateTransaction,
	}
}

// CreateTransaction requests a Snap token. The call is never retried; once the timeout passes
// the caller gets ErrTimeout even if the gateway answers later.
func (g *snapGateway) CreateTransaction(ctx context.Context, req *model.GatewayTransactionRequest) (*model.GatewayTransactionResponse, error) {
	snapReq := toSnapRequest(req)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type result struct {
		resp *snap.Response
		err  *mt.Error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := g.create(snapReq)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("snap create transaction: %s", r.err.Error())
		}
		if r.resp == nil || r.resp.Token == "" {
			return nil, fmt.Errorf("snap create transaction: empty token")
		}
		return &model.GatewayTransactionResponse{
			Token:       r.resp.Token,
			RedirectURL: r.resp.RedirectURL,
		}, nil
	}
}

// VerifyNotification checks signature_key = SHA512(order_id + status_code + gross_amount + server_key).
func (g *snapGateway) VerifyNotification(n *model.PaymentNotification) error {
	if g.skipSignature {
		return nil
	}
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func toSnapRequest(req *model.GatewayTransactionRequest) *snap.Request {
	items := make([]mt.ItemDetails, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, mt.ItemDetails{
			ID:    it.ID,
			Name:  truncate(it.Name, constant.GatewayItemNameMax),
			Price: it.Price,
			Qty:   it.Quantity,
		})
	}

	address := &mt.CustomerAddress{
		FName:       req.Customer.FullName,
		Phone:       req.Customer.Phone,
		Address:     req.Customer.Address,
		City:        req.Customer.City,
		Postcode:    req.Customer.PostalCode,
		CountryCode: constant.GatewayCountryCode,
	}

	enabled := make([]snap.SnapPaymentType, 0, len(req.EnabledPayments))
	for _, p := range req.EnabledPayments {
		enabled = append(enabled, snap.SnapPaymentType(p))
	}

	return &snap.Request{
		TransactionDetails: mt.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.GrossAmount,
		},
		Items: &items,
		CustomerDetail: &mt.CustomerDetails{
			FName:    req.Customer.FullName,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			BillAddr: address,
			ShipAddr: address,
		},
		EnabledPayments: enabled,
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
