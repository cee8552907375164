package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrForbidden
	ErrInsufficientStock
	ErrInvalidOrderStatus
	ErrInvalidTransition
	ErrOrderNotFound
	ErrProductNotFound
	ErrPaymentNotFound
	ErrPriceMismatch
	ErrGateway
	ErrInvalidSignature
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrForbidden:          "forbidden",
	ErrInsufficientStock:  "insufficient stock",
	ErrInvalidOrderStatus: "only pending orders can be cancelled",
	ErrInvalidTransition:  "invalid status transition",
	ErrOrderNotFound:      "order not found",
	ErrProductNotFound:    "product not found",
	ErrPaymentNotFound:    "payment not found",
	ErrPriceMismatch:      "price does not match catalog price",
	ErrGateway:            "failed to create payment transaction",
	ErrInvalidSignature:   "invalid notification signature",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInsufficientStock:  http.StatusBadRequest,
	ErrInvalidOrderStatus: http.StatusBadRequest,
	ErrInvalidTransition:  http.StatusBadRequest,
	ErrOrderNotFound:      http.StatusNotFound,
	ErrProductNotFound:    http.StatusNotFound,
	ErrPaymentNotFound:    http.StatusNotFound,
	ErrPriceMismatch:      http.StatusBadRequest,
	ErrGateway:            http.StatusBadGateway,
	ErrInvalidSignature:   http.StatusForbidden,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrForbidden:          "0005",
	ErrInsufficientStock:  "0006",
	ErrInvalidOrderStatus: "0007",
	ErrInvalidTransition:  "0008",
	ErrOrderNotFound:      "0009",
	ErrProductNotFound:    "0010",
	ErrPaymentNotFound:    "0011",
	ErrPriceMismatch:      "0012",
	ErrGateway:            "0013",
	ErrInvalidSignature:   "0014",
}
