package transport

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/threeofkind/storefront/application/auth"
	checkoutapp "github.com/threeofkind/storefront/application/checkout"
	orderapp "github.com/threeofkind/storefront/application/order"
	paymentapp "github.com/threeofkind/storefront/application/payment"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
	utilsContext "github.com/threeofkind/storefront/utils/context"
	"github.com/threeofkind/storefront/utils/errors"
	validatorx "github.com/threeofkind/storefront/utils/validator"
)

type RestHandler struct {
	CheckoutApp checkoutapp.CheckoutApp
	OrderApp    orderapp.OrderApp
	PaymentApp  paymentapp.PaymentApp
}

func NewTransport(internalAPIKey string, authApp auth.AuthApp, checkoutApp checkoutapp.CheckoutApp,
	orderApp orderapp.OrderApp, paymentApp paymentapp.PaymentApp) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		CheckoutApp: checkoutApp,
		OrderApp:    orderApp,
		PaymentApp:  paymentApp,
	}

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/checkout", rh.Checkout).Methods(http.MethodPost).Name(routeCheckout)
	router.HandleFunc("/payment/notification", rh.PaymentNotification).Methods(http.MethodPost).Name(routeNotification)
	router.HandleFunc("/api/orders/{order_id}/status", rh.OrderStatus).Methods(http.MethodGet).Name(routeStatus)
	router.HandleFunc("/api/orders/{order_id}/cancel", rh.CancelOrder).Methods(http.MethodPost).Name(routeCancel)

	internal := router.PathPrefix("/internal/v1").Subrouter()
	internal.Use(InternalMiddleware(internalAPIKey))
	internal.HandleFunc("/orders/{order_id}/expire", rh.ExpireOrder).Methods(http.MethodPost).Name(routeExpire)

	router.Use(LoggingMiddleware())
	router.Use(AuthMiddleware(authApp))

	return router
}

// Checkout handler
// @Summary Submit cart
// @Description Reserve stock, create the order and open a payment transaction. Accepts JSON or a form whose cart_data field holds the cart JSON.
// @Tags Checkout
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body model.CheckoutRequest true "Checkout Request"
// @Success 200 {object} model.CheckoutResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /checkout [post]
func (s *RestHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeCheckoutRequest(r)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(err.Error()))
		return
	}

	res, err := s.CheckoutApp.Checkout(ctx, utilsContext.GetOptionalUserID(ctx), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// PaymentNotification handler
// @Summary Gateway notification
// @Description Asynchronous payment status push from the gateway. Non-2xx responses make the gateway retry.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body model.PaymentNotification true "Notification"
// @Success 200 {object} notificationResponse
// @Failure 404 {object} notificationResponse
// @Failure 500 {object} notificationResponse
// @Router /payment/notification [post]
func (s *RestHandler) PaymentNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotificationError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeNotificationError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if _, err := s.PaymentApp.HandleNotification(ctx, &req); err != nil {
		writeNotificationError(w, err)
		return
	}

	writeSuccess(w, notificationResponse{Status: "success"})
}

// OrderStatus handler
// @Summary Payment status
// @Tags Order
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} model.OrderStatusResponse
// @Failure 404 {object} errorResponse
// @Router /api/orders/{order_id}/status [get]
func (s *RestHandler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	res, err := s.OrderApp.GetStatus(r.Context(), mux.Vars(r)["order_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// CancelOrder handler
// @Summary Cancel a pending order
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "Order ID"
// @Success 200 {object} model.CancelOrderResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/orders/{order_id}/cancel [post]
func (s *RestHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.OrderApp.CancelOrder(ctx, mux.Vars(r)["order_id"], userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ExpireOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.OrderApp.ExpireOrder(r.Context(), mux.Vars(r)["order_id"]); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]bool{"success": true})
}

// decodeCheckoutRequest reads either a JSON body or a form post. In a form the cart arrives
// serialized in cart_data as {"<product id>": {"quantity": n, "price": p}}.
func decodeCheckoutRequest(r *http.Request) (*model.CheckoutRequest, error) {
	var req model.CheckoutRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" && mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
		return nil, err
	}
	req = model.CheckoutRequest{
		FullName:      r.FormValue("full_name"),
		Email:         r.FormValue("email"),
		Address:       r.FormValue("address"),
		City:          r.FormValue("city"),
		PostalCode:    r.FormValue("postal_code"),
		Phone:         r.FormValue("phone"),
		PaymentMethod: r.FormValue("payment_method"),
		BankChoice:    r.FormValue("bank_choice"),
		EWalletChoice: r.FormValue("ewallet_choice"),
	}
	cart := strings.TrimSpace(r.FormValue("cart_data"))
	if cart == "" {
		cart = "{}"
	}
	if err := json.Unmarshal([]byte(cart), &req.Cart); err != nil {
		return nil, err
	}
	return &req, nil
}
