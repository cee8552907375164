package transport

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/threeofkind/storefront/application/auth"
	"github.com/threeofkind/storefront/constant"
	utilsContext "github.com/threeofkind/storefront/utils/context"
	"github.com/threeofkind/storefront/utils/errors"
)

// Route names used to decide how a request is authenticated.
const (
	routeCheckout     = "checkout"
	routeNotification = "payment_notification"
	routeStatus       = "order_status"
	routeCancel       = "order_cancel"
	routeExpire       = "internal_order_expire"
)

type authMode int

const (
	authPublic authMode = iota
	authOptional
	authRequired
)

var routeAuth = map[string]authMode{
	routeCheckout: authOptional,
	routeCancel:   authRequired,
}

// AuthMiddleware resolves the bearer token into a user id on the context. Checkout accepts
// guests, cancel requires a user, everything else is public or guarded by its own scheme.
func AuthMiddleware(authApp auth.AuthApp) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mode := authPublic
			if route := mux.CurrentRoute(r); route != nil {
				mode = routeAuth[route.GetName()]
			}
			if mode == authPublic {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" && mode == authOptional {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			userID, err := authApp.ValidateToken(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			next.ServeHTTP(w, r.WithContext(utilsContext.WithUserID(r.Context(), userID)))
		})
	}
}
