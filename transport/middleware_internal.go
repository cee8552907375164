package transport

import (
	"crypto/subtle"
	"net/http"

	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/utils/errors"
)

// InternalMiddleware checks for the static API key shared with the expiry consumer.
func InternalMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			want := []byte("Bearer " + apiKey)
			if apiKey == "" || subtle.ConstantTimeCompare(got, want) != 1 {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
