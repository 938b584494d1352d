package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
)

// RequireHR requires an owner, manager or hr role
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrHRAccessRequired)
			return
		}

		if !claims.Role.CanDecide() {
			response.HandleError(w, auth.ErrHRAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
