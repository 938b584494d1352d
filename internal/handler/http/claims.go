package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
)

// actingEmployeeID picks the employee a request acts for. Without auth the
// body decides. An employee token always acts for its own employee; HR roles
// may name another employee in the body.
func actingEmployeeID(r *http.Request, requested string) string {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return requested
	}
	if requested != "" && claims.Role.CanDecide() {
		return requested
	}
	if claims.EmployeeID != "" {
		return claims.EmployeeID
	}
	return requested
}

// userIDFromToken names the decider recorded on leave decisions.
func userIDFromToken(r *http.Request) *string {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil || claims.UserID == "" {
		return nil
	}
	return &claims.UserID
}
