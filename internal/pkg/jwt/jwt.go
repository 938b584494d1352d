package jwt

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier validates HS256 access tokens issued by the identity service.
// This service never issues tokens itself.
type Verifier struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewVerifier(secretKey string) *Verifier {
	return &Verifier{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (v *Verifier) JWTAuth() *jwtauth.JWTAuth {
	return v.tokenAuth
}

// ClaimsFromContext reads the claims jwtauth.Verifier stored in ctx.
func ClaimsFromContext(ctx context.Context) (auth.Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	if tokenType, ok := claims["type"].(string); ok && tokenType != "access" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID = token.Subject()
	}
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	return auth.Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       auth.Role(role),
	}, nil
}
