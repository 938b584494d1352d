package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromContext(t *testing.T) {
	v := NewVerifier("test-secret")

	token, _, err := v.JWTAuth().Encode(map[string]any{
		"user_id":     "user-1",
		"employee_id": "emp-1",
		"role":        "manager",
		"type":        "access",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, auth.RoleManager, claims.Role)
	assert.True(t, claims.Role.CanDecide())
}

func TestClaimsFromContext_RejectsRefreshTokens(t *testing.T) {
	v := NewVerifier("test-secret")

	token, _, err := v.JWTAuth().Encode(map[string]any{"user_id": "user-1", "type": "refresh"})
	require.NoError(t, err)

	_, err = ClaimsFromContext(jwtauth.NewContext(context.Background(), token, nil))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestClaimsFromContext_NoToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
