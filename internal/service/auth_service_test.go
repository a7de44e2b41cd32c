package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() models.JWTClaims {
	return models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleRecruiter,
		Email:  "r@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateTokenSuccess(t *testing.T) {
	svc := NewAuthService(zap.NewNop(), AuthConfig{Secret: "secret", Issuer: "auth"})

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleRecruiter, claims.Role)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewAuthService(zap.NewNop(), AuthConfig{Secret: "secret", Issuer: "auth"})

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherIssuer := validClaims()
	otherIssuer.Issuer = "someone-else"

	badRole := validClaims()
	badRole.Role = "GUEST"

	noUser := validClaims()
	noUser.UserID = ""

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"wrong alg":    signToken(t, jwt.SigningMethodHS512, []byte("secret"), validClaims()),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"issuer":       signToken(t, jwt.SigningMethodHS256, []byte("secret"), otherIssuer),
		"role":         signToken(t, jwt.SigningMethodHS256, []byte("secret"), badRole),
		"no user":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), noUser),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestValidateTokenWithoutIssuerCheck(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{Secret: "secret"})
	claims := validClaims()
	claims.Issuer = ""

	_, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte("secret"), claims))
	assert.NoError(t, err)
}
