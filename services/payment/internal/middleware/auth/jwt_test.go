package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func createValidJWT(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := GenerateToken(testSecret, "elearning", AuthUser{UserID: userID, Email: "hv@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func serve(t *testing.T, config JWTConfig, path, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWTMiddleware(config)(next)(c))
	return rec
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func baseConfig() JWTConfig {
	return JWTConfig{Secret: testSecret, Issuer: "elearning", Logger: zap.NewNop()}
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	rec := serve(t, baseConfig(), "/api/v1/payments", "Bearer "+createValidJWT(t, 7, "student"), func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.UserID)
		assert.Equal(t, "student", user.Role)
		assert.Equal(t, "hv@example.com", user.Email)
		assert.Equal(t, int64(7), c.Get("user_id"))
		return ok(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_MissingAuthorizationHeader(t *testing.T) {
	rec := serve(t, baseConfig(), "/api/v1/payments", "", ok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
}

func TestJWTMiddleware_OptionalWithoutHeader(t *testing.T) {
	config := baseConfig()
	config.Optional = true

	rec := serve(t, config, "/confirm-payment", "", func(c echo.Context) error {
		_, err := GetUserFromContext(c)
		assert.ErrorIs(t, err, ErrNoAuthenticatedUser)
		return ok(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_OptionalStillRejectsBadToken(t *testing.T) {
	config := baseConfig()
	config.Optional = true

	rec := serve(t, config, "/cancel-payment", "Bearer not-a-token", ok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestJWTMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec := serve(t, baseConfig(), "/api/v1/payments", "Token abc", ok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTMiddleware_RejectsTokens(t *testing.T) {
	signed := func(method jwt.SigningMethod, secret string, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func(subject string) Claims {
		return Claims{
			Role: "student",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				Issuer:    "elearning",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	expired := valid("7")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid("7")
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid("7")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"wrong secret", signed(jwt.SigningMethodHS256, "other-secret", valid("7")), "INVALID_TOKEN"},
		{"expired", signed(jwt.SigningMethodHS256, testSecret, expired), "INVALID_TOKEN"},
		{"wrong issuer", signed(jwt.SigningMethodHS256, testSecret, wrongIssuer), "INVALID_TOKEN"},
		{"no expiry", signed(jwt.SigningMethodHS256, testSecret, noExpiry), "INVALID_TOKEN"},
		{"HS512", signed(jwt.SigningMethodHS512, testSecret, valid("7")), "INVALID_TOKEN"},
		{"non numeric subject", signed(jwt.SigningMethodHS256, testSecret, valid("abc")), "INVALID_CLAIMS"},
		{"zero subject", signed(jwt.SigningMethodHS256, testSecret, valid("0")), "INVALID_CLAIMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, baseConfig(), "/api/v1/payments", "Bearer "+tt.token, ok)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	config := baseConfig()
	config.SkipPaths = []string{"/health", "/metrics"}

	rec := serve(t, config, "/health", "", ok)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())

	_, err := RequireAuth(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	WithUser(c, &AuthUser{UserID: 11, Role: "teacher"})
	user, err := RequireAuth(c)
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.UserID)
}
