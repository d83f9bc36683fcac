package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": role})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}

func expiredToken(t *testing.T) string {
	t.Helper()
	claims := auth.Claims{
		UserID: 7,
		Role:   "seeker",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("middleware-secret"))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	auth.Configure("middleware-secret", time.Hour)
	router := newAuthRouter(AuthMiddleware())

	t.Run("valid token", func(t *testing.T) {
		token, _, err := auth.GenerateToken(7, models.UserRoleEmployer)
		require.NoError(t, err)

		w := doGet(router, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"user_id":7,"role":"employer"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := doGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCodeOf(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(router, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCodeOf(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		w := doGet(router, "Bearer "+expiredToken(t))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCodeOf(t, w))
	})
}

func TestOptionalAuthMiddleware_IgnoresBadTokens(t *testing.T) {
	auth.Configure("middleware-secret", time.Hour)
	router := newAuthRouter(OptionalAuthMiddleware())

	w := doGet(router, "Bearer "+expiredToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())
}
