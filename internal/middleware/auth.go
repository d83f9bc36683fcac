package middleware

import (
	"strconv"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// AuthMiddleware requires a valid Bearer JWT.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "rejected bearer token", "error", err)
			abort(c, apperrors.ErrInvalidToken())
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present
// and lets anonymous requests through otherwise.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := auth.ParseToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// ReadAccessMiddleware gates read-only endpoints: anonymous access is allowed
// only when publicRead is set.
func ReadAccessMiddleware(publicRead bool) gin.HandlerFunc {
	if publicRead {
		return OptionalAuthMiddleware()
	}
	return AuthMiddleware()
}

// RoleMiddleware restricts a route to one role.
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles restricts a route to any of the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists {
			abort(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			abort(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0.
func GetUserID(c *gin.Context) uint {
	id, _ := c.Get(UserIDKey)
	userID, _ := id.(uint)
	return userID
}

// GetRole returns the authenticated role.
func GetRole(c *gin.Context) (models.UserRole, bool) {
	val, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	role, ok := val.(models.UserRole)
	return role, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	// Unknown role strings are kept as-is so policies can deny them explicitly.
	role, _ := models.ParseUserRole(claims.Role)

	c.Set(UserIDKey, claims.UserID)
	c.Set(RoleKey, role)
	ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
	c.Request = c.Request.WithContext(ctx)
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPCode, apperrors.ErrorResponse{Error: err})
}

