package middleware

import (
	"net/http"
	"strings"

	"github.com/bizcore/backend/internal/infrastructure/logger"
	"github.com/bizcore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity headers are set by the authentication collaborator in front of
// this service.
const (
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"

	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	// SkipPaths are paths that don't require identity (e.g., health check)
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultIdentityConfig returns default identity middleware configuration
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
	}
}

// Identity requires a tenant and an acting user on every request. Both must
// be UUIDs. They are stored in the gin context and in the request context,
// where the request logger is enriched with them.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID, err := parseIdentityHeader(c, TenantHeaderKey)
		if err != nil {
			respondUnauthorized(c, cfg.Logger, "Tenant identification required", err)
			return
		}
		userID, err := parseIdentityHeader(c, UserHeaderKey)
		if err != nil {
			respondUnauthorized(c, cfg.Logger, "User identification required", err)
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Set(UserIDKey, userID)

		ctx := c.Request.Context()
		ctx, log := logger.WithTenant(ctx, logger.FromContext(ctx), tenantID)
		ctx, _ = logger.WithActor(ctx, log, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type identityError struct {
	header string
	reason string
}

func (e *identityError) Error() string {
	return e.header + " " + e.reason
}

func parseIdentityHeader(c *gin.Context, header string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return uuid.Nil, &identityError{header: header, reason: "is missing"}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &identityError{header: header, reason: "is not a valid UUID"}
	}
	return id, nil
}

func respondUnauthorized(c *gin.Context, log *zap.Logger, message string, err error) {
	if log == nil {
		log = logger.FromContext(c.Request.Context())
	}
	log.Debug("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message+": "+err.Error(),
		GetRequestID(c),
	))
}

// GetTenantID returns the tenant set by Identity
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, TenantIDKey)
}

// GetUserID returns the acting user set by Identity
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, UserIDKey)
}

func uuidFromContext(c *gin.Context, key string) (uuid.UUID, bool) {
	v, exists := c.Get(key)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
