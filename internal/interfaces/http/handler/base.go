// Package handler adapts the application services to gin. Handlers read the
// caller's identity, bind and validate the request, call one service method
// and wrap the result in the dto envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/logger"
	"github.com/bizcore/backend/internal/interfaces/http/dto"
	"github.com/bizcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler is embedded by every handler for the shared response helpers.
type BaseHandler struct{}

// identity returns the tenant and the acting user. When either is missing
// it has already answered 401 and ok is false.
func (h *BaseHandler) identity(c *gin.Context) (tenantID, actorID uuid.UUID, ok bool) {
	if tenantID, ok = middleware.GetTenantID(c); !ok {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, uuid.Nil, false
	}
	if actorID, ok = middleware.GetUserID(c); !ok {
		h.Unauthorized(c, "User identification required")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, actorID, true
}

// pathID parses the UUID path parameter name. label names the resource in
// the 400 answered for a malformed value.
func (h *BaseHandler) pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams echoes the requested page back in the response meta.
func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	return max(page, 1), pageSize
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error answers with the failure envelope, tagged with the request id.
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON answers with field-level validation details and returns false
// when the body does not bind.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	return bound(c, c.ShouldBindJSON(obj))
}

// BindQuery is BindJSON for the query string.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	return bound(c, c.ShouldBindQuery(obj))
}

func bound(c *gin.Context, err error) bool {
	if err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// HandleError maps a shared.DomainError anywhere in err's chain to its API
// code and status. Other errors are logged and answered with a generic 500
// so driver messages never reach the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.FromContext(c.Request.Context())

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		log.Error("unexpected error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
		return
	}

	code := dto.NormalizeErrorCode(domainErr.Code)
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", domainErr.Code), zap.Error(err))
	}
	h.Error(c, status, code, domainErr.Message)
}
