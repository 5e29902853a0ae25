package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors to HTTP responses. The mapping is
// shared by all handlers so every endpoint reports the same status for the
// same failure class.
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrConfigurationIncomplete):
		// Setup gap, not a failure: the client should route the user to
		// billing profile onboarding.
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"code":       "CONFIGURATION_INCOMPLETE",
			"onboarding": "billing-profile",
		})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrSequenceCollision):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

// requireTenantRole resolves the authenticated user and verifies the required
// role in the tenant named by the :tenantID path parameter. On failure the
// response is written and ok is false.
func requireTenantRole(c *gin.Context, authorizer portssvc.TenantAuthorizerSvc, requiredRole domain.UserTenantRole) (tenantID string, userID string, ok bool) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}

	tenantID = c.Param("tenantID")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenantID is required"})
		return "", "", false
	}

	if _, err := authorizer.AuthorizeUserAction(c.Request.Context(), userID, tenantID, requiredRole); err != nil {
		respondServiceError(c, err, "Authorization check failed")
		return "", "", false
	}
	return tenantID, userID, true
}
