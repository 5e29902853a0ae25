package handlers

import (
	"net/http"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// billingProfileHandler handles the per-tenant billing configuration and the
// document number preview.
type billingProfileHandler struct {
	profileService   portssvc.BillingProfileSvcFacade
	numberingService portssvc.NumberingSvcFacade
	tenantService    portssvc.TenantSvcFacade
}

func newBillingProfileHandler(ps portssvc.BillingProfileSvcFacade, ns portssvc.NumberingSvcFacade, ts portssvc.TenantSvcFacade) *billingProfileHandler {
	return &billingProfileHandler{
		profileService:   ps,
		numberingService: ns,
		tenantService:    ts,
	}
}

// RegisterBillingProfileRoutes registers the billing profile routes.
func RegisterBillingProfileRoutes(rg *gin.RouterGroup, profileService portssvc.BillingProfileSvcFacade, numberingService portssvc.NumberingSvcFacade, tenantService portssvc.TenantSvcFacade) {
	h := newBillingProfileHandler(profileService, numberingService, tenantService)
	profile := rg.Group("/tenants/:tenantID/billing-profile")
	{
		profile.GET("", h.GetBillingProfile)
		profile.PUT("", h.UpdateBillingProfile)
		profile.GET("/next-number", h.PreviewNextNumber)
	}
}

// GetBillingProfile godoc
// @Summary Get billing profile
// @Description Returns the tenant's billing profile with its onboarding completion state. Tenants that never saved a profile get an unconfigured default.
// @Tags billing-profile
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.BillingProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/billing-profile [get]
func (h *billingProfileHandler) GetBillingProfile(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	profile, err := h.profileService.GetBillingProfile(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to get billing profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingProfileResponse(profile))
}

// UpdateBillingProfile godoc
// @Summary Update billing profile
// @Description Replaces the tenant's billing profile. Each numbering triple must be fully set or fully empty. Requires the ADMIN role.
// @Tags billing-profile
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param profile body dto.UpdateBillingProfileRequest true "Billing Profile"
// @Success 200 {object} dto.BillingProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/billing-profile [put]
func (h *billingProfileHandler) UpdateBillingProfile(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleAdmin)
	if !ok {
		return
	}

	var req dto.UpdateBillingProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	profile, err := h.profileService.UpdateBillingProfile(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update billing profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingProfileResponse(profile))
}

// PreviewNextNumber godoc
// @Summary Preview next document number
// @Description Returns the number the next issue would assign for the kind. Display-only: concurrent issuing can invalidate it.
// @Tags billing-profile
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param kind query string true "Document kind" Enums(INVOICE, QUOTE, ORDER_CONFIRMATION)
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Billing setup incomplete for the kind"
// @Security BearerAuth
// @Router /tenants/{tenantID}/billing-profile/next-number [get]
func (h *billingProfileHandler) PreviewNextNumber(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	kind, ok := parseDocumentKind(c.Query("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be one of INVOICE, QUOTE, ORDER_CONFIRMATION"})
		return
	}

	number, err := h.numberingService.PreviewNextNumber(c.Request.Context(), tenantID, kind)
	if err != nil {
		respondServiceError(c, err, "Failed to preview next number")
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextNumber": number})
}

// parseDocumentKind validates a kind string from a query or path parameter.
func parseDocumentKind(raw string) (domain.DocumentKind, bool) {
	kind := domain.DocumentKind(raw)
	for _, k := range domain.DocumentKinds {
		if kind == k {
			return kind, true
		}
	}
	return "", false
}
