package handlers

import (
	"net/http"

	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/fakturly/fakturly_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles tenant and membership requests.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(ts portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: ts}
}

// registerTenantRoutes registers the tenant routes.
func registerTenantRoutes(rg *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	h := newTenantHandler(tenantService)
	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.CreateTenant)
		tenants.GET("", h.ListTenants)
		tenants.GET("/:tenantID", h.GetTenant)
		tenants.PUT("/:tenantID", h.UpdateTenant)
		tenants.GET("/:tenantID/members", h.ListMembers)
		tenants.POST("/:tenantID/members", h.AddMember)
	}
}

// CreateTenant godoc
// @Summary Create tenant
// @Description Creates a new tenant with the caller as ADMIN.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant Info"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) CreateTenant(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create tenant")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// ListTenants godoc
// @Summary List tenants
// @Description Lists the tenants the caller is a member of.
// @Tags tenants
// @Produce json
// @Success 200 {object} dto.ListTenantsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants [get]
func (h *tenantHandler) ListTenants(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListTenantsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list tenants")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTenantsResponse(tenants))
}

// GetTenant godoc
// @Summary Get tenant
// @Description Returns a tenant the caller is a member of.
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) GetTenant(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), c.Param("tenantID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// UpdateTenant godoc
// @Summary Update tenant
// @Description Updates tenant details. Requires the ADMIN role.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param tenant body dto.UpdateTenantRequest true "Fields to update"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID} [put]
func (h *tenantHandler) UpdateTenant(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), c.Param("tenantID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// ListMembers godoc
// @Summary List tenant members
// @Description Lists the memberships of a tenant.
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/members [get]
func (h *tenantHandler) ListMembers(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), c.Param("tenantID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list members")
		return
	}

	resp := make([]dto.MemberResponse, len(members))
	for i := range members {
		resp[i] = dto.ToMemberResponse(&members[i])
	}
	c.JSON(http.StatusOK, resp)
}

// AddMember godoc
// @Summary Add tenant member
// @Description Adds a user to the tenant with a role. Requires the ADMIN role.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param member body dto.AddMemberRequest true "Member Info"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User is already a member"
// @Security BearerAuth
// @Router /tenants/{tenantID}/members [post]
func (h *tenantHandler) AddMember(c *gin.Context) {
	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), c.Param("tenantID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to add member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(membership))
}
