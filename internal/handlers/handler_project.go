package handlers

import (
	"net/http"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// projectHandler handles project, time tracking and finance KPI requests.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	tenantService  portssvc.TenantSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade, ts portssvc.TenantSvcFacade) *projectHandler {
	return &projectHandler{
		projectService: ps,
		tenantService:  ts,
	}
}

// registerProjectRoutes registers the project routes.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, tenantService portssvc.TenantSvcFacade) {
	h := newProjectHandler(projectService, tenantService)
	projects := rg.Group("/tenants/:tenantID/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:projectID", h.GetProject)
		projects.PUT("/:projectID/kpi-settings", h.UpdateKpiSettings)
		projects.POST("/:projectID/time-entries", h.TrackTime)
		projects.GET("/:projectID/time-entries", h.ListTimeEntries)
		projects.GET("/:projectID/finance-stats", h.GetFinanceStats)
	}
}

// CreateProject godoc
// @Summary Create project
// @Description Creates a project in the tenant.
// @Tags projects
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param project body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects [post]
func (h *projectHandler) CreateProject(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// ListProjects godoc
// @Summary List projects
// @Description Lists the tenant's projects ordered by name.
// @Tags projects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects [get]
func (h *projectHandler) ListProjects(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProjectsResponse(projects))
}

// GetProject godoc
// @Summary Get project
// @Description Returns a project with its KPI settings.
// @Tags projects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects/{projectID} [get]
func (h *projectHandler) GetProject(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), tenantID, c.Param("projectID"))
	if err != nil {
		respondServiceError(c, err, "Failed to get project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// UpdateKpiSettings godoc
// @Summary Update project KPI settings
// @Description Replaces the project's KPI inputs (budget, target margin, extra costs, zero-margin alerting).
// @Tags projects
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param projectID path string true "Project ID"
// @Param settings body dto.UpdateKpiSettingsRequest true "KPI Settings"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects/{projectID}/kpi-settings [put]
func (h *projectHandler) UpdateKpiSettings(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	var req dto.UpdateKpiSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.UpdateKpiSettings(c.Request.Context(), tenantID, c.Param("projectID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update KPI settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// TrackTime godoc
// @Summary Track time
// @Description Records tracked hours for the caller on the project.
// @Tags projects
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param projectID path string true "Project ID"
// @Param entry body dto.TrackTimeRequest true "Time Entry"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects/{projectID}/time-entries [post]
func (h *projectHandler) TrackTime(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	var req dto.TrackTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.projectService.TrackTime(c.Request.Context(), tenantID, c.Param("projectID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to track time")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry))
}

// ListTimeEntries godoc
// @Summary List time entries
// @Description Lists the project's time entries ordered by entry date.
// @Tags projects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param projectID path string true "Project ID"
// @Success 200 {array} dto.TimeEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects/{projectID}/time-entries [get]
func (h *projectHandler) ListTimeEntries(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	entries, err := h.projectService.ListTimeEntries(c.Request.Context(), tenantID, c.Param("projectID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list time entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponses(entries))
}

// GetFinanceStats godoc
// @Summary Get project finance stats
// @Description Recomputes the project's KPI set from tracked time and settings. Evaluates the zero-margin alert trigger as a side effect.
// @Tags projects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.FinanceStatsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/projects/{projectID}/finance-stats [get]
func (h *projectHandler) GetFinanceStats(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	stats, err := h.projectService.GetFinanceStats(c.Request.Context(), tenantID, c.Param("projectID"))
	if err != nil {
		respondServiceError(c, err, "Failed to compute finance stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinanceStatsResponse(stats))
}
