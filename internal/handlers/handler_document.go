package handlers

import (
	"net/http"
	"strconv"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// documentHandler handles draft, issue and archive operations on financial
// documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	tenantService   portssvc.TenantSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade, ts portssvc.TenantSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
		tenantService:   ts,
	}
}

// registerDocumentRoutes registers the document routes.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, tenantService portssvc.TenantSvcFacade) {
	h := newDocumentHandler(documentService, tenantService)
	documents := rg.Group("/tenants/:tenantID/documents")
	{
		documents.POST("/preview-totals", h.PreviewTotals)
		documents.POST("", h.CreateDraft)
		documents.GET("", h.ListDocuments)
		documents.GET("/:documentID", h.GetDocument)
		documents.PUT("/:documentID", h.UpdateDocument)
		documents.DELETE("/:documentID", h.DeleteDraft)
		documents.POST("/:documentID/issue", h.IssueDocument)
	}
}

// PreviewTotals godoc
// @Summary Preview document totals
// @Description Computes the totals block for an unsaved position list. Stateless; intended for live editing.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param positions body dto.PreviewTotalsRequest true "Positions, tax rate and discount"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/preview-totals [post]
func (h *documentHandler) PreviewTotals(c *gin.Context) {
	_, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	var req dto.PreviewTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	totals, err := h.documentService.PreviewTotals(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to compute totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToTotalsResponse(*totals))
}

// CreateDraft godoc
// @Summary Create draft document
// @Description Creates an unnumbered draft invoice, quote or order confirmation.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param document body dto.CreateDocumentRequest true "Document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents [post]
func (h *documentHandler) CreateDraft(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.CreateDraft(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// ListDocuments godoc
// @Summary List documents
// @Description Lists documents ordered by date descending, paged by an opaque cursor.
// @Tags documents
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param kind query string false "Filter by kind" Enums(INVOICE, QUOTE, ORDER_CONFIRMATION)
// @Param status query string false "Filter by status" Enums(DRAFT, ISSUED)
// @Param limit query int false "Page size (default 50)"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents [get]
func (h *documentHandler) ListDocuments(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	var kind *domain.DocumentKind
	if raw := c.Query("kind"); raw != "" {
		k, valid := parseDocumentKind(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be one of INVOICE, QUOTE, ORDER_CONFIRMATION"})
			return
		}
		kind = &k
	}

	var status *domain.DocumentStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.DocumentStatus(raw)
		if s != domain.StatusDraft && s != domain.StatusIssued {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status must be DRAFT or ISSUED"})
			return
		}
		status = &s
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	docs, newToken, err := h.documentService.ListDocuments(c.Request.Context(), tenantID, kind, status, limit, nextToken)
	if err != nil {
		respondServiceError(c, err, "Failed to list documents")
		return
	}

	token := ""
	if newToken != nil {
		token = *newToken
	}
	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs, token))
}

// GetDocument godoc
// @Summary Get document
// @Description Returns a document. Draft totals are recomputed on read; issued totals are the frozen values from issue time.
// @Tags documents
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/{documentID} [get]
func (h *documentHandler) GetDocument(c *gin.Context) {
	tenantID, _, ok := requireTenantRole(c, h.tenantService, domain.RoleReadOnly)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), tenantID, c.Param("documentID"))
	if err != nil {
		respondServiceError(c, err, "Failed to get document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// UpdateDocument godoc
// @Summary Update document
// @Description Replaces the editable state of a document. Issued documents keep their number and get re-rendered artifacts.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param documentID path string true "Document ID"
// @Param document body dto.UpdateDocumentRequest true "Document"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/{documentID} [put]
func (h *documentHandler) UpdateDocument(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	documentID := c.Param("documentID")

	// The service enforces status-specific rules, so dispatch on the current
	// status rather than trusting anything from the client.
	current, err := h.documentService.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		respondServiceError(c, err, "Failed to get document")
		return
	}

	var updated *domain.Document
	if current.Status == domain.StatusIssued {
		updated, err = h.documentService.UpdateIssuedDocument(ctx, tenantID, documentID, req, userID)
	} else {
		updated, err = h.documentService.UpdateDraft(ctx, tenantID, documentID, req, userID)
	}
	if err != nil {
		respondServiceError(c, err, "Failed to update document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(updated))
}

// DeleteDraft godoc
// @Summary Delete draft document
// @Description Deletes a draft. Issued documents cannot be deleted.
// @Tags documents
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param documentID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Document is already issued"
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/{documentID} [delete]
func (h *documentHandler) DeleteDraft(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	if err := h.documentService.DeleteDraft(c.Request.Context(), tenantID, c.Param("documentID"), userID); err != nil {
		respondServiceError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

// IssueDocument godoc
// @Summary Issue document
// @Description Allocates the next number for the draft, freezes its totals and archives the rendered PDF (and XML for invoices).
// @Tags documents
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already issued, or billing setup incomplete"
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/{documentID}/issue [post]
func (h *documentHandler) IssueDocument(c *gin.Context) {
	tenantID, userID, ok := requireTenantRole(c, h.tenantService, domain.RoleMember)
	if !ok {
		return
	}

	doc, err := h.documentService.IssueDocument(c.Request.Context(), tenantID, c.Param("documentID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to issue document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
