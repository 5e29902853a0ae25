// Package pdf renders documents through the external HTML-to-PDF rendering
// service and validates the returned bytes before they are archived.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/platform/config"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// renderPayload is the request body sent to the rendering service. The
// service fills the profile's template with the document data; all monetary
// values arrive pre-computed so the renderer never does arithmetic.
type renderPayload struct {
	Template string                 `json:"template"`
	Tenant   *domain.Tenant         `json:"tenant"`
	Profile  *domain.BillingProfile `json:"profile"`
	Document *domain.Document       `json:"document"`
}

// HTTPRenderer implements the PDFRenderer port against the configured
// rendering service endpoint.
type HTTPRenderer struct {
	client *http.Client
	url    string
}

// NewHTTPRenderer creates a renderer for the configured endpoint.
func NewHTTPRenderer(cfg *config.Config) *HTTPRenderer {
	return &HTTPRenderer{
		client: &http.Client{Timeout: cfg.PDFRenderTimeout},
		url:    cfg.PDFRenderURL,
	}
}

var _ portssvc.PDFRenderer = (*HTTPRenderer)(nil)

// RenderDocument posts the document to the rendering service and returns the
// PDF bytes. The response is validated with pdfcpu so a broken render is
// rejected before anything reaches the archive.
func (r *HTTPRenderer) RenderDocument(ctx context.Context, doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error) {
	payload := renderPayload{
		Template: profile.Template,
		Tenant:   tenant,
		Profile:  profile,
		Document: doc,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render service returned %s", resp.Status)
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered pdf: %w", err)
	}

	if err := api.Validate(bytes.NewReader(pdfBytes), nil); err != nil {
		return nil, fmt.Errorf("render service returned an invalid pdf: %w", err)
	}
	return pdfBytes, nil
}
