package services

import (
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/platform/config"
)

// ExternalAdapters bundles the outward-facing ports the services depend on:
// PDF rendering, e-invoice serialization, object storage and alerting.
type ExternalAdapters struct {
	Renderer   portssvc.PDFRenderer
	Serializer portssvc.EInvoiceSerializer
	Archive    portssvc.DocumentArchive
	Notifier   portssvc.MarginNotifier
}

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, ext ExternalAdapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Tenant = NewTenantService(repos.TenantRepo, repos.UserRepo)
	container.BillingProfile = NewBillingProfileService(repos.BillingProfileRepo)
	container.Numbering = NewNumberingService(repos.BillingProfileRepo, repos.DocumentRepo)

	container.Document = NewDocumentService(
		repos.DocumentRepo,
		repos.BillingProfileRepo,
		repos.TenantRepo,
		container.Numbering,
		ext.Renderer,
		ext.Serializer,
		ext.Archive,
	)

	container.Project = NewProjectService(repos.ProjectRepo, repos.UserRepo, ext.Notifier)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.UserSvcFacade           = (*userService)(nil)
	_ portssvc.TenantSvcFacade         = (*tenantService)(nil)
	_ portssvc.BillingProfileSvcFacade = (*billingProfileService)(nil)
	_ portssvc.NumberingSvcFacade      = (*numberingService)(nil)
	_ portssvc.DocumentSvcFacade       = (*documentService)(nil)
	_ portssvc.ProjectSvcFacade        = (*projectService)(nil)
)
