package services_test

import (
	"context"
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

// --- Mock TenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) CreateTenant(ctx context.Context, tenant domain.Tenant, creatorUserID string) error {
	args := m.Called(ctx, tenant, creatorUserID)
	return args.Error(0)
}

func (m *MockTenantRepository) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetUserTenantRole(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTenant), args.Error(1)
}

func (m *MockTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTenant), args.Error(1)
}

var _ portsrepo.TenantRepository = (*MockTenantRepository)(nil)

// --- Mock BillingProfileRepository ---

type MockBillingProfileRepository struct {
	mock.Mock
}

func (m *MockBillingProfileRepository) GetBillingProfile(ctx context.Context, tenantID string) (*domain.BillingProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingProfile), args.Error(1)
}

func (m *MockBillingProfileRepository) SaveBillingProfile(ctx context.Context, profile domain.BillingProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

var _ portsrepo.BillingProfileRepository = (*MockBillingProfileRepository)(nil)

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetDocumentByID(ctx context.Context, tenantID string, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, tenantID string, filter portsrepo.ListDocumentsFilter) ([]domain.Document, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, tenantID string, documentID string) error {
	args := m.Called(ctx, tenantID, documentID)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetCurrentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) NextDocumentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind, start int64) (int64, error) {
	args := m.Called(ctx, tenantID, kind, start)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) SaveIssuedDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

var _ portsrepo.DocumentRepository = (*MockDocumentRepository)(nil)

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) CreateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetProjectByID(ctx context.Context, tenantID string, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateLastMarginPercent(ctx context.Context, tenantID string, projectID string, margin *decimal.Decimal) error {
	args := m.Called(ctx, tenantID, projectID, margin)
	return args.Error(0)
}

func (m *MockProjectRepository) CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProjectRepository) ListTimeEntries(ctx context.Context, tenantID string, projectID string) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

var _ portsrepo.ProjectRepository = (*MockProjectRepository)(nil)

// --- Mock NumberingSvcFacade ---

type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) AllocateNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (string, int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockNumberingService) PreviewNextNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (string, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.String(0), args.Error(1)
}

var _ portssvc.NumberingSvcFacade = (*MockNumberingService)(nil)

// --- Mock external adapters ---

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) RenderDocument(ctx context.Context, doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error) {
	args := m.Called(ctx, doc, profile, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.PDFRenderer = (*MockPDFRenderer)(nil)

type MockEInvoiceSerializer struct {
	mock.Mock
}

func (m *MockEInvoiceSerializer) Serialize(doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error) {
	args := m.Called(doc, profile, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.EInvoiceSerializer = (*MockEInvoiceSerializer)(nil)

type MockDocumentArchive struct {
	mock.Mock
}

func (m *MockDocumentArchive) StorePDF(ctx context.Context, tenantID string, objectName string, data []byte) (string, error) {
	args := m.Called(ctx, tenantID, objectName, data)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentArchive) StoreXML(ctx context.Context, tenantID string, objectName string, data []byte) (string, error) {
	args := m.Called(ctx, tenantID, objectName, data)
	return args.String(0), args.Error(1)
}

var _ portssvc.DocumentArchive = (*MockDocumentArchive)(nil)

type MockMarginNotifier struct {
	mock.Mock
}

func (m *MockMarginNotifier) NotifyZeroMargin(ctx context.Context, notification portssvc.ZeroMarginNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

var _ portssvc.MarginNotifier = (*MockMarginNotifier)(nil)
