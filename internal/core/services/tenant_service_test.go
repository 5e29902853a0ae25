package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/core/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TenantServiceTestSuite struct {
	suite.Suite
	mockTenantRepo *MockTenantRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.TenantSvcFacade
	ctx            context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewTenantService(suite.mockTenantRepo, suite.mockUserRepo)
	suite.ctx = context.Background()
}

func membership(userID, tenantID string, role domain.UserTenantRole) *domain.UserTenant {
	return &domain.UserTenant{UserID: userID, TenantID: tenantID, Role: role, JoinedAt: time.Now()}
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_SufficientRole() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-1", "tenant-1").
		Return(membership("user-1", "tenant-1", domain.RoleMember), nil).Once()

	result, err := suite.service.AuthorizeUserAction(suite.ctx, "user-1", "tenant-1", domain.RoleReadOnly)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, result.Role)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_AdminAlwaysAllowed() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-1", "tenant-1").
		Return(membership("user-1", "tenant-1", domain.RoleAdmin), nil).Once()

	result, err := suite.service.AuthorizeUserAction(suite.ctx, "user-1", "tenant-1", domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, result.Role)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_InsufficientRole() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-1", "tenant-1").
		Return(membership("user-1", "tenant-1", domain.RoleReadOnly), nil).Once()

	_, err := suite.service.AuthorizeUserAction(suite.ctx, "user-1", "tenant-1", domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_NonMemberGetsNotFound() {
	// Non-members must not learn whether the tenant exists.
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-2", "tenant-1").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthorizeUserAction(suite.ctx, "user-2", "tenant-1", domain.RoleReadOnly)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TenantServiceTestSuite) TestCreateTenant_Success() {
	var created domain.Tenant
	suite.mockTenantRepo.On("CreateTenant", suite.ctx, mock.AnythingOfType("domain.Tenant"), "user-1").
		Run(func(args mock.Arguments) { created = args.Get(1).(domain.Tenant) }).
		Return(nil).Once()

	tenant, err := suite.service.CreateTenant(suite.ctx, dto.CreateTenantRequest{Name: "Muster GmbH", CountryCode: "DE"}, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(tenant.TenantID)
	suite.Equal("Muster GmbH", created.Name)
	suite.Equal("user-1", created.CreatedBy)
}

func (suite *TenantServiceTestSuite) TestUpdateTenant_RequiresAdmin() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-1", "tenant-1").
		Return(membership("user-1", "tenant-1", domain.RoleMember), nil).Once()

	name := "New Name"
	_, err := suite.service.UpdateTenant(suite.ctx, "tenant-1", dto.UpdateTenantRequest{Name: &name}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "UpdateTenant", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAddMember_RejectsExistingMember() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "admin-1", "tenant-1").
		Return(membership("admin-1", "tenant-1", domain.RoleAdmin), nil).Once()
	suite.mockUserRepo.On("GetUserByID", suite.ctx, "user-2").
		Return(&domain.User{UserID: "user-2"}, nil).Once()
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-2", "tenant-1").
		Return(membership("user-2", "tenant-1", domain.RoleMember), nil).Once()

	req := dto.AddMemberRequest{UserID: "user-2", Role: domain.RoleMember}
	_, err := suite.service.AddMember(suite.ctx, "tenant-1", req, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "AddUserToTenant", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAddMember_Success() {
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "admin-1", "tenant-1").
		Return(membership("admin-1", "tenant-1", domain.RoleAdmin), nil).Once()
	suite.mockUserRepo.On("GetUserByID", suite.ctx, "user-2").
		Return(&domain.User{UserID: "user-2"}, nil).Once()
	suite.mockTenantRepo.On("GetUserTenantRole", suite.ctx, "user-2", "tenant-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTenantRepo.On("AddUserToTenant", suite.ctx, mock.AnythingOfType("domain.UserTenant")).Return(nil).Once()

	req := dto.AddMemberRequest{UserID: "user-2", Role: domain.RoleReadOnly}
	result, err := suite.service.AddMember(suite.ctx, "tenant-1", req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleReadOnly, result.Role)
	suite.mockTenantRepo.AssertExpectations(suite.T())
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
