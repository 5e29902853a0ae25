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

type BillingProfileServiceTestSuite struct {
	suite.Suite
	mockProfileRepo *MockBillingProfileRepository
	service         portssvc.BillingProfileSvcFacade
	ctx             context.Context
}

func (suite *BillingProfileServiceTestSuite) SetupTest() {
	suite.mockProfileRepo = new(MockBillingProfileRepository)
	suite.service = services.NewBillingProfileService(suite.mockProfileRepo)
	suite.ctx = context.Background()
}

func fullProfileRequest() dto.UpdateBillingProfileRequest {
	return dto.UpdateBillingProfileRequest{
		InvoiceNumbering:   dto.NumberingConfigDTO{Prefix: strPtr("RE-"), Start: int64Ptr(1), Suffix: strPtr("")},
		QuoteNumbering:     dto.NumberingConfigDTO{Prefix: strPtr("AN-"), Start: int64Ptr(1), Suffix: strPtr("")},
		OrderConfNumbering: dto.NumberingConfigDTO{Prefix: strPtr("AB-"), Start: int64Ptr(1), Suffix: strPtr("")},
		AccountHolder:      "Muster GmbH",
		IBAN:               "DE89370400440532013000",
		BIC:                "COBADEFFXXX",
		BillingEmail:       "billing@muster.example",
		Template:           "classic",
	}
}

func (suite *BillingProfileServiceTestSuite) TestGetBillingProfile_Found() {
	tenantID := "tenant-1"
	stored := &domain.BillingProfile{TenantID: tenantID, AccountHolder: "Muster GmbH"}
	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(stored, nil).Once()

	profile, err := suite.service.GetBillingProfile(suite.ctx, tenantID)

	suite.Require().NoError(err)
	suite.Equal(stored, profile)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func (suite *BillingProfileServiceTestSuite) TestGetBillingProfile_DefaultWhenMissing() {
	tenantID := "tenant-new"
	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(nil, apperrors.ErrNotFound).Once()

	profile, err := suite.service.GetBillingProfile(suite.ctx, tenantID)

	suite.Require().NoError(err)
	suite.Equal(tenantID, profile.TenantID)
	suite.Equal(domain.StatusUnconfigured, profile.Completion().Status)
	// The default is never written; the first save creates the row.
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "SaveBillingProfile", mock.Anything, mock.Anything)
}

func (suite *BillingProfileServiceTestSuite) TestUpdateBillingProfile_CreatesRow() {
	tenantID := "tenant-1"
	userID := "user-1"
	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.BillingProfile
	suite.mockProfileRepo.On("SaveBillingProfile", suite.ctx, mock.AnythingOfType("domain.BillingProfile")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.BillingProfile) }).
		Return(nil).Once()

	profile, err := suite.service.UpdateBillingProfile(suite.ctx, tenantID, fullProfileRequest(), userID)

	suite.Require().NoError(err)
	suite.Equal(userID, saved.CreatedBy)
	suite.Equal(userID, saved.LastUpdatedBy)
	suite.Equal(domain.StatusReady, profile.Completion().Status)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func (suite *BillingProfileServiceTestSuite) TestUpdateBillingProfile_PreservesCreationAudit() {
	tenantID := "tenant-1"
	createdAt := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	existing := &domain.BillingProfile{
		TenantID: tenantID,
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
			CreatedBy: "user-original",
		},
	}
	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(existing, nil).Once()

	var saved domain.BillingProfile
	suite.mockProfileRepo.On("SaveBillingProfile", suite.ctx, mock.AnythingOfType("domain.BillingProfile")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.BillingProfile) }).
		Return(nil).Once()

	_, err := suite.service.UpdateBillingProfile(suite.ctx, tenantID, fullProfileRequest(), "user-editor")

	suite.Require().NoError(err)
	suite.Equal(createdAt, saved.CreatedAt)
	suite.Equal("user-original", saved.CreatedBy)
	suite.Equal("user-editor", saved.LastUpdatedBy)
}

func (suite *BillingProfileServiceTestSuite) TestUpdateBillingProfile_RejectsPartialTriple() {
	req := fullProfileRequest()
	req.QuoteNumbering = dto.NumberingConfigDTO{Prefix: strPtr("AN-")} // start and suffix missing

	_, err := suite.service.UpdateBillingProfile(suite.ctx, "tenant-1", req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "SaveBillingProfile", mock.Anything, mock.Anything)
}

func (suite *BillingProfileServiceTestSuite) TestUpdateBillingProfile_RejectsStartBelowOne() {
	req := fullProfileRequest()
	req.InvoiceNumbering.Start = int64Ptr(0)

	_, err := suite.service.UpdateBillingProfile(suite.ctx, "tenant-1", req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BillingProfileServiceTestSuite) TestUpdateBillingProfile_EmptyTriplesAllowed() {
	tenantID := "tenant-1"
	req := fullProfileRequest()
	req.QuoteNumbering = dto.NumberingConfigDTO{}
	req.OrderConfNumbering = dto.NumberingConfigDTO{}

	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProfileRepo.On("SaveBillingProfile", suite.ctx, mock.AnythingOfType("domain.BillingProfile")).Return(nil).Once()

	profile, err := suite.service.UpdateBillingProfile(suite.ctx, tenantID, req, "user-1")

	suite.Require().NoError(err)
	completion := profile.Completion()
	suite.Equal(domain.StatusPartiallyConfigured, completion.Status)
	suite.Contains(completion.Missing, domain.FieldQuoteNumbering)
	suite.Contains(completion.Missing, domain.FieldOrderConfNumbering)
}

func TestBillingProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingProfileServiceTestSuite))
}
