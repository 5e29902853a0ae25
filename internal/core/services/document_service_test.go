package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/core/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/fakturly/fakturly_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockProfileRepo  *MockBillingProfileRepository
	mockTenantRepo   *MockTenantRepository
	mockNumbering    *MockNumberingService
	mockRenderer     *MockPDFRenderer
	mockSerializer   *MockEInvoiceSerializer
	mockArchive      *MockDocumentArchive
	service          portssvc.DocumentSvcFacade
	ctx              context.Context
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockProfileRepo = new(MockBillingProfileRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockNumbering = new(MockNumberingService)
	suite.mockRenderer = new(MockPDFRenderer)
	suite.mockSerializer = new(MockEInvoiceSerializer)
	suite.mockArchive = new(MockDocumentArchive)
	suite.service = services.NewDocumentService(
		suite.mockDocumentRepo,
		suite.mockProfileRepo,
		suite.mockTenantRepo,
		suite.mockNumbering,
		suite.mockRenderer,
		suite.mockSerializer,
		suite.mockArchive,
	)
	suite.ctx = context.Background()
}

// draftDocument returns a draft invoice with one item: 2 x 100.00 at 19% tax.
func draftDocument(tenantID, documentID string, kind domain.DocumentKind) *domain.Document {
	return &domain.Document{
		DocumentID: documentID,
		TenantID:   tenantID,
		Kind:       kind,
		Status:     domain.StatusDraft,
		Date:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Title:      "Website relaunch",
		Positions: []domain.Position{
			{
				PositionID: "pos-1",
				Kind:       domain.ItemPosition,
				Text:       "Development",
				Quantity:   decimal.NewFromInt(2),
				Unit:       "h",
				UnitPrice:  decimal.NewFromInt(100),
				SortOrder:  0,
			},
		},
		TaxRate: decimal.NewFromInt(19),
	}
}

func (suite *DocumentServiceTestSuite) expectRenderPipeline(tenantID, documentID string, withXML bool) {
	profile := configuredProfile(tenantID)
	tenant := &domain.Tenant{TenantID: tenantID, Name: "Muster GmbH"}
	suite.mockProfileRepo.On("GetBillingProfile", suite.ctx, tenantID).Return(profile, nil).Once()
	suite.mockTenantRepo.On("GetTenantByID", suite.ctx, tenantID).Return(tenant, nil).Once()
	suite.mockRenderer.On("RenderDocument", suite.ctx, mock.Anything, profile, tenant).Return([]byte("%PDF"), nil).Once()
	suite.mockArchive.On("StorePDF", suite.ctx, tenantID, documentID+".pdf", []byte("%PDF")).
		Return("tenants/"+tenantID+"/"+documentID+".pdf", nil).Once()
	if withXML {
		suite.mockSerializer.On("Serialize", mock.Anything, profile, tenant).Return([]byte("<Invoice/>"), nil).Once()
		suite.mockArchive.On("StoreXML", suite.ctx, tenantID, documentID+".xml", []byte("<Invoice/>")).
			Return("tenants/"+tenantID+"/"+documentID+".xml", nil).Once()
	}
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_Success() {
	tenantID := "tenant-1"
	documentID := "doc-1"
	draft := draftDocument(tenantID, documentID, domain.KindInvoice)

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()
	suite.mockNumbering.On("AllocateNumber", suite.ctx, tenantID, domain.KindInvoice).Return("RE-2024-0007", int64(7), nil).Once()

	var issued domain.Document
	suite.mockDocumentRepo.On("SaveIssuedDocument", suite.ctx, mock.AnythingOfType("domain.Document")).
		Run(func(args mock.Arguments) { issued = args.Get(1).(domain.Document) }).
		Return(nil).Once()

	suite.expectRenderPipeline(tenantID, documentID, true)
	suite.mockDocumentRepo.On("UpdateDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	doc, err := suite.service.IssueDocument(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusIssued, doc.Status)
	suite.Equal("RE-2024-0007", doc.Number)
	suite.Equal(int64(7), doc.Sequence)
	suite.Equal("tenants/tenant-1/doc-1.pdf", doc.PDFObjectPath)
	suite.Equal("tenants/tenant-1/doc-1.xml", doc.XMLObjectPath)

	// Totals were frozen before the number was committed.
	suite.Equal(domain.StatusIssued, issued.Status)
	suite.True(issued.Totals.NetSubtotal.Equal(decimal.NewFromInt(200)), "net %s", issued.Totals.NetSubtotal)
	suite.True(issued.Totals.TaxAmount.Equal(decimal.NewFromInt(38)), "tax %s", issued.Totals.TaxAmount)
	suite.True(issued.Totals.GrossTotal.Equal(decimal.NewFromInt(238)), "gross %s", issued.Totals.GrossTotal)

	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockNumbering.AssertExpectations(suite.T())
	suite.mockArchive.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_QuoteSkipsEInvoice() {
	tenantID := "tenant-1"
	documentID := "doc-2"
	draft := draftDocument(tenantID, documentID, domain.KindQuote)

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()
	suite.mockNumbering.On("AllocateNumber", suite.ctx, tenantID, domain.KindQuote).Return("AN-0100-X", int64(100), nil).Once()
	suite.mockDocumentRepo.On("SaveIssuedDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()
	suite.expectRenderPipeline(tenantID, documentID, false)
	suite.mockDocumentRepo.On("UpdateDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	doc, err := suite.service.IssueDocument(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().NoError(err)
	suite.Equal("AN-0100-X", doc.Number)
	suite.Empty(doc.XMLObjectPath)
	suite.mockSerializer.AssertNotCalled(suite.T(), "Serialize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_AlreadyIssued() {
	tenantID := "tenant-1"
	documentID := "doc-3"
	issued := draftDocument(tenantID, documentID, domain.KindInvoice)
	issued.Status = domain.StatusIssued
	issued.Number = "RE-2024-0001"

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(issued, nil).Once()

	_, err := suite.service.IssueDocument(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockNumbering.AssertNotCalled(suite.T(), "AllocateNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_RetriesOnceOnCollision() {
	tenantID := "tenant-1"
	documentID := "doc-4"
	draft := draftDocument(tenantID, documentID, domain.KindInvoice)

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()
	// A manually numbered legacy document occupies 0007; the retry draws 0008.
	suite.mockNumbering.On("AllocateNumber", suite.ctx, tenantID, domain.KindInvoice).Return("RE-2024-0007", int64(7), nil).Once()
	suite.mockNumbering.On("AllocateNumber", suite.ctx, tenantID, domain.KindInvoice).Return("RE-2024-0008", int64(8), nil).Once()
	suite.mockDocumentRepo.On("SaveIssuedDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(apperrors.ErrSequenceCollision).Once()
	suite.mockDocumentRepo.On("SaveIssuedDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()
	suite.expectRenderPipeline(tenantID, documentID, true)
	suite.mockDocumentRepo.On("UpdateDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	doc, err := suite.service.IssueDocument(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().NoError(err)
	suite.Equal("RE-2024-0008", doc.Number)
	suite.Equal(int64(8), doc.Sequence)
	suite.mockNumbering.AssertNumberOfCalls(suite.T(), "AllocateNumber", 2)
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_GivesUpAfterSecondCollision() {
	tenantID := "tenant-1"
	documentID := "doc-5"
	draft := draftDocument(tenantID, documentID, domain.KindInvoice)

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()
	suite.mockNumbering.On("AllocateNumber", suite.ctx, tenantID, domain.KindInvoice).Return("RE-2024-0007", int64(7), nil).Twice()
	suite.mockDocumentRepo.On("SaveIssuedDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(apperrors.ErrSequenceCollision).Twice()

	_, err := suite.service.IssueDocument(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSequenceCollision)
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestGetDocument_DraftTotalsRecomputed() {
	tenantID := "tenant-1"
	documentID := "doc-6"
	draft := draftDocument(tenantID, documentID, domain.KindInvoice)
	// Stale persisted totals must not leak out of a draft read.
	draft.Totals = domain.DocumentTotals{GrossTotal: decimal.NewFromInt(9999)}

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()

	doc, err := suite.service.GetDocument(suite.ctx, tenantID, documentID)

	suite.Require().NoError(err)
	suite.True(doc.Totals.GrossTotal.Equal(decimal.NewFromInt(238)), "gross %s", doc.Totals.GrossTotal)
}

func (suite *DocumentServiceTestSuite) TestGetDocument_IssuedTotalsFrozen() {
	tenantID := "tenant-1"
	documentID := "doc-7"
	issued := draftDocument(tenantID, documentID, domain.KindInvoice)
	issued.Status = domain.StatusIssued
	issued.Number = "RE-2024-0001"
	frozen := domain.DocumentTotals{
		NetSubtotal:      decimal.NewFromInt(500),
		NetAfterDiscount: decimal.NewFromInt(500),
		TaxAmount:        decimal.NewFromInt(95),
		GrossTotal:       decimal.NewFromInt(595),
	}
	issued.Totals = frozen

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(issued, nil).Once()

	doc, err := suite.service.GetDocument(suite.ctx, tenantID, documentID)

	suite.Require().NoError(err)
	suite.True(doc.Totals.GrossTotal.Equal(frozen.GrossTotal))
}

func (suite *DocumentServiceTestSuite) TestUpdateDraft_RejectsIssuedDocument() {
	tenantID := "tenant-1"
	documentID := "doc-8"
	issued := draftDocument(tenantID, documentID, domain.KindInvoice)
	issued.Status = domain.StatusIssued

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(issued, nil).Once()

	_, err := suite.service.UpdateDraft(suite.ctx, tenantID, documentID, dto.UpdateDocumentRequest{Date: time.Now()}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "UpdateDocument", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpdateIssuedDocument_KeepsNumberAndRerenders() {
	tenantID := "tenant-1"
	documentID := "doc-9"
	issued := draftDocument(tenantID, documentID, domain.KindInvoice)
	issued.Status = domain.StatusIssued
	issued.Number = "RE-2024-0003"
	issued.Sequence = 3

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(issued, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocument", suite.ctx, mock.AnythingOfType("domain.Document")).Return(nil).Twice()
	suite.expectRenderPipeline(tenantID, documentID, true)

	req := dto.UpdateDocumentRequest{
		Date:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Title: "Website relaunch, phase 2",
		Positions: []dto.PositionRequest{
			{Kind: domain.ItemPosition, Text: "Development", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
		},
		TaxRate: decimal.NewFromInt(19),
	}
	doc, err := suite.service.UpdateIssuedDocument(suite.ctx, tenantID, documentID, req, "user-2")

	suite.Require().NoError(err)
	suite.Equal("RE-2024-0003", doc.Number)
	suite.Equal(int64(3), doc.Sequence)
	suite.True(doc.Totals.GrossTotal.Equal(decimal.NewFromInt(357)), "gross %s", doc.Totals.GrossTotal)
	suite.mockRenderer.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestDeleteDraft_Success() {
	tenantID := "tenant-1"
	documentID := "doc-10"
	draft := draftDocument(tenantID, documentID, domain.KindInvoice)

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(draft, nil).Once()
	suite.mockDocumentRepo.On("DeleteDocument", suite.ctx, tenantID, documentID).Return(nil).Once()

	err := suite.service.DeleteDraft(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestDeleteDraft_RejectsIssuedDocument() {
	tenantID := "tenant-1"
	documentID := "doc-11"
	issued := draftDocument(tenantID, documentID, domain.KindInvoice)
	issued.Status = domain.StatusIssued

	suite.mockDocumentRepo.On("GetDocumentByID", suite.ctx, tenantID, documentID).Return(issued, nil).Once()

	err := suite.service.DeleteDraft(suite.ctx, tenantID, documentID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "DeleteDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_ReturnsTokenWhenMorePagesExist() {
	tenantID := "tenant-1"
	docs := make([]domain.Document, 3)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range docs {
		docs[i] = domain.Document{
			DocumentID: "doc-" + string(rune('a'+i)),
			TenantID:   tenantID,
			Date:       base.AddDate(0, 0, -i),
			AuditFields: domain.AuditFields{
				CreatedAt: base.AddDate(0, 0, -i),
			},
		}
	}

	suite.mockDocumentRepo.On("ListDocuments", suite.ctx, tenantID, mock.MatchedBy(func(f portsrepo.ListDocumentsFilter) bool {
		return f.Limit == 3 // requested limit plus one probe row
	})).Return(docs, nil).Once()

	page, token, err := suite.service.ListDocuments(suite.ctx, tenantID, nil, nil, 2, nil)

	suite.Require().NoError(err)
	suite.Len(page, 2)
	suite.Require().NotNil(token)

	wantToken := pagination.EncodeToken(docs[1].Date, docs[1].CreatedAt)
	suite.Equal(wantToken, *token)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_LastPageHasNoToken() {
	tenantID := "tenant-1"
	docs := []domain.Document{{DocumentID: "doc-a", TenantID: tenantID}}

	suite.mockDocumentRepo.On("ListDocuments", suite.ctx, tenantID, mock.Anything).Return(docs, nil).Once()

	page, token, err := suite.service.ListDocuments(suite.ctx, tenantID, nil, nil, 2, nil)

	suite.Require().NoError(err)
	suite.Len(page, 1)
	suite.Nil(token)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_InvalidToken() {
	bad := "not-a-cursor"

	_, _, err := suite.service.ListDocuments(suite.ctx, "tenant-1", nil, nil, 10, &bad)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "ListDocuments", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPreviewTotals_NoStateTouched() {
	req := dto.PreviewTotalsRequest{
		Positions: []dto.PositionRequest{
			{Kind: domain.ItemPosition, Text: "Consulting", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
			{Kind: domain.HeadingPosition, Text: "Services"},
		},
		TaxRate: decimal.NewFromInt(19),
	}

	totals, err := suite.service.PreviewTotals(suite.ctx, req)

	suite.Require().NoError(err)
	suite.True(totals.NetSubtotal.Equal(decimal.NewFromInt(200)), "net %s", totals.NetSubtotal)
	suite.True(totals.GrossTotal.Equal(decimal.NewFromInt(238)), "gross %s", totals.GrossTotal)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
