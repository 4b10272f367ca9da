package proposalservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
	"qwhomes/internal/service/proposalservice"
)

// MockProposalRepository é uma implementação mock da interface ProposalRepository
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) Save(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	args := m.Called(ctx, proposal)
	return args.Get(0).(domain.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id string) (domain.Proposal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindAll(ctx context.Context, filter domain.ProposalFilter) ([]domain.Proposal, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Proposal), args.Int(1), args.Error(2)
}

func (m *MockProposalRepository) Update(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	args := m.Called(ctx, proposal)
	return args.Get(0).(domain.Proposal), args.Error(1)
}

func (m *MockProposalRepository) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProposalRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProposalRepository) Dashboard(ctx context.Context) (domain.ProposalDashboard, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ProposalDashboard), args.Error(1)
}

// MockClientReader valida referências de cliente.
type MockClientReader struct {
	mock.Mock
}

func (m *MockClientReader) FindByID(ctx context.Context, id string) (domain.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Client), args.Error(1)
}

// MockApartmentTypeReader valida referências de tipo de apartamento.
type MockApartmentTypeReader struct {
	mock.Mock
}

func (m *MockApartmentTypeReader) FindTypeByID(ctx context.Context, id string) (domain.ApartmentType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ApartmentType), args.Error(1)
}

// MockProductReader valida referências de produto.
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

// fixture monta o serviço com todos os mocks e referências válidas.
type fixture struct {
	repo       *MockProposalRepository
	clients    *MockClientReader
	apartments *MockApartmentTypeReader
	products   *MockProductReader
	svc        *proposalservice.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:       new(MockProposalRepository),
		clients:    new(MockClientReader),
		apartments: new(MockApartmentTypeReader),
		products:   new(MockProductReader),
	}
	f.svc = proposalservice.NewService(f.repo, f.clients, f.apartments, f.products, "/tmp/exports", newTestLogger())
	return f
}

// validRequest monta um payload de submissão consistente:
// duas linhas (90×2 e 50×1) com desconto de proposta de 10%.
func validRequest(clientID, apartmentTypeID, p1, p2 string) domain.ProposalRequest {
	return domain.ProposalRequest{
		Name:            "Proposta Sunset 2BR",
		ClientID:        clientID,
		ApartmentTypeID: apartmentTypeID,
		Discount:        10,
		// TotalPrice enviado pelo cliente é deliberadamente errado; o
		// servidor deve recomputar.
		TotalPrice: decimal.NewFromInt(999),
		Products: []domain.ProposalProductRequest{
			{ProductID: p1, Quantity: 2, Price: decimal.NewFromInt(90), TotalPrice: decimal.NewFromInt(180), ProductDiscount: 10},
			{ProductID: p2, Quantity: 1, Price: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(50)},
		},
	}
}

// TestCreateProposal_RecomputesTotal testa que o total persistido é
// derivado das linhas no servidor, ignorando o total do payload:
// (180 + 50) − 10% = 207.
func TestCreateProposal_RecomputesTotal(t *testing.T) {
	f := newFixture()
	clientID, aptID := uuid.New().String(), uuid.New().String()
	p1, p2 := uuid.New().String(), uuid.New().String()

	f.clients.On("FindByID", mock.Anything, clientID).Return(domain.Client{ID: clientID}, nil)
	f.apartments.On("FindTypeByID", mock.Anything, aptID).Return(domain.ApartmentType{ID: aptID}, nil)
	f.products.On("FindProductByID", mock.Anything, p1).Return(domain.Product{ID: p1}, nil)
	f.products.On("FindProductByID", mock.Anything, p2).Return(domain.Product{ID: p2}, nil)

	f.repo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Proposal) bool {
		return p.Status == domain.ProposalDraft &&
			p.TotalPrice.Equal(decimal.NewFromInt(207)) &&
			len(p.Products) == 2
	})).Return(domain.Proposal{ID: uuid.New().String(), Status: domain.ProposalDraft}, nil)

	_, err := f.svc.CreateProposal(context.Background(), validRequest(clientID, aptID, p1, p2))

	assert.NoError(t, err)
	f.repo.AssertExpectations(t)
}

// TestCreateProposal_EmptyProducts testa a rejeição de payload sem linhas.
func TestCreateProposal_EmptyProducts(t *testing.T) {
	f := newFixture()

	req := domain.ProposalRequest{Name: "Proposta vazia", ClientID: uuid.New().String(), ApartmentTypeID: uuid.New().String()}
	_, err := f.svc.CreateProposal(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProposal_UnknownClient testa a validação da referência de cliente.
func TestCreateProposal_UnknownClient(t *testing.T) {
	f := newFixture()
	clientID, aptID := uuid.New().String(), uuid.New().String()
	p1, p2 := uuid.New().String(), uuid.New().String()

	f.clients.On("FindByID", mock.Anything, clientID).
		Return(domain.Client{}, apperror.NewNotFoundError("cliente não encontrado"))

	_, err := f.svc.CreateProposal(context.Background(), validRequest(clientID, aptID, p1, p2))

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestFinalizeProposal_FromDraft testa a transição permitida DRAFT -> FINALIZED.
func TestFinalizeProposal_FromDraft(t *testing.T) {
	f := newFixture()
	id := uuid.New().String()

	f.repo.On("FindByID", mock.Anything, id).Return(domain.Proposal{ID: id, Status: domain.ProposalDraft}, nil)
	f.repo.On("UpdateStatus", mock.Anything, id, domain.ProposalFinalized).Return(nil)

	result, err := f.svc.FinalizeProposal(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, domain.ProposalFinalized, result.Status)
	f.repo.AssertExpectations(t)
}

// TestApproveProposal_SkipRejected testa que DRAFT não pode saltar direto
// para APPROVED.
func TestApproveProposal_SkipRejected(t *testing.T) {
	f := newFixture()
	id := uuid.New().String()

	f.repo.On("FindByID", mock.Anything, id).Return(domain.Proposal{ID: id, Status: domain.ProposalDraft}, nil)

	_, err := f.svc.ApproveProposal(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// TestFinalizeProposal_Terminal testa que APPROVED é terminal.
func TestFinalizeProposal_Terminal(t *testing.T) {
	f := newFixture()
	id := uuid.New().String()

	f.repo.On("FindByID", mock.Anything, id).Return(domain.Proposal{ID: id, Status: domain.ProposalApproved}, nil)

	_, err := f.svc.FinalizeProposal(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
}

// TestUpdateProposal_NonDraftRejected testa a imutabilidade de propostas
// finalizadas.
func TestUpdateProposal_NonDraftRejected(t *testing.T) {
	f := newFixture()
	id := uuid.New().String()

	f.repo.On("FindByID", mock.Anything, id).Return(domain.Proposal{ID: id, Status: domain.ProposalFinalized}, nil)

	_, err := f.svc.UpdateProposal(context.Background(), id, validRequest(uuid.New().String(), uuid.New().String(), uuid.New().String(), uuid.New().String()))

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestDeleteProposal_NonDraftRejected testa que só rascunhos podem ser
// removidos.
func TestDeleteProposal_NonDraftRejected(t *testing.T) {
	f := newFixture()
	id := uuid.New().String()

	f.repo.On("FindByID", mock.Anything, id).Return(domain.Proposal{ID: id, Status: domain.ProposalApproved}, nil)

	err := f.svc.DeleteProposal(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestGetAllProposals_PageableEnvelope testa a montagem do envelope de
// paginação da listagem.
func TestGetAllProposals_PageableEnvelope(t *testing.T) {
	f := newFixture()
	filter := domain.ProposalFilter{Page: 1, Limit: 10}

	f.repo.On("FindAll", mock.Anything, filter).
		Return([]domain.Proposal{{ID: uuid.New().String()}}, 25, nil)

	page, err := f.svc.GetAllProposals(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 10, page.Size)
}
