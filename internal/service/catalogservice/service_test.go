package catalogservice_test

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
	"qwhomes/internal/service/catalogservice"
)

// MockCatalogRepository é uma implementação mock da interface CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockCatalogRepository) FindProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error) {
	args := m.Called(ctx, familyID, subFamilyID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	args := m.Called(ctx, family)
	return args.Get(0).(domain.FurnitureFamily), args.Error(1)
}

func (m *MockCatalogRepository) FindFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.FurnitureFamily), args.Error(1)
}

func (m *MockCatalogRepository) FindAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FurnitureFamily), args.Error(1)
}

func (m *MockCatalogRepository) UpdateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	args := m.Called(ctx, family)
	return args.Get(0).(domain.FurnitureFamily), args.Error(1)
}

func (m *MockCatalogRepository) DeleteFamily(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	args := m.Called(ctx, subFamily)
	return args.Get(0).(domain.FurnitureSubFamily), args.Error(1)
}

func (m *MockCatalogRepository) FindSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.FurnitureSubFamily), args.Error(1)
}

func (m *MockCatalogRepository) FindSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error) {
	args := m.Called(ctx, familyID)
	return args.Get(0).([]domain.FurnitureSubFamily), args.Error(1)
}

func (m *MockCatalogRepository) UpdateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	args := m.Called(ctx, subFamily)
	return args.Get(0).(domain.FurnitureSubFamily), args.Error(1)
}

func (m *MockCatalogRepository) DeleteSubFamily(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockApartmentTypeLister alimenta a cascata de seleção.
type MockApartmentTypeLister struct {
	mock.Mock
}

func (m *MockApartmentTypeLister) FindAllTypes(ctx context.Context) ([]domain.ApartmentType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ApartmentType), args.Error(1)
}

func newTestService() (*MockCatalogRepository, *MockApartmentTypeLister, *catalogservice.Service) {
	mockRepo := new(MockCatalogRepository)
	mockLister := new(MockApartmentTypeLister)
	svc := catalogservice.NewService(mockRepo, mockLister, logger.NewLogger("error"))
	return mockRepo, mockLister, svc
}

// produtoValido monta um produto consistente com a hierarquia dada.
func produtoValido(familyID, subFamilyID string) domain.Product {
	return domain.Product{
		SKU:         "SOF-001",
		Name:        "Sofá de Couro 3 Lugares",
		Price:       decimal.NewFromInt(100),
		Discount:    10,
		FamilyID:    familyID,
		SubFamilyID: subFamilyID,
	}
}

// TestCreateProduct_Success testa a criação com hierarquia consistente.
func TestCreateProduct_Success(t *testing.T) {
	mockRepo, _, svc := newTestService()
	familyID, subFamilyID := uuid.New().String(), uuid.New().String()
	product := produtoValido(familyID, subFamilyID)

	mockRepo.On("FindFamilyByID", mock.Anything, familyID).Return(domain.FurnitureFamily{ID: familyID}, nil)
	mockRepo.On("FindSubFamilyByID", mock.Anything, subFamilyID).Return(domain.FurnitureSubFamily{ID: subFamilyID, FamilyID: familyID}, nil)
	mockRepo.On("SaveProduct", mock.Anything, product).Return(product, nil)

	_, err := svc.CreateProduct(context.Background(), product)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_HierarchyMismatch testa a rejeição de subfamília que
// não pertence à família informada.
func TestCreateProduct_HierarchyMismatch(t *testing.T) {
	mockRepo, _, svc := newTestService()
	familyID, subFamilyID := uuid.New().String(), uuid.New().String()
	product := produtoValido(familyID, subFamilyID)

	mockRepo.On("FindFamilyByID", mock.Anything, familyID).Return(domain.FurnitureFamily{ID: familyID}, nil)
	// A subfamília existe, mas está pendurada em OUTRA família.
	mockRepo.On("FindSubFamilyByID", mock.Anything, subFamilyID).
		Return(domain.FurnitureSubFamily{ID: subFamilyID, FamilyID: uuid.New().String()}, nil)

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
}

// TestCreateProduct_DiscountOutOfRange testa o limite do desconto do
// fornecedor.
func TestCreateProduct_DiscountOutOfRange(t *testing.T) {
	_, _, svc := newTestService()
	product := produtoValido(uuid.New().String(), uuid.New().String())
	product.Discount = 120

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestGetProductsBySelection_Passthrough testa o repasse da consulta de
// seleção ao repositório (cache-aside fica na camada de persistência).
func TestGetProductsBySelection_Passthrough(t *testing.T) {
	mockRepo, _, svc := newTestService()
	familyID, subFamilyID := uuid.New().String(), uuid.New().String()
	expected := []domain.Product{{ID: uuid.New().String(), Name: "Sofá"}}

	mockRepo.On("FindProductsBySelection", mock.Anything, familyID, subFamilyID).Return(expected, nil)

	products, err := svc.GetProductsBySelection(context.Background(), familyID, subFamilyID)

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
}

// TestCreateSubFamily_UnknownFamily testa a rejeição de subfamília órfã.
func TestCreateSubFamily_UnknownFamily(t *testing.T) {
	mockRepo, _, svc := newTestService()
	familyID := uuid.New().String()

	mockRepo.On("FindFamilyByID", mock.Anything, familyID).
		Return(domain.FurnitureFamily{}, apperror.NewNotFoundError("família não encontrada"))

	_, err := svc.CreateSubFamily(context.Background(), domain.FurnitureSubFamily{Name: "Sofás de Couro", FamilyID: familyID})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "SaveSubFamily", mock.Anything, mock.Anything)
}

// TestGetAllApartmentTypes_Passthrough testa a fonte do primeiro dropdown
// da cascata.
func TestGetAllApartmentTypes_Passthrough(t *testing.T) {
	_, mockLister, svc := newTestService()
	expected := []domain.ApartmentType{{ID: uuid.New().String(), Name: "2BR Sunset"}}

	mockLister.On("FindAllTypes", mock.Anything).Return(expected, nil)

	types, err := svc.GetAllApartmentTypes(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, types)
}
