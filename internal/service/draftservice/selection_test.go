package draftservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"qwhomes/internal/domain"
	"qwhomes/internal/pkg/logger"
	"qwhomes/internal/service/draftservice"
)

// MockCatalogLookup é uma implementação mock da interface CatalogLookup.
type MockCatalogLookup struct {
	mock.Mock
}

func (m *MockCatalogLookup) GetAllApartmentTypes(ctx context.Context) ([]domain.ApartmentType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ApartmentType), args.Error(1)
}

func (m *MockCatalogLookup) GetAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FurnitureFamily), args.Error(1)
}

func (m *MockCatalogLookup) GetSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error) {
	args := m.Called(ctx, familyID)
	return args.Get(0).([]domain.FurnitureSubFamily), args.Error(1)
}

func (m *MockCatalogLookup) GetProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error) {
	args := m.Called(ctx, familyID, subFamilyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// TestSelection_CascadingReset testa o invariante de reset em cascata:
// trocar o pai limpa todas as seleções dependentes.
func TestSelection_CascadingReset(t *testing.T) {
	mockCatalog := new(MockCatalogLookup)
	sel := draftservice.NewSelection(mockCatalog, logger.NewLogger("error"))

	sel.ChooseApartmentType("apt-1")
	sel.ChooseFamily("fam-1")
	sel.ChooseSubFamily("sub-1")
	assert.Equal(t, draftservice.SubFamilyChosen, sel.State())

	// Trocar a família limpa a subfamília.
	sel.ChooseFamily("fam-2")
	assert.Equal(t, draftservice.FamilyChosen, sel.State())
	assert.Equal(t, "", sel.SubFamilyID())

	// Trocar o tipo de apartamento limpa família e subfamília.
	sel.ChooseApartmentType("apt-2")
	assert.Equal(t, draftservice.ApartmentChosen, sel.State())
	assert.Equal(t, "", sel.FamilyID())
	assert.Equal(t, "", sel.SubFamilyID())
}

// TestSelection_ChildDisabledWithoutParent testa que seleções filhas são
// ignoradas enquanto o pai não foi escolhido.
func TestSelection_ChildDisabledWithoutParent(t *testing.T) {
	mockCatalog := new(MockCatalogLookup)
	sel := draftservice.NewSelection(mockCatalog, logger.NewLogger("error"))

	sel.ChooseFamily("fam-1")
	assert.Equal(t, draftservice.NoSelection, sel.State())
	assert.Equal(t, "", sel.FamilyID())

	sel.ChooseApartmentType("apt-1")
	sel.ChooseSubFamily("sub-1")
	assert.Equal(t, draftservice.ApartmentChosen, sel.State())
	assert.Equal(t, "", sel.SubFamilyID())
}

// TestSelection_ProductsOnlyWhenSubFamilyChosen testa que a consulta de
// produtos só dispara com a cascata completa.
func TestSelection_ProductsOnlyWhenSubFamilyChosen(t *testing.T) {
	mockCatalog := new(MockCatalogLookup)
	sel := draftservice.NewSelection(mockCatalog, logger.NewLogger("error"))
	ctx := context.Background()

	sel.ChooseApartmentType("apt-1")
	sel.ChooseFamily("fam-1")
	assert.Empty(t, sel.Products(ctx))
	mockCatalog.AssertNotCalled(t, "GetProductsBySelection", mock.Anything, mock.Anything, mock.Anything)

	expected := []domain.Product{{ID: "p-1", Name: "Sofá", Price: decimal.NewFromInt(100)}}
	mockCatalog.On("GetProductsBySelection", ctx, "fam-1", "sub-1").Return(expected, nil)

	sel.ChooseSubFamily("sub-1")
	products := sel.Products(ctx)

	assert.Equal(t, expected, products)
	mockCatalog.AssertExpectations(t)
}

// TestSelection_LookupFailureDegrades testa a degradação não fatal:
// falha de consulta vira lista vazia, sem erro propagado.
func TestSelection_LookupFailureDegrades(t *testing.T) {
	mockCatalog := new(MockCatalogLookup)
	sel := draftservice.NewSelection(mockCatalog, logger.NewLogger("error"))
	ctx := context.Background()

	mockCatalog.On("GetProductsBySelection", ctx, "fam-1", "sub-1").
		Return(nil, errors.New("catálogo indisponível"))

	sel.ChooseApartmentType("apt-1")
	sel.ChooseFamily("fam-1")
	sel.ChooseSubFamily("sub-1")

	assert.Empty(t, sel.Products(ctx))
	mockCatalog.AssertExpectations(t)
}

// TestSelection_AddProductCarriesContext testa que a adição entrega ao
// agregador o tipo de apartamento do contexto de seleção atual.
func TestSelection_AddProductCarriesContext(t *testing.T) {
	mockCatalog := new(MockCatalogLookup)
	sel := draftservice.NewSelection(mockCatalog, logger.NewLogger("error"))
	draft := draftservice.NewDraft()

	sel.ChooseApartmentType("apt-1")
	ok := sel.AddProduct(draft, domain.Product{ID: "p-1", Price: decimal.NewFromInt(100)})

	assert.True(t, ok)
	lines := draft.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "apt-1", lines[0].ApartmentTypeID())
}
