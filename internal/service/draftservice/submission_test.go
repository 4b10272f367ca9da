package draftservice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"qwhomes/internal/domain"
	"qwhomes/internal/service/draftservice"
)

// TestBuildSubmissionPayload_EmptyLines testa o Cenário C: conjunto de
// linhas vazio sempre produz ErrNoProducts, sem tentativa de submissão.
func TestBuildSubmissionPayload_EmptyLines(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.Name = "Proposta vazia"

	_, err := draftservice.BuildSubmissionPayload(draft)

	assert.ErrorIs(t, err, draftservice.ErrNoProducts)
}

// TestBuildSubmissionPayload_MissingApartmentType testa que um conjunto
// não vazio sem tipo de apartamento resolvível produz
// ErrMissingApartmentType — nunca um payload inválido silencioso.
func TestBuildSubmissionPayload_MissingApartmentType(t *testing.T) {
	draft := draftservice.NewDraft()
	// Linha adicionada sem contexto de apartamento (seleção vazia) e sem
	// proposta em edição para fallback.
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromInt(100)}, "")

	_, err := draftservice.BuildSubmissionPayload(draft)

	assert.ErrorIs(t, err, draftservice.ErrMissingApartmentType)
}

// TestBuildSubmissionPayload_Success testa a forma do payload: cada
// linha vira {productId, quantity, price, totalPrice, productDiscount}
// com price líquido do desconto do fornecedor, e o envelope carrega o
// preço final já com o desconto da proposta.
func TestBuildSubmissionPayload_Success(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.Name = "Proposta Sunset 2BR"
	draft.ClientID = "cli-1"
	assert.NoError(t, draft.SetDiscountPercent(10))

	draft.AddLine(domain.Product{ID: "p-1", Name: "Sofá", SKU: "SOF-001", Price: decimal.NewFromInt(100), Discount: 10}, "apt-1")
	draft.AddLine(domain.Product{ID: "p-1", Name: "Sofá", SKU: "SOF-001", Price: decimal.NewFromInt(100), Discount: 10}, "apt-1")
	draft.AddLine(domain.Product{ID: "p-2", Name: "Mesa", SKU: "MES-002", Price: decimal.NewFromInt(50)}, "apt-9")

	req, err := draftservice.BuildSubmissionPayload(draft)

	assert.NoError(t, err)
	assert.Equal(t, "Proposta Sunset 2BR", req.Name)
	assert.Equal(t, "cli-1", req.ClientID)
	// Só o tipo de apartamento da PRIMEIRA linha é honrado.
	assert.Equal(t, "apt-1", req.ApartmentTypeID)
	assert.Equal(t, 10.0, req.Discount)

	assert.Len(t, req.Products, 2)
	assert.Equal(t, "p-1", req.Products[0].ProductID)
	assert.Equal(t, 2, req.Products[0].Quantity)
	assert.True(t, req.Products[0].Price.Equal(decimal.NewFromInt(90)),
		"price esperado 90 (líquido do desconto do fornecedor), obtido %s", req.Products[0].Price)
	assert.True(t, req.Products[0].TotalPrice.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 10.0, req.Products[0].ProductDiscount)

	// finalPrice = (180 + 50) − 10% = 207
	assert.True(t, req.TotalPrice.Equal(decimal.NewFromInt(207)),
		"totalPrice esperado 207, obtido %s", req.TotalPrice)
}

// TestBuildSubmissionPayload_EditModeFallback testa o fallback do modo
// de edição: sem contexto nas linhas, o tipo de apartamento da proposta
// em edição é usado.
func TestBuildSubmissionPayload_EditModeFallback(t *testing.T) {
	persisted := domain.Proposal{
		ID:              "prop-1",
		Name:            "Proposta existente",
		ClientID:        "cli-1",
		ApartmentTypeID: "apt-7",
		Products: []domain.ProposalProduct{
			{ProductID: "p-1", Quantity: 1, Price: decimal.NewFromInt(80), TotalPrice: decimal.NewFromInt(80)},
		},
	}
	draft, err := draftservice.HydrateDraft(persisted)
	assert.NoError(t, err)

	req, err := draftservice.BuildSubmissionPayload(draft)

	assert.NoError(t, err)
	assert.Equal(t, "apt-7", req.ApartmentTypeID)
}
