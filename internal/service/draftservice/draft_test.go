package draftservice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/service/draftservice"
)

// produtoDeCatalogo monta um produto de catálogo para os testes.
func produtoDeCatalogo(id string, price float64, discount float64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Sofá de Couro 3 Lugares",
		SKU:      "SOF-001",
		Price:    decimal.NewFromFloat(price),
		Discount: discount,
	}
}

// TestAddLine_NewProduct testa a inserção da primeira linha:
// quantidade 1, desconto do fornecedor copiado, total líquido do desconto.
func TestAddLine_NewProduct(t *testing.T) {
	draft := draftservice.NewDraft()

	draft.AddLine(produtoDeCatalogo("p-1", 100, 10), "apt-1")

	lines := draft.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 10.0, lines[0].DiscountPercent)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(90)),
		"lineTotal esperado 90, obtido %s", lines[0].LineTotal)
	assert.Equal(t, "apt-1", lines[0].ApartmentTypeID())
}

// TestAddLine_DuplicateIncrementsQuantity testa a readição idempotente:
// adicionar o mesmo productId duas vezes resulta em UMA linha com
// quantidade 2, nunca em duas linhas (Cenário A).
func TestAddLine_DuplicateIncrementsQuantity(t *testing.T) {
	draft := draftservice.NewDraft()
	produto := produtoDeCatalogo("p-1", 100, 10)

	draft.AddLine(produto, "apt-1")
	draft.AddLine(produto, "apt-1")

	lines := draft.Lines()
	assert.Len(t, lines, 1, "readição deve mesclar na linha existente")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(180)),
		"lineTotal esperado 180, obtido %s", lines[0].LineTotal)
}

// TestAddLine_DifferentApartmentContexts testa que o agregador aceita
// linhas de contextos de apartamento distintos sem reclamar — apenas o
// contexto da primeira linha é honrado na submissão.
func TestAddLine_DifferentApartmentContexts(t *testing.T) {
	draft := draftservice.NewDraft()

	draft.AddLine(produtoDeCatalogo("p-1", 100, 0), "apt-1")
	draft.AddLine(produtoDeCatalogo("p-2", 50, 0), "apt-2")

	lines := draft.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "apt-1", lines[0].ApartmentTypeID())
	assert.Equal(t, "apt-2", lines[1].ApartmentTypeID())
}

// TestUpdateQuantity_RecomputesSingleLine testa que a mudança de
// quantidade recomputa apenas o total da linha alterada.
func TestUpdateQuantity_RecomputesSingleLine(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(produtoDeCatalogo("p-1", 100, 10), "apt-1")
	draft.AddLine(produtoDeCatalogo("p-2", 50, 0), "apt-1")

	err := draft.UpdateQuantity("p-1", 5)

	assert.NoError(t, err)
	lines := draft.Lines()
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(450)),
		"lineTotal esperado 450, obtido %s", lines[0].LineTotal)
	assert.True(t, lines[1].LineTotal.Equal(decimal.NewFromInt(50)),
		"a outra linha não pode ser afetada")
}

// TestUpdateQuantity_FloorAtOne testa o piso monotônico da quantidade:
// zero e negativos nunca produzem linha com quantidade < 1.
func TestUpdateQuantity_FloorAtOne(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(produtoDeCatalogo("p-1", 100, 0), "apt-1")

	assert.NoError(t, draft.UpdateQuantity("p-1", 0))
	assert.Equal(t, 1, draft.Lines()[0].Quantity)

	assert.NoError(t, draft.UpdateQuantity("p-1", -7))
	assert.Equal(t, 1, draft.Lines()[0].Quantity)
}

// TestUpdateQuantity_UnknownProduct testa a atualização de um produto
// que não está no rascunho.
func TestUpdateQuantity_UnknownProduct(t *testing.T) {
	draft := draftservice.NewDraft()

	err := draft.UpdateQuantity("p-inexistente", 2)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// TestRemoveLine_Unconditional testa a remoção incondicional da linha.
func TestRemoveLine_Unconditional(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(produtoDeCatalogo("p-1", 100, 0), "apt-1")
	draft.AddLine(produtoDeCatalogo("p-2", 50, 0), "apt-1")

	draft.RemoveLine("p-1")

	lines := draft.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "p-2", lines[0].ProductID)

	// Remover produto ausente é um no-op.
	draft.RemoveLine("p-1")
	assert.Len(t, draft.Lines(), 1)
}

// TestSetDiscountPercent_Bounds testa a validação do desconto da
// proposta na fronteira de entrada.
func TestSetDiscountPercent_Bounds(t *testing.T) {
	draft := draftservice.NewDraft()

	assert.NoError(t, draft.SetDiscountPercent(0))
	assert.NoError(t, draft.SetDiscountPercent(100))
	assert.Error(t, draft.SetDiscountPercent(-1))
	assert.Error(t, draft.SetDiscountPercent(100.5))
	assert.Equal(t, 100.0, draft.DiscountPercent, "valor inválido não pode sobrescrever o último válido")
}

// TestHydrateDraft_ReconstructsLines testa a hidratação do modo de
// edição (Cenário D): linha persistida {quantity:3, totalPrice:270,
// productDiscount:10} reconstrói unitPrice=100, discountPercent=10 e
// lineTotal=270.
func TestHydrateDraft_ReconstructsLines(t *testing.T) {
	persisted := domain.Proposal{
		ID:              "prop-1",
		Name:            "Proposta Sunset 2BR",
		ClientID:        "cli-1",
		ApartmentTypeID: "apt-1",
		Discount:        5,
		Products: []domain.ProposalProduct{
			{
				ProductID:       "p-1",
				Name:            "Sofá de Couro 3 Lugares",
				SKU:             "SOF-001",
				Quantity:        3,
				Price:           decimal.NewFromInt(90),
				TotalPrice:      decimal.NewFromInt(270),
				ProductDiscount: 10,
			},
		},
	}

	draft, err := draftservice.HydrateDraft(persisted)

	assert.NoError(t, err)
	assert.Equal(t, 5.0, draft.DiscountPercent)
	lines := draft.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 10.0, lines[0].DiscountPercent)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(100)),
		"unitPrice esperado 100, obtido %s", lines[0].UnitPrice)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(270)),
		"lineTotal esperado 270, obtido %s", lines[0].LineTotal)
}

// TestHydrateDraft_InvalidQuantity testa que uma linha persistida
// corrompida (quantidade < 1) é rejeitada na hidratação.
func TestHydrateDraft_InvalidQuantity(t *testing.T) {
	persisted := domain.Proposal{
		ApartmentTypeID: "apt-1",
		Products: []domain.ProposalProduct{
			{ProductID: "p-1", Quantity: 0, TotalPrice: decimal.NewFromInt(100)},
		},
	}

	_, err := draftservice.HydrateDraft(persisted)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}
