package draftservice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"qwhomes/internal/domain"
	"qwhomes/internal/service/draftservice"
)

// TestComputePrices_ScenarioB testa o cenário de referência: duas linhas
// com totais 180 e 50 (subtotal 230) e desconto de proposta de 10% devem
// derivar discountAmount=23 e finalPrice=207.
func TestComputePrices_ScenarioB(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromInt(100), Discount: 10}, "apt-1")
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromInt(100), Discount: 10}, "apt-1") // qty 2 -> 180
	draft.AddLine(domain.Product{ID: "p-2", Price: decimal.NewFromInt(50)}, "apt-1")                // -> 50

	breakdown := draftservice.ComputePrices(draft.Lines(), 10)

	assert.True(t, breakdown.Subtotal.Equal(decimal.NewFromInt(230)),
		"subtotal esperado 230, obtido %s", breakdown.Subtotal)
	assert.True(t, breakdown.DiscountAmount.Equal(decimal.NewFromInt(23)),
		"discountAmount esperado 23, obtido %s", breakdown.DiscountAmount)
	assert.True(t, breakdown.FinalPrice.Equal(decimal.NewFromInt(207)),
		"finalPrice esperado 207, obtido %s", breakdown.FinalPrice)
}

// TestComputePrices_ZeroDiscount testa que desconto 0 implica
// finalPrice == subtotal.
func TestComputePrices_ZeroDiscount(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromFloat(19.99)}, "apt-1")

	breakdown := draftservice.ComputePrices(draft.Lines(), 0)

	assert.True(t, breakdown.DiscountAmount.IsZero())
	assert.True(t, breakdown.FinalPrice.Equal(breakdown.Subtotal))
}

// TestComputePrices_FullDiscount testa o limite superior do desconto.
func TestComputePrices_FullDiscount(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromInt(250)}, "apt-1")

	breakdown := draftservice.ComputePrices(draft.Lines(), 100)

	assert.True(t, breakdown.FinalPrice.IsZero())
	assert.True(t, breakdown.DiscountAmount.Equal(breakdown.Subtotal))
}

// TestComputePrices_EmptyLines testa a derivação sobre um conjunto vazio.
func TestComputePrices_EmptyLines(t *testing.T) {
	breakdown := draftservice.ComputePrices(nil, 10)

	assert.True(t, breakdown.Subtotal.IsZero())
	assert.True(t, breakdown.DiscountAmount.IsZero())
	assert.True(t, breakdown.FinalPrice.IsZero())
}

// TestComputePrices_NoDrift testa a estabilidade da aritmética decimal:
// recomputar muitas vezes sobre as mesmas entradas produz sempre o mesmo
// resultado (sem deriva de ponto flutuante).
func TestComputePrices_NoDrift(t *testing.T) {
	draft := draftservice.NewDraft()
	draft.AddLine(domain.Product{ID: "p-1", Price: decimal.NewFromFloat(33.33), Discount: 7.5}, "apt-1")
	assert.NoError(t, draft.UpdateQuantity("p-1", 3))

	first := draftservice.ComputePrices(draft.Lines(), 12.5)
	for i := 0; i < 1000; i++ {
		again := draftservice.ComputePrices(draft.Lines(), 12.5)
		assert.True(t, first.FinalPrice.Equal(again.FinalPrice))
	}
}

// TestBreakdownFromRequest_RecomputesServerSide testa que o total
// persistido é derivado das linhas do payload, não copiado do cliente.
func TestBreakdownFromRequest_RecomputesServerSide(t *testing.T) {
	products := []domain.ProposalProductRequest{
		{ProductID: "p-1", Quantity: 2, Price: decimal.NewFromInt(90), TotalPrice: decimal.NewFromInt(180)},
		{ProductID: "p-2", Quantity: 1, Price: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(50)},
	}

	breakdown := draftservice.BreakdownFromRequest(products, 10)

	assert.True(t, breakdown.Subtotal.Equal(decimal.NewFromInt(230)))
	assert.True(t, breakdown.FinalPrice.Equal(decimal.NewFromInt(207)))
}
