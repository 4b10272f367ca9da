package draftservice

import (
	"github.com/shopspring/decimal"

	"qwhomes/internal/domain"
)

// PriceBreakdown é o resultado da derivação de preços do rascunho.
// Todos os valores estão arredondados para a precisão da moeda (2 casas).
type PriceBreakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
}

// ComputePrices é uma função pura: deriva subtotal, valor do desconto e
// preço final a partir das linhas e do desconto da proposta. Não há
// estado interno nem cache — o chamador invoca a cada mudança de linhas
// ou de desconto.
//
//	subtotal       = Σ lineTotal (cada linha já líquida do seu desconto)
//	discountAmount = subtotal × discountPercent / 100
//	finalPrice     = subtotal − discountAmount
//
// discountPercent é tratado como já validado em [0, 100] pela fronteira
// de entrada (Draft.SetDiscountPercent); por segurança é fixado aqui.
func ComputePrices(lines []ProposalLine, discountPercent float64) PriceBreakdown {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}

	discount := decimal.NewFromFloat(clampPercent(discountPercent))
	discountAmount := subtotal.Mul(discount).Div(decimal.NewFromInt(100))
	finalPrice := subtotal.Sub(discountAmount)

	return PriceBreakdown{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discountAmount.Round(2),
		FinalPrice:     finalPrice.Round(2),
	}
}

// BreakdownFromRequest recomputa a derivação de preços a partir das
// linhas de um payload de submissão. O Proposal Store usa isto no lado
// do servidor: o totalPrice persistido é sempre derivado das linhas e do
// desconto, nunca copiado cegamente do cliente. As linhas do payload já
// chegam líquidas do desconto do fornecedor, então cada uma entra na
// soma com DiscountPercent zero.
func BreakdownFromRequest(products []domain.ProposalProductRequest, discountPercent float64) PriceBreakdown {
	lines := make([]ProposalLine, 0, len(products))
	for _, p := range products {
		line := ProposalLine{
			ProductID: p.ProductID,
			UnitPrice: p.Price,
			Quantity:  p.Quantity,
		}
		line.recompute()
		lines = append(lines, line)
	}
	return ComputePrices(lines, discountPercent)
}
