package draftservice

import (
	"github.com/shopspring/decimal"

	"qwhomes/internal/domain"
)

// Erros de validação da submissão. A validação falha rápido: o primeiro
// erro encontrado é retornado e nada é submetido.
var (
	// ErrNoProducts indica que o rascunho não tem nenhuma linha.
	ErrNoProducts = &SubmissionError{Code: "NO_PRODUCTS", Msg: "Pelo menos um produto é obrigatório na proposta."}

	// ErrMissingApartmentType indica que nenhum tipo de apartamento pôde
	// ser resolvido (nem pelo contexto da primeira linha, nem pela
	// proposta em edição).
	ErrMissingApartmentType = &SubmissionError{Code: "MISSING_APARTMENT_TYPE", Msg: "Não foi possível resolver o tipo de apartamento da proposta."}
)

// SubmissionError é o erro de validação do adaptador de submissão.
// Mapeia para 400 na API, como os demais erros de validação.
type SubmissionError struct {
	Code string
	Msg  string
}

func (e *SubmissionError) Error() string    { return e.Msg }
func (e *SubmissionError) Category() string { return "VALIDATION_ERROR" }
func (e *SubmissionError) HTTPStatus() int  { return 400 }
func (e *SubmissionError) Unwrap() error    { return nil }

// BuildSubmissionPayload valida o rascunho e o converte no payload de
// criação/atualização da proposta. Ordem de validação (falha rápida):
//
//  1. linhas não vazias, senão ErrNoProducts;
//  2. tipo de apartamento resolvível: prioridade para o contexto da
//     PRIMEIRA linha adicionada; fallback para o tipo da proposta em
//     edição; senão ErrMissingApartmentType.
//
// Cada linha vira {productId, quantity, price, totalPrice,
// productDiscount}, com price = unitPrice × (1 − discountPercent/100)
// arredondado para a precisão da moeda. O adaptador não faz nenhum I/O —
// o payload é entregue ao Proposal Store pelo chamador.
func BuildSubmissionPayload(draft *Draft) (domain.ProposalRequest, error) {
	if len(draft.lines) == 0 {
		return domain.ProposalRequest{}, ErrNoProducts
	}

	apartmentTypeID := draft.lines[0].apartmentTypeID
	if apartmentTypeID == "" && draft.EditingProposal != nil {
		apartmentTypeID = draft.EditingProposal.ApartmentTypeID
	}
	if apartmentTypeID == "" {
		return domain.ProposalRequest{}, ErrMissingApartmentType
	}

	products := make([]domain.ProposalProductRequest, 0, len(draft.lines))
	for _, line := range draft.lines {
		netUnit := lineTotal(line.UnitPrice, line.DiscountPercent, 1).Round(2)
		products = append(products, domain.ProposalProductRequest{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Price:           netUnit,
			TotalPrice:      netUnit.Mul(decimal.NewFromInt(int64(line.Quantity))),
			ProductDiscount: line.DiscountPercent,
		})
	}

	breakdown := ComputePrices(draft.lines, draft.DiscountPercent)

	return domain.ProposalRequest{
		Name:            draft.Name,
		ApartmentTypeID: apartmentTypeID,
		ClientID:        draft.ClientID,
		Discount:        draft.DiscountPercent,
		TotalPrice:      breakdown.FinalPrice,
		Products:        products,
	}, nil
}
