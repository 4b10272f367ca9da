package draftservice

import (
	"github.com/shopspring/decimal"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
)

// ProposalLine é uma linha do rascunho de proposta em edição.
// LineTotal é sempre derivado (recomputado, nunca mutado diretamente):
// LineTotal = Quantity × UnitPrice × (1 − DiscountPercent/100).
type ProposalLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`

	// UnitPrice é o preço de catálogo, bruto (antes do desconto do
	// fornecedor).
	UnitPrice decimal.Decimal `json:"unitPrice"`

	// DiscountPercent é o desconto do fornecedor (0-100), copiado do
	// produto no momento da adição.
	DiscountPercent float64 `json:"discountPercent"`

	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`

	// apartmentTypeID é o contexto de seleção em que o produto foi
	// adicionado. Só o da primeira linha é honrado na submissão.
	apartmentTypeID string
}

// ApartmentTypeID expõe o contexto de seleção da linha (somente leitura).
func (l ProposalLine) ApartmentTypeID() string { return l.apartmentTypeID }

// recompute deriva o LineTotal a partir das entradas atuais da linha.
// O arredondamento para precisão de moeda acontece apenas na exibição e
// na submissão, não aqui.
func (l *ProposalLine) recompute() {
	l.LineTotal = lineTotal(l.UnitPrice, l.DiscountPercent, l.Quantity)
}

// lineTotal calcula quantity × unitPrice × (1 − discountPercent/100) em
// aritmética decimal.
func lineTotal(unitPrice decimal.Decimal, discountPercent float64, quantity int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(clampPercent(discountPercent)).Div(decimal.NewFromInt(100)))
	return unitPrice.Mul(factor).Mul(decimal.NewFromInt(int64(quantity)))
}

// Draft é o agregado de edição de uma proposta: o conjunto de linhas
// selecionadas mais o desconto no nível da proposta. É o único estado
// mutável da sessão de edição do modal; não é compartilhado entre
// sessões nem entre usuários.
type Draft struct {
	Name     string
	ClientID string

	// EditingProposal guarda a proposta persistida quando o rascunho foi
	// hidratado para edição; vazio no modo de criação. Usado como
	// fallback na resolução do tipo de apartamento.
	EditingProposal *domain.Proposal

	// DiscountPercent é o desconto da proposta (0-100), aplicado sobre o
	// subtotal pelo motor de preços.
	DiscountPercent float64

	lines []ProposalLine
}

// NewDraft instancia um rascunho vazio para o modo de criação.
func NewDraft() *Draft {
	return &Draft{}
}

// HydrateDraft reconstrói um rascunho a partir de uma proposta
// persistida (modo de edição). O preço unitário bruto de cada linha é
// reconstruído a partir do total persistido:
//
//	unitPrice = (totalPrice / quantity) / (1 − productDiscount/100)
//
// de forma que lineTotal recomputado == totalPrice persistido.
func HydrateDraft(proposal domain.Proposal) (*Draft, error) {
	d := &Draft{
		Name:            proposal.Name,
		ClientID:        proposal.ClientID,
		DiscountPercent: clampPercent(proposal.Discount),
		EditingProposal: &proposal,
	}

	for _, p := range proposal.Products {
		if p.Quantity < 1 {
			return nil, apperror.NewValidationError("Linha persistida com quantidade inválida não pode ser hidratada.")
		}
		// Price persistido já é líquido do desconto do fornecedor;
		// desfazemos o desconto para voltar ao preço de catálogo.
		netUnit := p.TotalPrice.Div(decimal.NewFromInt(int64(p.Quantity)))
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(clampPercent(p.ProductDiscount)).Div(decimal.NewFromInt(100)))
		if factor.IsZero() {
			// Desconto de 100%: o preço bruto é irrecuperável; mantemos o
			// líquido (zero) como unitário.
			factor = decimal.NewFromInt(1)
		}
		// Linhas hidratadas não carregam contexto de seleção; a resolução
		// do tipo de apartamento na submissão usa o fallback da proposta
		// em edição.
		line := ProposalLine{
			ProductID:       p.ProductID,
			Name:            p.Name,
			SKU:             p.SKU,
			UnitPrice:       netUnit.Div(factor),
			DiscountPercent: clampPercent(p.ProductDiscount),
			Quantity:        p.Quantity,
		}
		line.recompute()
		d.lines = append(d.lines, line)
	}

	return d, nil
}

// Lines retorna uma cópia das linhas atuais, na ordem de inserção.
func (d *Draft) Lines() []ProposalLine {
	out := make([]ProposalLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// AddLine adiciona um produto do catálogo ao rascunho.
// A chave de deduplicação é apenas o ProductID: se a linha já existe, a
// quantidade é incrementada em 1 e o total recomputado; caso contrário,
// uma nova linha é inserida com quantidade 1 e o desconto do fornecedor
// copiado do produto. O apartmentTypeID é o contexto de seleção em que o
// usuário adicionou o produto; o agregador NÃO exige que todas as linhas
// compartilhem o mesmo tipo de apartamento (só o da primeira linha é
// honrado na submissão — simplificação herdada do fluxo original).
func (d *Draft) AddLine(product domain.Product, apartmentTypeID string) {
	for i := range d.lines {
		if d.lines[i].ProductID == product.ID {
			d.lines[i].Quantity++
			d.lines[i].recompute()
			return
		}
	}

	line := ProposalLine{
		ProductID:       product.ID,
		Name:            product.Name,
		SKU:             product.SKU,
		UnitPrice:       product.Price,
		DiscountPercent: clampPercent(product.Discount),
		Quantity:        1,
		apartmentTypeID: apartmentTypeID,
	}
	line.recompute()
	d.lines = append(d.lines, line)
}

// UpdateQuantity altera a quantidade de uma linha e recomputa apenas o
// total dela. Quantidades menores que 1 são fixadas em 1 (piso
// monotônico); nenhuma outra linha é afetada.
func (d *Draft) UpdateQuantity(productID string, newQuantity int) error {
	if newQuantity < 1 {
		newQuantity = 1
	}
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines[i].Quantity = newQuantity
			d.lines[i].recompute()
			return nil
		}
	}
	return apperror.NewNotFoundError("Produto não está no rascunho da proposta.")
}

// RemoveLine remove a linha incondicionalmente. Confirmação, se houver,
// é responsabilidade da camada de UI.
func (d *Draft) RemoveLine(productID string) {
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// SetDiscountPercent valida e aplica o desconto da proposta.
// Valores fora do intervalo fechado [0, 100] são rejeitados na fronteira
// de entrada, não dentro do motor de preços.
func (d *Draft) SetDiscountPercent(percent float64) error {
	if percent < 0 || percent > 100 {
		return apperror.NewValidationError("O desconto da proposta deve estar entre 0 e 100.")
	}
	d.DiscountPercent = percent
	return nil
}

// clampPercent fixa um percentual no intervalo [0, 100].
func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
