package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus é o estado do fluxo de trabalho de uma proposta.
// O ciclo de vida é monotônico: DRAFT -> FINALIZED -> APPROVED.
type ProposalStatus string

const (
	ProposalDraft     ProposalStatus = "DRAFT"
	ProposalFinalized ProposalStatus = "FINALIZED"
	ProposalApproved  ProposalStatus = "APPROVED"
)

// CanTransitionTo informa se a transição de estado é permitida.
// Não há saltos nem retrocessos; APPROVED é terminal.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	switch s {
	case ProposalDraft:
		return next == ProposalFinalized
	case ProposalFinalized:
		return next == ProposalApproved
	default:
		return false
	}
}

// Proposal é a proposta comercial persistida: um conjunto de produtos
// precificados para um cliente e um tipo de apartamento.
type Proposal struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ApartmentTypeID string `json:"apartmentTypeId"`
	ApartmentName   string `json:"apartmentName"`
	ClientID        string `json:"clientId"`
	ClientName      string `json:"clientName"`

	// TotalPrice é o preço final persistido: soma das linhas (cada uma já
	// líquida do desconto do fornecedor) menos o desconto da proposta.
	TotalPrice decimal.Decimal `json:"totalPrice"`

	// Discount é o percentual de desconto no nível da proposta (0-100).
	Discount float64 `json:"discount"`

	Status   ProposalStatus    `json:"status"`
	Products []ProposalProduct `json:"proposalProducts"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProposalProduct é uma linha persistida da proposta.
// Name e SKU são somente leitura, resolvidos por join com o catálogo.
type ProposalProduct struct {
	ID         string `json:"id"`
	ProposalID string `json:"-"`
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Quantity   int    `json:"quantity"`

	// Price é o preço unitário efetivo (já líquido do desconto do
	// fornecedor); TotalPrice = Quantity × Price.
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"totalPrice"`

	// ProductDiscount é o percentual de desconto do fornecedor aplicado
	// no momento da adição (0-100). Necessário para reconstruir a linha
	// no modo de edição.
	ProductDiscount float64 `json:"productDiscount"`
}

// ProposalRequest é o payload de criação/atualização de proposta,
// produzido pelo adaptador de submissão do rascunho.
type ProposalRequest struct {
	Name            string                   `json:"name"`
	ApartmentTypeID string                   `json:"apartmentTypeId"`
	ClientID        string                   `json:"clientId"`
	Discount        float64                  `json:"discount"`
	TotalPrice      decimal.Decimal          `json:"totalPrice"`
	Products        []ProposalProductRequest `json:"proposalProducts"`
}

// ProposalProductRequest é uma linha do payload de submissão.
type ProposalProductRequest struct {
	ProductID       string          `json:"productId"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ProductDiscount float64         `json:"productDiscount"`
}

// ProposalFilter define os parâmetros de busca e paginação de propostas.
type ProposalFilter struct {
	Page   int
	Limit  int
	Status ProposalStatus
}

// ProposalDashboard agrega contagens de propostas por estado para o
// painel inicial.
type ProposalDashboard struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Finalized int `json:"finalized"`
	Approved  int `json:"approved"`
}
