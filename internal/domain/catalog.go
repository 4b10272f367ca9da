package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item do catálogo de mobiliário (a Entidade principal).
// Os nomes dos campos JSON seguem o contrato da API v1 (camelCase),
// consumido pelo painel administrativo.
type Product struct {
	ID          string  `json:"productId"`
	SKU         string  `json:"sku"` // Stock Keeping Unit (código único de produto)
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Height      float64 `json:"height"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`

	// Price usa decimal (ponto fixo) para evitar deriva de ponto flutuante
	// nas recomputações de preço da proposta.
	Price decimal.Decimal `json:"price"`

	// Discount é o percentual de desconto do fornecedor (0-100),
	// copiado para a linha da proposta no momento da adição.
	Discount float64 `json:"discount"`

	StockQuantity int           `json:"stockQuantity"`
	Status        ProductStatus `json:"status"`

	// Relações com a hierarquia de mobiliário (Família -> SubFamília)
	FamilyID    string `json:"familyId"`
	SubFamilyID string `json:"subFamilyId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductStatus é um tipo string para o estado do produto no catálogo.
type ProductStatus string

const (
	ProductActive       ProductStatus = "ACTIVE"
	ProductDiscontinued ProductStatus = "DISCONTINUED"
)

// FurnitureFamily representa o agrupamento de primeiro nível do catálogo
// (e.g., "Sofás").
type FurnitureFamily struct {
	ID          string    `json:"familyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FurnitureSubFamily representa o agrupamento de segundo nível,
// sempre subordinado a uma família (e.g., "Sofás de Couro").
type FurnitureSubFamily struct {
	ID          string    `json:"subFamilyId"`
	FamilyID    string    `json:"familyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter define os parâmetros de busca e paginação do catálogo.
// FamilyID e SubFamilyID juntos formam a consulta usada pelo painel de
// seleção de produtos da proposta.
type ProductFilter struct {
	Page        int
	Limit       int
	Name        string
	SKU         string
	FamilyID    string
	SubFamilyID string
	ActiveOnly  bool
}

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas.
// Isso evita a dependência direta do pacote "context" no domínio.
type Context interface{}
