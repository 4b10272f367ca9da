package draftservice

import (
	"context"

	"qwhomes/internal/domain"
	"qwhomes/internal/pkg/logger"
)

// CatalogLookup define o contrato que o painel de seleção espera do
// serviço de catálogo (somente leitura).
type CatalogLookup interface {
	GetAllApartmentTypes(ctx context.Context) ([]domain.ApartmentType, error)
	GetAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error)
	GetSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error)
	GetProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error)
}

// SelectionState é o estado explícito da cascata de seleção
// (tipo de apartamento -> família -> subfamília).
type SelectionState int

const (
	NoSelection SelectionState = iota
	ApartmentChosen
	FamilyChosen
	SubFamilyChosen
)

// Selection é a máquina de estados do painel de seleção de produtos.
// A regra "limpar os filhos quando o pai muda" é um invariante checável
// das transições, não um efeito colateral implícito: escolher um tipo de
// apartamento limpa família e subfamília; escolher uma família limpa a
// subfamília. A consulta de produtos só dispara no estado
// SubFamilyChosen.
type Selection struct {
	catalog CatalogLookup
	logger  logger.Logger

	state           SelectionState
	apartmentTypeID string
	familyID        string
	subFamilyID     string

	// adding é a trava de reentrância do caminho de adição: impede que o
	// mesmo evento de clique incremente a quantidade duas vezes enquanto
	// uma adição ainda está em andamento.
	adding bool
}

// NewSelection cria o painel de seleção no estado NoSelection.
func NewSelection(catalog CatalogLookup, log logger.Logger) *Selection {
	return &Selection{catalog: catalog, logger: log, state: NoSelection}
}

// State retorna o estado atual da cascata.
func (s *Selection) State() SelectionState { return s.state }

// ApartmentTypeID retorna o tipo de apartamento selecionado ("" se nenhum).
func (s *Selection) ApartmentTypeID() string { return s.apartmentTypeID }

// FamilyID retorna a família selecionada ("" se nenhuma).
func (s *Selection) FamilyID() string { return s.familyID }

// SubFamilyID retorna a subfamília selecionada ("" se nenhuma).
func (s *Selection) SubFamilyID() string { return s.subFamilyID }

// ChooseApartmentType seleciona o tipo de apartamento e limpa as
// seleções dependentes (reset em cascata).
func (s *Selection) ChooseApartmentType(apartmentTypeID string) {
	s.apartmentTypeID = apartmentTypeID
	s.familyID = ""
	s.subFamilyID = ""
	if apartmentTypeID == "" {
		s.state = NoSelection
		return
	}
	s.state = ApartmentChosen
}

// ChooseFamily seleciona a família. Só é habilitada depois que um tipo
// de apartamento foi escolhido; limpa a subfamília.
func (s *Selection) ChooseFamily(familyID string) {
	if s.state < ApartmentChosen {
		s.logger.Warn("Seleção de família ignorada: nenhum tipo de apartamento escolhido.", nil)
		return
	}
	s.familyID = familyID
	s.subFamilyID = ""
	if familyID == "" {
		s.state = ApartmentChosen
		return
	}
	s.state = FamilyChosen
}

// ChooseSubFamily seleciona a subfamília. Só é habilitada depois que uma
// família foi escolhida.
func (s *Selection) ChooseSubFamily(subFamilyID string) {
	if s.state < FamilyChosen {
		s.logger.Warn("Seleção de subfamília ignorada: nenhuma família escolhida.", nil)
		return
	}
	s.subFamilyID = subFamilyID
	if subFamilyID == "" {
		s.state = FamilyChosen
		return
	}
	s.state = SubFamilyChosen
}

// Products retorna os produtos que correspondem à seleção atual.
// Fora do estado SubFamilyChosen a lista é vazia e nenhuma consulta é
// feita. Falha de consulta é NÃO FATAL: degrada para lista vazia, loga o
// erro e não bloqueia o resto do formulário.
func (s *Selection) Products(ctx context.Context) []domain.Product {
	if s.state != SubFamilyChosen {
		return nil
	}

	products, err := s.catalog.GetProductsBySelection(ctx, s.familyID, s.subFamilyID)
	if err != nil {
		s.logger.Error("Falha ao consultar produtos do catálogo; exibindo lista vazia.", err)
		return nil
	}
	return products
}

// AddProduct entrega o produto escolhido ao agregador do rascunho,
// carregando o tipo de apartamento do contexto de seleção atual.
// Retorna false (sem efeito) se outra adição ainda está em andamento —
// proteção de melhor esforço contra o duplo disparo do mesmo clique.
func (s *Selection) AddProduct(draft *Draft, product domain.Product) bool {
	if s.adding {
		s.logger.Debug("Adição de produto ignorada: outra adição em andamento.", map[string]interface{}{"product_id": product.ID})
		return false
	}
	s.adding = true
	defer func() { s.adding = false }()

	draft.AddLine(product, s.apartmentTypeID)
	return true
}
