package catalogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// CatalogRepository define o contrato que o Serviço de Catálogo espera da
// camada de Persistência: produtos mais a hierarquia família/subfamília.
type CatalogRepository interface {
	SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
	FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	FindProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	SaveFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error)
	FindFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error)
	FindAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error)
	UpdateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error)
	DeleteFamily(ctx context.Context, id string) error

	SaveSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error)
	FindSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error)
	FindSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error)
	UpdateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error)
	DeleteSubFamily(ctx context.Context, id string) error
}

// ApartmentTypeLister é o recorte do repositório de apartamentos que o
// catálogo precisa para alimentar a cascata de seleção de produtos.
type ApartmentTypeLister interface {
	FindAllTypes(ctx context.Context) ([]domain.ApartmentType, error)
}

// Service implementa a lógica de negócio do catálogo. Também satisfaz a
// interface de consulta usada pela sessão de seleção de produtos das
// propostas (draftservice.CatalogLookup).
type Service struct {
	repo       CatalogRepository
	apartments ApartmentTypeLister
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(repo CatalogRepository, apartments ApartmentTypeLister, logger logger.Logger) *Service {
	return &Service{repo: repo, apartments: apartments, logger: logger}
}

// CreateProduct cria um novo produto após validações de negócio.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto no serviço.", map[string]interface{}{"sku": product.SKU})

	if err := s.validateProduct(ctx, product); err != nil {
		s.logger.Warn("Falha na validação do produto.", map[string]interface{}{"sku": product.SKU, "error": err.Error()})
		return domain.Product{}, err
	}

	created, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao criar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": created.ID, "sku": created.SKU})
	return created, nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return s.repo.FindProductByID(ctx, id)
}

// GetAllProducts lista produtos paginados no envelope da API.
func (s *Service) GetAllProducts(ctx context.Context, filter domain.ProductFilter) (domain.PageableResponse, error) {
	products, total, err := s.repo.FindAllProducts(ctx, filter)
	if err != nil {
		return domain.PageableResponse{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return domain.NewPageableResponse(products, int64(total), filter.Page, filter.Limit), nil
}

// UpdateProduct atualiza um produto existente.
func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if _, err := uuid.Parse(product.ID); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if err := s.validateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteProduct remove um produto do catálogo.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return s.repo.DeleteProduct(ctx, id)
}

// validateProduct aplica as regras de cadastro de produto: campos
// obrigatórios, preço e desconto em faixa, e hierarquia existente.
func (s *Service) validateProduct(ctx context.Context, product domain.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if strings.TrimSpace(product.SKU) == "" {
		return apperror.NewValidationError("O SKU do produto é obrigatório.")
	}
	if product.Price.IsNegative() {
		return apperror.NewValidationError("O preço do produto não pode ser negativo.")
	}
	if product.Discount < 0 || product.Discount > 100 {
		return apperror.NewValidationError("O desconto do fornecedor deve estar entre 0 e 100.")
	}

	// A hierarquia referenciada precisa existir e ser consistente.
	if _, err := s.repo.FindFamilyByID(ctx, product.FamilyID); err != nil {
		return apperror.NewValidationError("A família informada não existe.")
	}
	subFamily, err := s.repo.FindSubFamilyByID(ctx, product.SubFamilyID)
	if err != nil {
		return apperror.NewValidationError("A subfamília informada não existe.")
	}
	if subFamily.FamilyID != product.FamilyID {
		return apperror.NewValidationError("A subfamília informada não pertence à família do produto.")
	}
	return nil
}

// GetAllApartmentTypes lista os tipos de apartamento para o primeiro
// dropdown da cascata de seleção.
func (s *Service) GetAllApartmentTypes(ctx context.Context) ([]domain.ApartmentType, error) {
	return s.apartments.FindAllTypes(ctx)
}

// GetAllFamilies lista as famílias do catálogo.
func (s *Service) GetAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error) {
	return s.repo.FindAllFamilies(ctx)
}

// GetSubFamiliesByFamily lista as subfamílias de uma família.
func (s *Service) GetSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error) {
	if _, err := uuid.Parse(familyID); err != nil {
		return nil, apperror.NewValidationError("O ID da família deve ser um UUID válido.")
	}
	return s.repo.FindSubFamiliesByFamily(ctx, familyID)
}

// GetProductsBySelection busca os produtos ativos de uma família ×
// subfamília. É a consulta da cascata completa do modal de propostas.
func (s *Service) GetProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error) {
	return s.repo.FindProductsBySelection(ctx, familyID, subFamilyID)
}

// CreateFamily cria uma nova família de mobiliário.
func (s *Service) CreateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	if strings.TrimSpace(family.Name) == "" {
		return domain.FurnitureFamily{}, apperror.NewValidationError("O nome da família é obrigatório.")
	}
	return s.repo.SaveFamily(ctx, family)
}

// GetFamilyByID busca uma família pelo ID.
func (s *Service) GetFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.FurnitureFamily{}, apperror.NewValidationError("O ID da família deve ser um UUID válido.")
	}
	return s.repo.FindFamilyByID(ctx, id)
}

// UpdateFamily atualiza uma família existente.
func (s *Service) UpdateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	if _, err := uuid.Parse(family.ID); err != nil {
		return domain.FurnitureFamily{}, apperror.NewValidationError("O ID da família deve ser um UUID válido.")
	}
	if strings.TrimSpace(family.Name) == "" {
		return domain.FurnitureFamily{}, apperror.NewValidationError("O nome da família é obrigatório.")
	}
	return s.repo.UpdateFamily(ctx, family)
}

// DeleteFamily remove uma família do catálogo.
func (s *Service) DeleteFamily(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da família deve ser um UUID válido.")
	}
	return s.repo.DeleteFamily(ctx, id)
}

// CreateSubFamily cria uma nova subfamília, validando a família mãe.
func (s *Service) CreateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	if strings.TrimSpace(subFamily.Name) == "" {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("O nome da subfamília é obrigatório.")
	}
	if _, err := s.repo.FindFamilyByID(ctx, subFamily.FamilyID); err != nil {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("A família informada não existe.")
	}
	return s.repo.SaveSubFamily(ctx, subFamily)
}

// GetSubFamilyByID busca uma subfamília pelo ID.
func (s *Service) GetSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("O ID da subfamília deve ser um UUID válido.")
	}
	return s.repo.FindSubFamilyByID(ctx, id)
}

// UpdateSubFamily atualiza uma subfamília existente.
func (s *Service) UpdateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	if _, err := uuid.Parse(subFamily.ID); err != nil {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("O ID da subfamília deve ser um UUID válido.")
	}
	if strings.TrimSpace(subFamily.Name) == "" {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("O nome da subfamília é obrigatório.")
	}
	if _, err := s.repo.FindFamilyByID(ctx, subFamily.FamilyID); err != nil {
		return domain.FurnitureSubFamily{}, apperror.NewValidationError("A família informada não existe.")
	}
	return s.repo.UpdateSubFamily(ctx, subFamily)
}

// DeleteSubFamily remove uma subfamília do catálogo.
func (s *Service) DeleteSubFamily(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da subfamília deve ser um UUID válido.")
	}
	return s.repo.DeleteSubFamily(ctx, id)
}
