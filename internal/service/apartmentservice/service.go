package apartmentservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ApartmentRepository define o contrato que o Serviço de Apartamentos
// espera da camada de Persistência: tipos e requisitos de mobiliário.
type ApartmentRepository interface {
	SaveType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error)
	FindTypeByID(ctx context.Context, id string) (domain.ApartmentType, error)
	FindAllTypes(ctx context.Context) ([]domain.ApartmentType, error)
	UpdateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error)
	DeleteType(ctx context.Context, id string) error

	SaveRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error)
	FindRequirementByID(ctx context.Context, id string) (domain.ApartmentTypeRequirement, error)
	FindRequirementsByType(ctx context.Context, apartmentTypeID string) ([]domain.ApartmentTypeRequirement, error)
	UpdateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error)
	DeleteRequirement(ctx context.Context, id string) error
}

// FamilyReader é o recorte do catálogo usado para validar as referências
// de hierarquia dos requisitos.
type FamilyReader interface {
	FindFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error)
	FindSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error)
}

// Service implementa a lógica de negócio de tipos de apartamento e seus
// requisitos de mobiliário.
type Service struct {
	repo    ApartmentRepository
	catalog FamilyReader
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Apartamentos.
func NewService(repo ApartmentRepository, catalog FamilyReader, logger logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

// CreateType cria um novo tipo de apartamento.
func (s *Service) CreateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error) {
	s.logger.Debug("Iniciando criação de tipo de apartamento no serviço.", map[string]interface{}{"name": apartmentType.Name})

	if err := validateType(apartmentType); err != nil {
		s.logger.Warn("Falha na validação do tipo de apartamento.", map[string]interface{}{"name": apartmentType.Name, "error": err.Error()})
		return domain.ApartmentType{}, err
	}

	created, err := s.repo.SaveType(ctx, apartmentType)
	if err != nil {
		s.logger.Error("Falha ao criar tipo de apartamento no repositório.", err)
		return domain.ApartmentType{}, err
	}

	s.logger.Info("Tipo de apartamento criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// GetTypeByID busca um tipo de apartamento pelo ID.
func (s *Service) GetTypeByID(ctx context.Context, id string) (domain.ApartmentType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ApartmentType{}, apperror.NewValidationError("O ID do tipo de apartamento deve ser um UUID válido.")
	}
	return s.repo.FindTypeByID(ctx, id)
}

// GetAllTypes lista todos os tipos de apartamento.
func (s *Service) GetAllTypes(ctx context.Context) ([]domain.ApartmentType, error) {
	return s.repo.FindAllTypes(ctx)
}

// UpdateType atualiza um tipo de apartamento existente.
func (s *Service) UpdateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error) {
	if _, err := uuid.Parse(apartmentType.ID); err != nil {
		return domain.ApartmentType{}, apperror.NewValidationError("O ID do tipo de apartamento deve ser um UUID válido.")
	}
	if err := validateType(apartmentType); err != nil {
		return domain.ApartmentType{}, err
	}
	return s.repo.UpdateType(ctx, apartmentType)
}

// DeleteType remove um tipo de apartamento e seus requisitos.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do tipo de apartamento deve ser um UUID válido.")
	}
	return s.repo.DeleteType(ctx, id)
}

// validateType aplica as regras de cadastro de tipo de apartamento.
func validateType(apartmentType domain.ApartmentType) error {
	if strings.TrimSpace(apartmentType.Name) == "" {
		return apperror.NewValidationError("O nome do tipo de apartamento é obrigatório.")
	}
	if apartmentType.NumberOfBedrooms < 0 {
		return apperror.NewValidationError("O número de quartos não pode ser negativo.")
	}
	if apartmentType.FloorAreaMin.IsNegative() || apartmentType.FloorAreaMax.IsNegative() {
		return apperror.NewValidationError("As áreas de piso não podem ser negativas.")
	}
	if !apartmentType.FloorAreaMax.IsZero() && apartmentType.FloorAreaMin.GreaterThan(apartmentType.FloorAreaMax) {
		return apperror.NewValidationError("A área mínima não pode exceder a área máxima.")
	}
	return nil
}

// CreateRequirement cria um requisito de mobiliário após validar as
// referências de tipo, família e subfamília.
func (s *Service) CreateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error) {
	if err := s.validateRequirement(ctx, requirement); err != nil {
		s.logger.Warn("Falha na validação do requisito.", map[string]interface{}{"apartmentTypeId": requirement.ApartmentTypeID, "error": err.Error()})
		return domain.ApartmentTypeRequirement{}, err
	}

	created, err := s.repo.SaveRequirement(ctx, requirement)
	if err != nil {
		s.logger.Error("Falha ao criar requisito no repositório.", err)
		return domain.ApartmentTypeRequirement{}, err
	}

	s.logger.Info("Requisito criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// GetRequirementByID busca um requisito pelo ID.
func (s *Service) GetRequirementByID(ctx context.Context, id string) (domain.ApartmentTypeRequirement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ApartmentTypeRequirement{}, apperror.NewValidationError("O ID do requisito deve ser um UUID válido.")
	}
	return s.repo.FindRequirementByID(ctx, id)
}

// GetRequirementsByType lista os requisitos de um tipo de apartamento.
func (s *Service) GetRequirementsByType(ctx context.Context, apartmentTypeID string) ([]domain.ApartmentTypeRequirement, error) {
	if _, err := uuid.Parse(apartmentTypeID); err != nil {
		return nil, apperror.NewValidationError("O ID do tipo de apartamento deve ser um UUID válido.")
	}
	if _, err := s.repo.FindTypeByID(ctx, apartmentTypeID); err != nil {
		return nil, err
	}
	return s.repo.FindRequirementsByType(ctx, apartmentTypeID)
}

// UpdateRequirement atualiza um requisito existente.
func (s *Service) UpdateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error) {
	if _, err := uuid.Parse(requirement.ID); err != nil {
		return domain.ApartmentTypeRequirement{}, apperror.NewValidationError("O ID do requisito deve ser um UUID válido.")
	}
	if requirement.Quantity < 1 {
		return domain.ApartmentTypeRequirement{}, apperror.NewValidationError("A quantidade do requisito deve ser no mínimo 1.")
	}
	if err := s.validateHierarchy(ctx, requirement); err != nil {
		return domain.ApartmentTypeRequirement{}, err
	}
	return s.repo.UpdateRequirement(ctx, requirement)
}

// DeleteRequirement remove um requisito pelo ID.
func (s *Service) DeleteRequirement(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do requisito deve ser um UUID válido.")
	}
	return s.repo.DeleteRequirement(ctx, id)
}

// validateRequirement valida um requisito novo por inteiro.
func (s *Service) validateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) error {
	if requirement.Quantity < 1 {
		return apperror.NewValidationError("A quantidade do requisito deve ser no mínimo 1.")
	}
	if _, err := s.repo.FindTypeByID(ctx, requirement.ApartmentTypeID); err != nil {
		return apperror.NewValidationError("O tipo de apartamento informado não existe.")
	}
	return s.validateHierarchy(ctx, requirement)
}

// validateHierarchy garante que família e subfamília existem e são
// consistentes entre si.
func (s *Service) validateHierarchy(ctx context.Context, requirement domain.ApartmentTypeRequirement) error {
	if _, err := s.catalog.FindFamilyByID(ctx, requirement.FamilyID); err != nil {
		return apperror.NewValidationError("A família informada não existe.")
	}
	subFamily, err := s.catalog.FindSubFamilyByID(ctx, requirement.SubFamilyID)
	if err != nil {
		return apperror.NewValidationError("A subfamília informada não existe.")
	}
	if subFamily.FamilyID != requirement.FamilyID {
		return apperror.NewValidationError("A subfamília informada não pertence à família do requisito.")
	}
	return nil
}
