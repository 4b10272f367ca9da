package apartmentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	"qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ApartmentRepository implementa a persistência de tipos de apartamento e
// seus requisitos de mobiliário.
type ApartmentRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewApartmentRepository cria e retorna uma nova instância do Repositório de Apartamentos.
func NewApartmentRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ApartmentRepository {
	return &ApartmentRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// SaveType insere um novo tipo de apartamento.
func (r *ApartmentRepository) SaveType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error) {
	r.logger.Debug("Iniciando SaveType no repositório.", map[string]interface{}{"name": apartmentType.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if apartmentType.ID == "" {
		apartmentType.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	apartmentType.CreatedAt = now
	apartmentType.UpdatedAt = now

	query := `
        INSERT INTO apartment_types (id, name, number_of_bedrooms, description, floor_area_min, floor_area_max, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		apartmentType.ID, apartmentType.Name, apartmentType.NumberOfBedrooms, apartmentType.Description,
		apartmentType.FloorAreaMin, apartmentType.FloorAreaMax,
		apartmentType.CreatedAt, apartmentType.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir tipo de apartamento no DB.", err)
		return domain.ApartmentType{}, errors.NewDBError("Falha ao criar tipo de apartamento", err)
	}

	r.logger.Info("Tipo de apartamento criado com sucesso.", map[string]interface{}{"id": apartmentType.ID})
	return apartmentType, nil
}

// FindTypeByID busca um tipo de apartamento pelo ID.
func (r *ApartmentRepository) FindTypeByID(ctx context.Context, id string) (domain.ApartmentType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, number_of_bedrooms, description, floor_area_min, floor_area_max, created_at, updated_at
        FROM apartment_types
        WHERE id = $1`

	var apartmentType domain.ApartmentType
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&apartmentType.ID, &apartmentType.Name, &apartmentType.NumberOfBedrooms, &apartmentType.Description,
		&apartmentType.FloorAreaMin, &apartmentType.FloorAreaMax,
		&apartmentType.CreatedAt, &apartmentType.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.ApartmentType{}, errors.NewNotFoundError(fmt.Sprintf("Tipo de apartamento com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar tipo de apartamento no DB.", err)
		return domain.ApartmentType{}, errors.NewDBError("Falha ao buscar tipo de apartamento", err)
	}

	return apartmentType, nil
}

// FindAllTypes lista todos os tipos de apartamento, ordenados por nome.
// Alimenta o primeiro dropdown da cascata do modal de propostas.
func (r *ApartmentRepository) FindAllTypes(ctx context.Context) ([]domain.ApartmentType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, number_of_bedrooms, description, floor_area_min, floor_area_max, created_at, updated_at
        FROM apartment_types
        ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar tipos de apartamento no DB.", err)
		return nil, errors.NewDBError("Falha ao listar tipos de apartamento", err)
	}
	defer rows.Close()

	var types []domain.ApartmentType
	for rows.Next() {
		var apartmentType domain.ApartmentType
		if err := rows.Scan(
			&apartmentType.ID, &apartmentType.Name, &apartmentType.NumberOfBedrooms, &apartmentType.Description,
			&apartmentType.FloorAreaMin, &apartmentType.FloorAreaMax,
			&apartmentType.CreatedAt, &apartmentType.UpdatedAt,
		); err != nil {
			return nil, errors.NewDBError("Falha ao mapear tipo de apartamento", err)
		}
		types = append(types, apartmentType)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar tipos de apartamento", err)
	}

	return types, nil
}

// UpdateType atualiza um tipo de apartamento existente.
func (r *ApartmentRepository) UpdateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	apartmentType.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE apartment_types
        SET name = $2, number_of_bedrooms = $3, description = $4,
            floor_area_min = $5, floor_area_max = $6, updated_at = $7
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		apartmentType.ID, apartmentType.Name, apartmentType.NumberOfBedrooms, apartmentType.Description,
		apartmentType.FloorAreaMin, apartmentType.FloorAreaMax, apartmentType.UpdatedAt,
	).Scan(&apartmentType.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.ApartmentType{}, errors.NewNotFoundError(fmt.Sprintf("Tipo de apartamento com ID %s não encontrado.", apartmentType.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar tipo de apartamento no DB.", err)
		return domain.ApartmentType{}, errors.NewDBError("Falha ao atualizar tipo de apartamento", err)
	}

	return apartmentType, nil
}

// DeleteType remove um tipo de apartamento. Os requisitos associados são
// removidos em cascata pela FK.
func (r *ApartmentRepository) DeleteType(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM apartment_types WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar tipo de apartamento no DB.", err)
		return errors.NewDBError("Falha ao deletar tipo de apartamento", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de tipo de apartamento", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Tipo de apartamento com ID %s não encontrado.", id))
	}

	r.logger.Info("Tipo de apartamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// SaveRequirement insere um requisito de mobiliário de um tipo de apartamento.
func (r *ApartmentRepository) SaveRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if requirement.ID == "" {
		requirement.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	requirement.CreatedAt = now
	requirement.UpdatedAt = now

	query := `
        INSERT INTO apartment_type_requirements (id, apartment_type_id, family_id, sub_family_id, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		requirement.ID, requirement.ApartmentTypeID, requirement.FamilyID, requirement.SubFamilyID,
		requirement.Quantity, requirement.CreatedAt, requirement.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir requisito no DB.", err)
		return domain.ApartmentTypeRequirement{}, errors.NewDBError("Falha ao criar requisito", err)
	}

	r.logger.Info("Requisito criado com sucesso.", map[string]interface{}{"id": requirement.ID, "apartmentTypeId": requirement.ApartmentTypeID})
	return requirement, nil
}

// FindRequirementByID busca um requisito pelo ID.
func (r *ApartmentRepository) FindRequirementByID(ctx context.Context, id string) (domain.ApartmentTypeRequirement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, apartment_type_id, family_id, sub_family_id, quantity, created_at, updated_at
        FROM apartment_type_requirements
        WHERE id = $1`

	var requirement domain.ApartmentTypeRequirement
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&requirement.ID, &requirement.ApartmentTypeID, &requirement.FamilyID, &requirement.SubFamilyID,
		&requirement.Quantity, &requirement.CreatedAt, &requirement.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.ApartmentTypeRequirement{}, errors.NewNotFoundError(fmt.Sprintf("Requisito com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar requisito no DB.", err)
		return domain.ApartmentTypeRequirement{}, errors.NewDBError("Falha ao buscar requisito", err)
	}

	return requirement, nil
}

// FindRequirementsByType lista os requisitos de um tipo de apartamento.
func (r *ApartmentRepository) FindRequirementsByType(ctx context.Context, apartmentTypeID string) ([]domain.ApartmentTypeRequirement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, apartment_type_id, family_id, sub_family_id, quantity, created_at, updated_at
        FROM apartment_type_requirements
        WHERE apartment_type_id = $1
        ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, apartmentTypeID)
	if err != nil {
		r.logger.Error("Falha ao listar requisitos no DB.", err)
		return nil, errors.NewDBError("Falha ao listar requisitos", err)
	}
	defer rows.Close()

	var requirements []domain.ApartmentTypeRequirement
	for rows.Next() {
		var requirement domain.ApartmentTypeRequirement
		if err := rows.Scan(
			&requirement.ID, &requirement.ApartmentTypeID, &requirement.FamilyID, &requirement.SubFamilyID,
			&requirement.Quantity, &requirement.CreatedAt, &requirement.UpdatedAt,
		); err != nil {
			return nil, errors.NewDBError("Falha ao mapear requisito", err)
		}
		requirements = append(requirements, requirement)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar requisitos", err)
	}

	return requirements, nil
}

// UpdateRequirement atualiza um requisito existente.
func (r *ApartmentRepository) UpdateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	requirement.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE apartment_type_requirements
        SET family_id = $2, sub_family_id = $3, quantity = $4, updated_at = $5
        WHERE id = $1
        RETURNING apartment_type_id, created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		requirement.ID, requirement.FamilyID, requirement.SubFamilyID, requirement.Quantity, requirement.UpdatedAt,
	).Scan(&requirement.ApartmentTypeID, &requirement.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.ApartmentTypeRequirement{}, errors.NewNotFoundError(fmt.Sprintf("Requisito com ID %s não encontrado.", requirement.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar requisito no DB.", err)
		return domain.ApartmentTypeRequirement{}, errors.NewDBError("Falha ao atualizar requisito", err)
	}

	return requirement, nil
}

// DeleteRequirement remove um requisito pelo ID.
func (r *ApartmentRepository) DeleteRequirement(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM apartment_type_requirements WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar requisito no DB.", err)
		return errors.NewDBError("Falha ao deletar requisito", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de requisito", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Requisito com ID %s não encontrado.", id))
	}

	return nil
}
