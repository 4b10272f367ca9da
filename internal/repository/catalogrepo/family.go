package catalogrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	"qwhomes/internal/errors"
)

// Operações de persistência da hierarquia de mobiliário:
// famílias (primeiro nível) e subfamílias (segundo nível).

// SaveFamily insere uma nova família de mobiliário.
func (r *CatalogRepository) SaveFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if family.ID == "" {
		family.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	family.CreatedAt = now
	family.UpdatedAt = now

	query := `
        INSERT INTO furniture_families (id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		family.ID, family.Name, family.Description, family.CreatedAt, family.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir família no DB.", err)
		return domain.FurnitureFamily{}, errors.NewDBError("Falha ao criar família", err)
	}

	r.logger.Info("Família criada com sucesso.", map[string]interface{}{"id": family.ID, "name": family.Name})
	return family, nil
}

// FindFamilyByID busca uma família pelo ID.
func (r *CatalogRepository) FindFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, description, created_at, updated_at FROM furniture_families WHERE id = $1`

	var family domain.FurnitureFamily
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&family.ID, &family.Name, &family.Description, &family.CreatedAt, &family.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.FurnitureFamily{}, errors.NewNotFoundError(fmt.Sprintf("Família com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar família no DB.", err)
		return domain.FurnitureFamily{}, errors.NewDBError("Falha ao buscar família", err)
	}

	return family, nil
}

// FindAllFamilies lista todas as famílias, ordenadas por nome.
// A lista alimenta o primeiro dropdown da cascata do modal de propostas;
// não há paginação porque o conjunto é pequeno e estável.
func (r *CatalogRepository) FindAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, description, created_at, updated_at FROM furniture_families ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar famílias no DB.", err)
		return nil, errors.NewDBError("Falha ao listar famílias", err)
	}
	defer rows.Close()

	var families []domain.FurnitureFamily
	for rows.Next() {
		var family domain.FurnitureFamily
		if err := rows.Scan(&family.ID, &family.Name, &family.Description, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear família", err)
		}
		families = append(families, family)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar famílias", err)
	}

	return families, nil
}

// UpdateFamily atualiza uma família existente.
func (r *CatalogRepository) UpdateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	family.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE furniture_families
        SET name = $2, description = $3, updated_at = $4
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		family.ID, family.Name, family.Description, family.UpdatedAt,
	).Scan(&family.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.FurnitureFamily{}, errors.NewNotFoundError(fmt.Sprintf("Família com ID %s não encontrada.", family.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar família no DB.", err)
		return domain.FurnitureFamily{}, errors.NewDBError("Falha ao atualizar família", err)
	}

	return family, nil
}

// DeleteFamily remove uma família pelo ID. A FK das subfamílias e dos
// produtos impede a remoção de uma família ainda referenciada.
func (r *CatalogRepository) DeleteFamily(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM furniture_families WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar família no DB.", err)
		return errors.NewDBError("Falha ao deletar família", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de família", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Família com ID %s não encontrada.", id))
	}

	return nil
}

// SaveSubFamily insere uma nova subfamília, subordinada a uma família.
func (r *CatalogRepository) SaveSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if subFamily.ID == "" {
		subFamily.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	subFamily.CreatedAt = now
	subFamily.UpdatedAt = now

	query := `
        INSERT INTO furniture_sub_families (id, family_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		subFamily.ID, subFamily.FamilyID, subFamily.Name, subFamily.Description,
		subFamily.CreatedAt, subFamily.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir subfamília no DB.", err)
		return domain.FurnitureSubFamily{}, errors.NewDBError("Falha ao criar subfamília", err)
	}

	r.logger.Info("Subfamília criada com sucesso.", map[string]interface{}{"id": subFamily.ID, "familyId": subFamily.FamilyID})
	return subFamily, nil
}

// FindSubFamilyByID busca uma subfamília pelo ID.
func (r *CatalogRepository) FindSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, family_id, name, description, created_at, updated_at FROM furniture_sub_families WHERE id = $1`

	var subFamily domain.FurnitureSubFamily
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&subFamily.ID, &subFamily.FamilyID, &subFamily.Name, &subFamily.Description,
		&subFamily.CreatedAt, &subFamily.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.FurnitureSubFamily{}, errors.NewNotFoundError(fmt.Sprintf("Subfamília com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar subfamília no DB.", err)
		return domain.FurnitureSubFamily{}, errors.NewDBError("Falha ao buscar subfamília", err)
	}

	return subFamily, nil
}

// FindSubFamiliesByFamily lista as subfamílias de uma família, ordenadas
// por nome. Alimenta o segundo dropdown da cascata.
func (r *CatalogRepository) FindSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, family_id, name, description, created_at, updated_at
        FROM furniture_sub_families
        WHERE family_id = $1
        ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, familyID)
	if err != nil {
		r.logger.Error("Falha ao listar subfamílias no DB.", err)
		return nil, errors.NewDBError("Falha ao listar subfamílias", err)
	}
	defer rows.Close()

	var subFamilies []domain.FurnitureSubFamily
	for rows.Next() {
		var subFamily domain.FurnitureSubFamily
		if err := rows.Scan(
			&subFamily.ID, &subFamily.FamilyID, &subFamily.Name, &subFamily.Description,
			&subFamily.CreatedAt, &subFamily.UpdatedAt,
		); err != nil {
			return nil, errors.NewDBError("Falha ao mapear subfamília", err)
		}
		subFamilies = append(subFamilies, subFamily)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar subfamílias", err)
	}

	return subFamilies, nil
}

// UpdateSubFamily atualiza uma subfamília existente.
func (r *CatalogRepository) UpdateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	subFamily.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE furniture_sub_families
        SET family_id = $2, name = $3, description = $4, updated_at = $5
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		subFamily.ID, subFamily.FamilyID, subFamily.Name, subFamily.Description, subFamily.UpdatedAt,
	).Scan(&subFamily.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.FurnitureSubFamily{}, errors.NewNotFoundError(fmt.Sprintf("Subfamília com ID %s não encontrada.", subFamily.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar subfamília no DB.", err)
		return domain.FurnitureSubFamily{}, errors.NewDBError("Falha ao atualizar subfamília", err)
	}

	return subFamily, nil
}

// DeleteSubFamily remove uma subfamília pelo ID.
func (r *CatalogRepository) DeleteSubFamily(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM furniture_sub_families WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar subfamília no DB.", err)
		return errors.NewDBError("Falha ao deletar subfamília", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de subfamília", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Subfamília com ID %s não encontrada.", id))
	}

	return nil
}
