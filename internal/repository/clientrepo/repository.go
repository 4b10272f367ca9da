package clientrepo

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

// ClientRepository implementa as operações de persistência de clientes.
type ClientRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewClientRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewClientRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ClientRepository {
	return &ClientRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo cliente no banco de dados.
func (r *ClientRepository) Save(ctx context.Context, client domain.Client) (domain.Client, error) {
	r.logger.Debug("Iniciando Save de cliente no repositório.", map[string]interface{}{"name": client.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
        INSERT INTO clients (id, name, email, secondary_email, address, phone, secondary_phone, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		client.ID, client.Name, client.Email, client.SecondaryEmail,
		client.Address, client.Phone, client.SecondaryPhone, client.Status,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao criar cliente", err)
	}

	r.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": client.ID, "name": client.Name})
	return client, nil
}

// FindByID busca um cliente pelo ID.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (domain.Client, error) {
	r.logger.Debug("Iniciando FindByID de cliente no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, secondary_email, address, phone, secondary_phone, status, created_at, updated_at
        FROM clients
        WHERE id = $1`

	var client domain.Client
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&client.ID, &client.Name, &client.Email, &client.SecondaryEmail,
		&client.Address, &client.Phone, &client.SecondaryPhone, &client.Status,
		&client.CreatedAt, &client.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Cliente não encontrado.", map[string]interface{}{"id": id})
		return domain.Client{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao buscar cliente", err)
	}

	return client, nil
}

// FindAll lista clientes com paginação e filtros opcionais de nome e email.
// Retorna também o total de registros que casam com o filtro, para o
// envelope de paginação.
func (r *ClientRepository) FindAll(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, int, error) {
	r.logger.Debug("Iniciando FindAll de clientes no repositório.", map[string]interface{}{"page": filter.Page, "limit": filter.Limit})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	offset := filter.Page * filter.Limit

	// Filtros dinâmicos: os mesmos argumentos alimentam o COUNT e o SELECT.
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		where += fmt.Sprintf(" AND email ILIKE $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM clients" + where
	if err := r.DB.QueryRowContext(ctxTimeout, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar clientes no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao contar clientes", err)
	}

	args = append(args, filter.Limit, offset)
	query := `
        SELECT id, name, email, secondary_email, address, phone, secondary_phone, status, created_at, updated_at
        FROM clients` + where + fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar clientes no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID, &client.Name, &client.Email, &client.SecondaryEmail,
			&client.Address, &client.Phone, &client.SecondaryPhone, &client.Status,
			&client.CreatedAt, &client.UpdatedAt,
		); err != nil {
			r.logger.Error("Falha ao mapear cliente do DB.", err)
			return nil, 0, errors.NewDBError("Falha ao mapear cliente", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar clientes", err)
	}

	return clients, total, nil
}

// Update atualiza os dados cadastrais de um cliente existente.
func (r *ClientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	r.logger.Debug("Iniciando Update de cliente no repositório.", map[string]interface{}{"id": client.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	client.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE clients
        SET name = $2, email = $3, secondary_email = $4, address = $5,
            phone = $6, secondary_phone = $7, status = $8, updated_at = $9
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		client.ID, client.Name, client.Email, client.SecondaryEmail,
		client.Address, client.Phone, client.SecondaryPhone, client.Status,
		client.UpdatedAt,
	).Scan(&client.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.Client{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", client.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao atualizar cliente", err)
	}

	r.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": client.ID})
	return client, nil
}

// Delete remove um cliente pelo ID.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de cliente no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar cliente no DB.", err)
		return errors.NewDBError("Falha ao deletar cliente", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de cliente", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}

	r.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
