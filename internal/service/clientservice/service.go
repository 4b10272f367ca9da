package clientservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ClientRepository define o contrato que o Serviço de Clientes espera da camada de Persistência.
type ClientRepository interface {
	Save(ctx context.Context, client domain.Client) (domain.Client, error)
	FindByID(ctx context.Context, id string) (domain.Client, error)
	FindAll(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, int, error)
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio de clientes.
type Service struct {
	repo   ClientRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo ClientRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateClient cria um novo cliente após validações de negócio.
func (s *Service) CreateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	s.logger.Debug("Iniciando criação de cliente no serviço.", map[string]interface{}{"name": client.Name})

	if err := validateClient(client); err != nil {
		s.logger.Warn("Falha na validação do cliente.", map[string]interface{}{"name": client.Name, "error": err.Error()})
		return domain.Client{}, err
	}

	created, err := s.repo.Save(ctx, client)
	if err != nil {
		s.logger.Error("Falha ao criar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// GetClientByID busca um cliente pelo ID.
func (s *Service) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Client{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// GetAllClients lista clientes paginados no envelope da API.
func (s *Service) GetAllClients(ctx context.Context, filter domain.ClientFilter) (domain.PageableResponse, error) {
	clients, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return domain.PageableResponse{}, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return domain.NewPageableResponse(clients, int64(total), filter.Page, filter.Limit), nil
}

// UpdateClient atualiza os dados cadastrais de um cliente.
func (s *Service) UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	if _, err := uuid.Parse(client.ID); err != nil {
		return domain.Client{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	if err := validateClient(client); err != nil {
		return domain.Client{}, err
	}

	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteClient remove um cliente pelo ID.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	return s.repo.Delete(ctx, id)
}

// validateClient aplica as regras mínimas de cadastro: nome obrigatório e
// email primário com formato plausível.
func validateClient(client domain.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return apperror.NewValidationError("O nome do cliente é obrigatório.")
	}
	if client.Email != "" && !strings.Contains(client.Email, "@") {
		return apperror.NewValidationError("O email do cliente é inválido.")
	}
	return nil
}
