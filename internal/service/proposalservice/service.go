package proposalservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
	"qwhomes/internal/service/draftservice"
)

// ProposalRepository define o contrato que o Serviço de Propostas espera
// da camada de Persistência.
type ProposalRepository interface {
	Save(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)
	FindByID(ctx context.Context, id string) (domain.Proposal, error)
	FindAll(ctx context.Context, filter domain.ProposalFilter) ([]domain.Proposal, int, error)
	Update(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (domain.ProposalDashboard, error)
}

// ClientReader é o recorte do repositório de clientes usado para validar
// a referência da proposta.
type ClientReader interface {
	FindByID(ctx context.Context, id string) (domain.Client, error)
}

// ApartmentTypeReader é o recorte do repositório de apartamentos usado
// para validar a referência da proposta.
type ApartmentTypeReader interface {
	FindTypeByID(ctx context.Context, id string) (domain.ApartmentType, error)
}

// ProductReader é o recorte do catálogo usado para validar as linhas.
type ProductReader interface {
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
}

// Service implementa a lógica de negócio de propostas comerciais: criação
// e edição a partir do payload de submissão do rascunho, fluxo de estados
// e exportação.
type Service struct {
	repo       ProposalRepository
	clients    ClientReader
	apartments ApartmentTypeReader
	products   ProductReader
	exportPath string
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Propostas.
func NewService(repo ProposalRepository, clients ClientReader, apartments ApartmentTypeReader, products ProductReader, exportPath string, logger logger.Logger) *Service {
	return &Service{
		repo:       repo,
		clients:    clients,
		apartments: apartments,
		products:   products,
		exportPath: exportPath,
		logger:     logger,
	}
}

// CreateProposal persiste uma nova proposta em estado DRAFT.
// O total enviado pelo cliente é ignorado: o preço final é sempre
// recomputado no servidor a partir das linhas do payload.
func (s *Service) CreateProposal(ctx context.Context, req domain.ProposalRequest) (domain.Proposal, error) {
	s.logger.Debug("Iniciando criação de proposta no serviço.", map[string]interface{}{"name": req.Name})

	if err := s.validateRequest(ctx, req); err != nil {
		s.logger.Warn("Falha na validação da proposta.", map[string]interface{}{"name": req.Name, "error": err.Error()})
		return domain.Proposal{}, err
	}

	proposal := s.buildProposal(req)
	proposal.Status = domain.ProposalDraft

	created, err := s.repo.Save(ctx, proposal)
	if err != nil {
		s.logger.Error("Falha ao criar proposta no repositório.", err)
		return domain.Proposal{}, err
	}

	s.logger.Info("Proposta criada com sucesso.", map[string]interface{}{"id": created.ID, "totalPrice": created.TotalPrice.String()})
	return created, nil
}

// GetProposalByID busca uma proposta completa pelo ID.
func (s *Service) GetProposalByID(ctx context.Context, id string) (domain.Proposal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Proposal{}, apperror.NewValidationError("O ID da proposta deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// GetAllProposals lista propostas paginadas, mais recentes primeiro.
func (s *Service) GetAllProposals(ctx context.Context, filter domain.ProposalFilter) (domain.PageableResponse, error) {
	proposals, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return domain.PageableResponse{}, err
	}
	if proposals == nil {
		proposals = []domain.Proposal{}
	}
	return domain.NewPageableResponse(proposals, int64(total), filter.Page, filter.Limit), nil
}

// UpdateProposal substitui o conteúdo de uma proposta ainda em rascunho.
// Propostas finalizadas ou aprovadas são imutáveis.
func (s *Service) UpdateProposal(ctx context.Context, id string, req domain.ProposalRequest) (domain.Proposal, error) {
	s.logger.Debug("Iniciando atualização de proposta no serviço.", map[string]interface{}{"id": id})

	existing, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if existing.Status != domain.ProposalDraft {
		return domain.Proposal{}, apperror.NewConflictError(
			fmt.Sprintf("Proposta em estado %s não pode ser editada; somente rascunhos.", existing.Status))
	}

	if err := s.validateRequest(ctx, req); err != nil {
		return domain.Proposal{}, err
	}

	proposal := s.buildProposal(req)
	proposal.ID = existing.ID
	proposal.Status = existing.Status

	updated, err := s.repo.Update(ctx, proposal)
	if err != nil {
		s.logger.Error("Falha ao atualizar proposta no repositório.", err)
		return domain.Proposal{}, err
	}

	s.logger.Info("Proposta atualizada com sucesso.", map[string]interface{}{"id": updated.ID, "totalPrice": updated.TotalPrice.String()})
	return updated, nil
}

// DeleteProposal remove uma proposta ainda em rascunho.
func (s *Service) DeleteProposal(ctx context.Context, id string) error {
	existing, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != domain.ProposalDraft {
		return apperror.NewConflictError(
			fmt.Sprintf("Proposta em estado %s não pode ser removida; somente rascunhos.", existing.Status))
	}
	return s.repo.Delete(ctx, id)
}

// FinalizeProposal move a proposta de DRAFT para FINALIZED.
func (s *Service) FinalizeProposal(ctx context.Context, id string) (domain.Proposal, error) {
	return s.transition(ctx, id, domain.ProposalFinalized)
}

// ApproveProposal move a proposta de FINALIZED para APPROVED.
func (s *Service) ApproveProposal(ctx context.Context, id string) (domain.Proposal, error) {
	return s.transition(ctx, id, domain.ProposalApproved)
}

// transition aplica uma mudança de estado do fluxo de trabalho, rejeitando
// saltos e retrocessos.
func (s *Service) transition(ctx context.Context, id string, next domain.ProposalStatus) (domain.Proposal, error) {
	existing, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if !existing.Status.CanTransitionTo(next) {
		s.logger.Warn("Transição de estado de proposta rejeitada.", map[string]interface{}{"id": id, "from": existing.Status, "to": next})
		return domain.Proposal{}, apperror.NewConflictError(
			fmt.Sprintf("Transição de %s para %s não é permitida.", existing.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return domain.Proposal{}, err
	}

	s.logger.Info("Estado da proposta atualizado.", map[string]interface{}{"id": id, "status": next})
	existing.Status = next
	return existing, nil
}

// GetDashboard agrega as contagens de propostas por estado.
func (s *Service) GetDashboard(ctx context.Context) (domain.ProposalDashboard, error) {
	return s.repo.Dashboard(ctx)
}

// validateRequest valida o payload de submissão por inteiro: campos
// obrigatórios, desconto em faixa e todas as referências existentes.
func (s *Service) validateRequest(ctx context.Context, req domain.ProposalRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperror.NewValidationError("O nome da proposta é obrigatório.")
	}
	if req.Discount < 0 || req.Discount > 100 {
		return apperror.NewValidationError("O desconto da proposta deve estar entre 0 e 100.")
	}
	if len(req.Products) == 0 {
		return apperror.NewValidationError("A proposta deve conter ao menos um produto.")
	}
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		return apperror.NewValidationError("O cliente informado não existe.")
	}
	if _, err := s.apartments.FindTypeByID(ctx, req.ApartmentTypeID); err != nil {
		return apperror.NewValidationError("O tipo de apartamento informado não existe.")
	}

	seen := map[string]bool{}
	for _, line := range req.Products {
		if line.Quantity < 1 {
			return apperror.NewValidationError("A quantidade de cada linha deve ser no mínimo 1.")
		}
		if line.Price.IsNegative() {
			return apperror.NewValidationError("O preço de cada linha não pode ser negativo.")
		}
		if seen[line.ProductID] {
			return apperror.NewValidationError("O payload contém linhas duplicadas para o mesmo produto.")
		}
		seen[line.ProductID] = true
		if _, err := s.products.FindProductByID(ctx, line.ProductID); err != nil {
			return apperror.NewValidationError(fmt.Sprintf("O produto %s não existe no catálogo.", line.ProductID))
		}
	}
	return nil
}

// buildProposal monta a entidade persistível a partir do payload, com o
// total e os totais de linha recomputados no servidor.
func (s *Service) buildProposal(req domain.ProposalRequest) domain.Proposal {
	breakdown := draftservice.BreakdownFromRequest(req.Products, req.Discount)

	lines := make([]domain.ProposalProduct, 0, len(req.Products))
	for _, line := range req.Products {
		lines = append(lines, domain.ProposalProduct{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Price:           line.Price.Round(2),
			TotalPrice:      line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
			ProductDiscount: line.ProductDiscount,
		})
	}

	return domain.Proposal{
		Name:            req.Name,
		ApartmentTypeID: req.ApartmentTypeID,
		ClientID:        req.ClientID,
		Discount:        req.Discount,
		TotalPrice:      breakdown.FinalPrice,
		Products:        lines,
	}
}
