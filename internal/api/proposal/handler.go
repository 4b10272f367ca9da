package proposal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ProposalService define o contrato que o Handler espera da camada de Serviço.
type ProposalService interface {
	CreateProposal(ctx context.Context, req domain.ProposalRequest) (domain.Proposal, error)
	GetProposalByID(ctx context.Context, id string) (domain.Proposal, error)
	GetAllProposals(ctx context.Context, filter domain.ProposalFilter) (domain.PageableResponse, error)
	UpdateProposal(ctx context.Context, id string, req domain.ProposalRequest) (domain.Proposal, error)
	DeleteProposal(ctx context.Context, id string) error
	FinalizeProposal(ctx context.Context, id string) (domain.Proposal, error)
	ApproveProposal(ctx context.Context, id string) (domain.Proposal, error)
	GetDashboard(ctx context.Context) (domain.ProposalDashboard, error)
	ExportProposalExcel(ctx context.Context, id string) (string, error)
}

// Handler agrupa todos os métodos de Handler de propostas.
type Handler struct {
	Service ProposalService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProposalService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// CollectionHandler lida com a coleção /api/v1/proposals.
// @Summary Lista e cria propostas
// @Description GET lista propostas paginadas, mais recentes primeiro; POST cria uma proposta em rascunho.
// @Tags proposals
// @Accept json
// @Produce json
// @Param page query int false "Página (base zero)"
// @Param size query int false "Tamanho da página"
// @Param status query string false "Filtro por estado (DRAFT, FINALIZED, APPROVED)"
// @Success 200 {object} domain.PageableResponse "Página de propostas"
// @Success 201 {object} domain.Proposal "Proposta criada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /api/v1/proposals [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		filter := domain.ProposalFilter{
			Page:   queryInt(r, "page", 0),
			Limit:  queryInt(r, "size", 10),
			Status: domain.ProposalStatus(r.URL.Query().Get("status")),
		}
		page, err := h.Service.GetAllProposals(ctx, filter)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, page, nil, http.StatusOK)

	case http.MethodPost:
		var req domain.ProposalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		created, err := h.Service.CreateProposal(ctx, req)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, created, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com /api/v1/proposals/{id} e com as ações de fluxo:
// {id}/finalize, {id}/approve e {id}/export/excel.
// @Summary Busca, atualiza, remove e transiciona uma proposta
// @Tags proposals
// @Accept json
// @Produce json
// @Param id path string true "ID da Proposta"
// @Success 200 {object} domain.Proposal "Proposta"
// @Failure 404 {object} domain.ErrorResponse "Proposta não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Transição de estado não permitida"
// @Security ApiKeyAuth
// @Router /api/v1/proposals/{id} [get]
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/proposals/")

	if id, ok := strings.CutSuffix(rest, "/finalize"); ok {
		h.transition(w, r, id, h.Service.FinalizeProposal)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/approve"); ok {
		h.transition(w, r, id, h.Service.ApproveProposal)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/export/excel"); ok {
		h.exportExcel(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		proposal, err := h.Service.GetProposalByID(ctx, rest)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, proposal, nil, http.StatusOK)

	case http.MethodPut:
		var req domain.ProposalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		updated, err := h.Service.UpdateProposal(ctx, rest, req)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteProposal(ctx, rest); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// transition aplica uma ação de fluxo de trabalho (finalize/approve) via POST.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, id string, action func(context.Context, string) (domain.Proposal, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	proposal, err := action(r.Context(), id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, proposal, nil, http.StatusOK)
}

// exportExcel gera a planilha da proposta e a devolve como download.
// @Summary Exporta uma proposta para Excel
// @Tags proposals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "ID da Proposta"
// @Success 200 {file} file "Planilha da proposta"
// @Failure 404 {object} domain.ErrorResponse "Proposta não encontrada"
// @Security ApiKeyAuth
// @Router /api/v1/proposals/{id}/export/excel [get]
func (h *Handler) exportExcel(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	path, err := h.Service.ExportProposalExcel(r.Context(), id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// DashboardHandler lida com GET /api/v1/dashboard.
// @Summary Painel de contagens de propostas por estado
// @Tags proposals
// @Produce json
// @Success 200 {object} domain.ProposalDashboard "Contagens por estado"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard [get]
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	dashboard, err := h.Service.GetDashboard(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, dashboard, nil, http.StatusOK)
}

// queryInt lê um parâmetro numérico da query string com valor padrão.
func queryInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
