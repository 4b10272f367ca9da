package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ClientService define o contrato que o Handler espera da camada de Serviço.
type ClientService interface {
	CreateClient(ctx context.Context, client domain.Client) (domain.Client, error)
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
	GetAllClients(ctx context.Context, filter domain.ClientFilter) (domain.PageableResponse, error)
	UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de clientes.
type Handler struct {
	Service ClientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ClientService, log logger.Logger) *Handler {
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

// CollectionHandler lida com a coleção /api/v1/clients.
// @Summary Lista e cria clientes
// @Description GET lista clientes paginados; POST cria um novo cliente.
// @Tags clients
// @Accept json
// @Produce json
// @Param page query int false "Página (base zero)"
// @Param size query int false "Tamanho da página"
// @Param name query string false "Filtro por nome"
// @Param email query string false "Filtro por email"
// @Success 200 {object} domain.PageableResponse "Página de clientes"
// @Success 201 {object} domain.Client "Cliente criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /api/v1/clients [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		filter := domain.ClientFilter{
			Page:  queryInt(r, "page", 0),
			Limit: queryInt(r, "size", 10),
			Name:  r.URL.Query().Get("name"),
			Email: r.URL.Query().Get("email"),
		}
		page, err := h.Service.GetAllClients(ctx, filter)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, page, nil, http.StatusOK)

	case http.MethodPost:
		var client domain.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		created, err := h.Service.CreateClient(ctx, client)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, created, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com o item /api/v1/clients/{id}.
// @Summary Busca, atualiza e remove um cliente
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "ID do Cliente"
// @Success 200 {object} domain.Client "Cliente"
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Security ApiKeyAuth
// @Router /api/v1/clients/{id} [get]
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/clients/")

	switch r.Method {
	case http.MethodGet:
		client, err := h.Service.GetClientByID(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, client, nil, http.StatusOK)

	case http.MethodPut:
		var client domain.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		client.ID = id
		updated, err := h.Service.UpdateClient(ctx, client)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteClient(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
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
