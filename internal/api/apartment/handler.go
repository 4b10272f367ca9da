package apartment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"qwhomes/internal/domain"
	apperror "qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ApartmentService define o contrato que o Handler espera da camada de Serviço.
type ApartmentService interface {
	CreateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error)
	GetTypeByID(ctx context.Context, id string) (domain.ApartmentType, error)
	GetAllTypes(ctx context.Context) ([]domain.ApartmentType, error)
	UpdateType(ctx context.Context, apartmentType domain.ApartmentType) (domain.ApartmentType, error)
	DeleteType(ctx context.Context, id string) error

	CreateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error)
	GetRequirementByID(ctx context.Context, id string) (domain.ApartmentTypeRequirement, error)
	GetRequirementsByType(ctx context.Context, apartmentTypeID string) ([]domain.ApartmentTypeRequirement, error)
	UpdateRequirement(ctx context.Context, requirement domain.ApartmentTypeRequirement) (domain.ApartmentTypeRequirement, error)
	DeleteRequirement(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de tipos de apartamento.
type Handler struct {
	Service ApartmentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ApartmentService, log logger.Logger) *Handler {
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

// TypeCollectionHandler lida com a coleção /api/v1/apartment-types.
// @Summary Lista e cria tipos de apartamento
// @Tags apartment-types
// @Accept json
// @Produce json
// @Success 200 {array} domain.ApartmentType "Tipos de apartamento"
// @Success 201 {object} domain.ApartmentType "Tipo criado"
// @Security ApiKeyAuth
// @Router /api/v1/apartment-types [get]
func (h *Handler) TypeCollectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		types, err := h.Service.GetAllTypes(ctx)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		if types == nil {
			types = []domain.ApartmentType{}
		}
		h.handleServiceResponse(w, r, types, nil, http.StatusOK)

	case http.MethodPost:
		var apartmentType domain.ApartmentType
		if err := json.NewDecoder(r.Body).Decode(&apartmentType); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		created, err := h.Service.CreateType(ctx, apartmentType)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, created, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// TypeItemHandler lida com /api/v1/apartment-types/{id} e com a
// subcoleção /api/v1/apartment-types/{id}/requirements.
// @Summary Busca, atualiza e remove um tipo de apartamento
// @Tags apartment-types
// @Accept json
// @Produce json
// @Param id path string true "ID do Tipo de Apartamento"
// @Success 200 {object} domain.ApartmentType "Tipo de apartamento"
// @Failure 404 {object} domain.ErrorResponse "Tipo não encontrado"
// @Security ApiKeyAuth
// @Router /api/v1/apartment-types/{id} [get]
func (h *Handler) TypeItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/apartment-types/")

	// Subcoleção: GET /api/v1/apartment-types/{id}/requirements
	if id, ok := strings.CutSuffix(rest, "/requirements"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		requirements, err := h.Service.GetRequirementsByType(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		if requirements == nil {
			requirements = []domain.ApartmentTypeRequirement{}
		}
		h.handleServiceResponse(w, r, requirements, nil, http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		apartmentType, err := h.Service.GetTypeByID(ctx, rest)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, apartmentType, nil, http.StatusOK)

	case http.MethodPut:
		var apartmentType domain.ApartmentType
		if err := json.NewDecoder(r.Body).Decode(&apartmentType); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		apartmentType.ID = rest
		updated, err := h.Service.UpdateType(ctx, apartmentType)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteType(ctx, rest); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// RequirementCollectionHandler lida com a coleção /api/v1/requirements.
// @Summary Cria requisitos de mobiliário
// @Tags apartment-types
// @Accept json
// @Produce json
// @Success 201 {object} domain.ApartmentTypeRequirement "Requisito criado"
// @Security ApiKeyAuth
// @Router /api/v1/requirements [post]
func (h *Handler) RequirementCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var requirement domain.ApartmentTypeRequirement
	if err := json.NewDecoder(r.Body).Decode(&requirement); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreateRequirement(r.Context(), requirement)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// RequirementItemHandler lida com /api/v1/requirements/{id}.
// @Summary Busca, atualiza e remove um requisito
// @Tags apartment-types
// @Accept json
// @Produce json
// @Param id path string true "ID do Requisito"
// @Success 200 {object} domain.ApartmentTypeRequirement "Requisito"
// @Failure 404 {object} domain.ErrorResponse "Requisito não encontrado"
// @Security ApiKeyAuth
// @Router /api/v1/requirements/{id} [get]
func (h *Handler) RequirementItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/requirements/")

	switch r.Method {
	case http.MethodGet:
		requirement, err := h.Service.GetRequirementByID(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, requirement, nil, http.StatusOK)

	case http.MethodPut:
		var requirement domain.ApartmentTypeRequirement
		if err := json.NewDecoder(r.Body).Decode(&requirement); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		requirement.ID = id
		updated, err := h.Service.UpdateRequirement(ctx, requirement)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteRequirement(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
