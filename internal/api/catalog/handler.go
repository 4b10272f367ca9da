package catalog

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

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetAllProducts(ctx context.Context, filter domain.ProductFilter) (domain.PageableResponse, error)
	GetProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error)
	GetFamilyByID(ctx context.Context, id string) (domain.FurnitureFamily, error)
	GetAllFamilies(ctx context.Context) ([]domain.FurnitureFamily, error)
	GetSubFamiliesByFamily(ctx context.Context, familyID string) ([]domain.FurnitureSubFamily, error)
	UpdateFamily(ctx context.Context, family domain.FurnitureFamily) (domain.FurnitureFamily, error)
	DeleteFamily(ctx context.Context, id string) error

	CreateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error)
	GetSubFamilyByID(ctx context.Context, id string) (domain.FurnitureSubFamily, error)
	UpdateSubFamily(ctx context.Context, subFamily domain.FurnitureSubFamily) (domain.FurnitureSubFamily, error)
	DeleteSubFamily(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler do catálogo.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
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

// ProductCollectionHandler lida com a coleção /api/v1/products.
// @Summary Lista e cria produtos
// @Description GET lista produtos paginados com filtros; POST cria um produto.
// @Tags products
// @Accept json
// @Produce json
// @Param page query int false "Página (base zero)"
// @Param size query int false "Tamanho da página"
// @Param name query string false "Filtro por nome"
// @Param sku query string false "Filtro por SKU"
// @Param familyId query string false "Filtro por família"
// @Param subFamilyId query string false "Filtro por subfamília"
// @Success 200 {object} domain.PageableResponse "Página de produtos"
// @Success 201 {object} domain.Product "Produto criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /api/v1/products [get]
func (h *Handler) ProductCollectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		filter := domain.ProductFilter{
			Page:        queryInt(r, "page", 0),
			Limit:       queryInt(r, "size", 10),
			Name:        r.URL.Query().Get("name"),
			SKU:         r.URL.Query().Get("sku"),
			FamilyID:    r.URL.Query().Get("familyId"),
			SubFamilyID: r.URL.Query().Get("subFamilyId"),
		}
		page, err := h.Service.GetAllProducts(ctx, filter)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, page, nil, http.StatusOK)

	case http.MethodPost:
		var product domain.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		created, err := h.Service.CreateProduct(ctx, product)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, created, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ProductItemHandler lida com /api/v1/products/{id} e com a consulta de
// seleção /api/v1/products/selection.
// @Summary Busca, atualiza e remove um produto
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Product "Produto"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Security ApiKeyAuth
// @Router /api/v1/products/{id} [get]
func (h *Handler) ProductItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")

	// A rota de seleção divide o prefixo com o item; é a consulta da
	// cascata família × subfamília do modal de propostas.
	if id == "selection" {
		h.productSelection(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := h.Service.GetProductByID(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, product, nil, http.StatusOK)

	case http.MethodPut:
		var product domain.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		product.ID = id
		updated, err := h.Service.UpdateProduct(ctx, product)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteProduct(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// productSelection lida com GET /api/v1/products/selection?familyId=&subFamilyId=.
// Ambos os parâmetros são obrigatórios: a consulta só existe com a
// cascata completa.
func (h *Handler) productSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	familyID := r.URL.Query().Get("familyId")
	subFamilyID := r.URL.Query().Get("subFamilyId")
	if familyID == "" || subFamilyID == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Os parâmetros familyId e subFamilyId são obrigatórios."), http.StatusBadRequest)
		return
	}

	products, err := h.Service.GetProductsBySelection(r.Context(), familyID, subFamilyID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	h.handleServiceResponse(w, r, products, nil, http.StatusOK)
}

// FamilyCollectionHandler lida com a coleção /api/v1/families.
// @Summary Lista e cria famílias de mobiliário
// @Tags families
// @Accept json
// @Produce json
// @Success 200 {array} domain.FurnitureFamily "Famílias"
// @Success 201 {object} domain.FurnitureFamily "Família criada"
// @Security ApiKeyAuth
// @Router /api/v1/families [get]
func (h *Handler) FamilyCollectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		families, err := h.Service.GetAllFamilies(ctx)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		if families == nil {
			families = []domain.FurnitureFamily{}
		}
		h.handleServiceResponse(w, r, families, nil, http.StatusOK)

	case http.MethodPost:
		var family domain.FurnitureFamily
		if err := json.NewDecoder(r.Body).Decode(&family); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		created, err := h.Service.CreateFamily(ctx, family)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, created, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// FamilyItemHandler lida com /api/v1/families/{id} e com a subcoleção
// /api/v1/families/{id}/sub-families.
// @Summary Busca, atualiza e remove uma família
// @Tags families
// @Accept json
// @Produce json
// @Param id path string true "ID da Família"
// @Success 200 {object} domain.FurnitureFamily "Família"
// @Failure 404 {object} domain.ErrorResponse "Família não encontrada"
// @Security ApiKeyAuth
// @Router /api/v1/families/{id} [get]
func (h *Handler) FamilyItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/families/")

	// Subcoleção: GET /api/v1/families/{id}/sub-families
	if id, ok := strings.CutSuffix(rest, "/sub-families"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		subFamilies, err := h.Service.GetSubFamiliesByFamily(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		if subFamilies == nil {
			subFamilies = []domain.FurnitureSubFamily{}
		}
		h.handleServiceResponse(w, r, subFamilies, nil, http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		family, err := h.Service.GetFamilyByID(ctx, rest)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, family, nil, http.StatusOK)

	case http.MethodPut:
		var family domain.FurnitureFamily
		if err := json.NewDecoder(r.Body).Decode(&family); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		family.ID = rest
		updated, err := h.Service.UpdateFamily(ctx, family)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteFamily(ctx, rest); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// SubFamilyCollectionHandler lida com a coleção /api/v1/sub-families.
// @Summary Cria subfamílias de mobiliário
// @Tags families
// @Accept json
// @Produce json
// @Success 201 {object} domain.FurnitureSubFamily "Subfamília criada"
// @Security ApiKeyAuth
// @Router /api/v1/sub-families [post]
func (h *Handler) SubFamilyCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var subFamily domain.FurnitureSubFamily
	if err := json.NewDecoder(r.Body).Decode(&subFamily); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreateSubFamily(r.Context(), subFamily)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// SubFamilyItemHandler lida com /api/v1/sub-families/{id}.
// @Summary Busca, atualiza e remove uma subfamília
// @Tags families
// @Accept json
// @Produce json
// @Param id path string true "ID da Subfamília"
// @Success 200 {object} domain.FurnitureSubFamily "Subfamília"
// @Failure 404 {object} domain.ErrorResponse "Subfamília não encontrada"
// @Security ApiKeyAuth
// @Router /api/v1/sub-families/{id} [get]
func (h *Handler) SubFamilyItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/sub-families/")

	switch r.Method {
	case http.MethodGet:
		subFamily, err := h.Service.GetSubFamilyByID(ctx, id)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, subFamily, nil, http.StatusOK)

	case http.MethodPut:
		var subFamily domain.FurnitureSubFamily
		if err := json.NewDecoder(r.Body).Decode(&subFamily); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		subFamily.ID = id
		updated, err := h.Service.UpdateSubFamily(ctx, subFamily)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, updated, nil, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteSubFamily(ctx, id); err != nil {
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
