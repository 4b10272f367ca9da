package router

import (
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"qwhomes/internal/api/apartment"
	"qwhomes/internal/api/catalog"
	"qwhomes/internal/api/client"
	"qwhomes/internal/api/proposal"
	"qwhomes/internal/api/user"
	"qwhomes/internal/domain"
	"qwhomes/internal/pkg/cache"
	"qwhomes/internal/pkg/middleware"
)

// Handlers agrupa os handlers injetados no roteador.
type Handlers struct {
	User      *user.Handler
	Client    *client.Handler
	Catalog   *catalog.Handler
	Apartment *apartment.Handler
	Proposal  *proposal.Handler
}

// RateLimit agrupa os parâmetros do rate limiter global.
type RateLimit struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
// Todas as rotas /api/v1 exigem autenticação JWT; as escritas do
// catálogo e o fluxo de aprovação exigem o papel admin.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, limit RateLimit) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	anyRole := middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleUser)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	// protected exige apenas autenticação; restricted exige papel admin.
	protected := func(next http.HandlerFunc) http.HandlerFunc { return auth(anyRole(next)) }
	restricted := func(next http.HandlerFunc) http.HandlerFunc { return auth(adminOnly(next)) }

	// --- 1. Health Check e Documentação ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// --- 2. Autenticação ---
	mux.HandleFunc("/v1/register", h.User.RegisterUserHandler)
	mux.HandleFunc("/v1/login", h.User.LoginUserHandler)

	// --- 3. Clientes ---
	mux.HandleFunc("/api/v1/clients", protected(h.Client.CollectionHandler))
	mux.HandleFunc("/api/v1/clients/", protected(h.Client.ItemHandler))

	// --- 4. Catálogo (produtos, famílias, subfamílias) ---
	mux.HandleFunc("/api/v1/products", protected(h.Catalog.ProductCollectionHandler))
	mux.HandleFunc("/api/v1/products/", protected(h.Catalog.ProductItemHandler))
	mux.HandleFunc("/api/v1/families", protected(h.Catalog.FamilyCollectionHandler))
	mux.HandleFunc("/api/v1/families/", protected(h.Catalog.FamilyItemHandler))
	mux.HandleFunc("/api/v1/sub-families", protected(h.Catalog.SubFamilyCollectionHandler))
	mux.HandleFunc("/api/v1/sub-families/", protected(h.Catalog.SubFamilyItemHandler))

	// --- 5. Tipos de Apartamento e Requisitos ---
	mux.HandleFunc("/api/v1/apartment-types", protected(h.Apartment.TypeCollectionHandler))
	mux.HandleFunc("/api/v1/apartment-types/", protected(h.Apartment.TypeItemHandler))
	mux.HandleFunc("/api/v1/requirements", protected(h.Apartment.RequirementCollectionHandler))
	mux.HandleFunc("/api/v1/requirements/", protected(h.Apartment.RequirementItemHandler))

	// --- 6. Propostas e Painel ---
	mux.HandleFunc("/api/v1/proposals", protected(h.Proposal.CollectionHandler))
	mux.HandleFunc("/api/v1/proposals/", h.proposalItemRouter(protected, restricted))
	mux.HandleFunc("/api/v1/dashboard", protected(h.Proposal.DashboardHandler))

	// --- 7. Middlewares Globais ---
	return middleware.RateLimiter(cacheClient, limit.MaxRequests, limit.Period)(mux)
}

// proposalItemRouter aplica papéis distintos dentro do prefixo de item de
// propostas: a aprovação é restrita a administradores, o resto segue a
// autenticação padrão.
func (h Handlers) proposalItemRouter(protected, restricted func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	approveGuard := restricted(h.Proposal.ItemHandler)
	defaultGuard := protected(h.Proposal.ItemHandler)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/approve") {
			approveGuard(w, r)
			return
		}
		defaultGuard(w, r)
	}
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
