package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"qwhomes/config"
	"qwhomes/internal/pkg/cache"
	"qwhomes/internal/pkg/database"
	"qwhomes/internal/pkg/logger"
	"qwhomes/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"qwhomes/internal/api/apartment"
	"qwhomes/internal/api/catalog"
	"qwhomes/internal/api/client"
	"qwhomes/internal/api/proposal"
	"qwhomes/internal/api/router"
	"qwhomes/internal/api/user"
	"qwhomes/internal/repository/apartmentrepo"
	"qwhomes/internal/repository/catalogrepo"
	"qwhomes/internal/repository/clientrepo"
	"qwhomes/internal/repository/proposalrepo"
	"qwhomes/internal/repository/userrepo"
	"qwhomes/internal/service/apartmentservice"
	"qwhomes/internal/service/catalogservice"
	"qwhomes/internal/service/clientservice"
	"qwhomes/internal/service/proposalservice"
	"qwhomes/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço QWHomes...")
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos mas continuamos,
		// pois as variáveis essenciais podem estar no ambiente do sistema.
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	appLog.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	clientRepo := clientrepo.NewClientRepository(db, cfg.DBTimeout, appLog)
	catalogRepo := catalogrepo.NewCatalogRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout, appLog)
	apartmentRepo := apartmentrepo.NewApartmentRepository(db, cfg.DBTimeout, appLog)
	proposalRepo := proposalrepo.NewProposalRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	userSvc := userservice.NewService(userRepo, tokenSvc)
	clientSvc := clientservice.NewService(clientRepo, appLog)
	catalogSvc := catalogservice.NewService(catalogRepo, apartmentRepo, appLog)
	apartmentSvc := apartmentservice.NewService(apartmentRepo, catalogRepo, appLog)
	proposalSvc := proposalservice.NewService(proposalRepo, clientRepo, apartmentRepo, catalogRepo, cfg.ProposalExportPath, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	handlers := router.Handlers{
		User:      user.NewHandler(userSvc, appLog),
		Client:    client.NewHandler(clientSvc, appLog),
		Catalog:   catalog.NewHandler(catalogSvc, appLog),
		Apartment: apartment.NewHandler(apartmentSvc, appLog),
		Proposal:  proposal.NewHandler(proposalSvc, appLog),
	}
	appLog.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimit{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor QWHomes ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
