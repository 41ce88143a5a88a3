package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docsmith/internal/auth"
	"docsmith/internal/config"
	"docsmith/internal/handler"
	"docsmith/internal/middleware"
	"docsmith/internal/repository/memory"
	"docsmith/internal/repository/postgres"
	postgresAuthoring "docsmith/internal/repository/postgres/authoring"
	serviceAuthoring "docsmith/internal/service/authoring"
	serviceExport "docsmith/internal/service/export"
	serviceLLM "docsmith/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup storage: %v", err)
	}
	defer closeRepos()

	providers, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM provider: %v", err)
	}

	services := serviceAuthoring.SetupServices(repos, providers.Content, providers.Outlines, cfg, logger)
	exportService := serviceExport.NewExportService(repos.Projects, repos.Documents, services.Template, logger)

	handlers := &handler.Handlers{
		Project:  handler.NewProjectHandler(services.Project, logger),
		Document: handler.NewDocumentHandler(services.Document, exportService, logger),
		Section:  handler.NewSectionHandler(services.Section, services.Generation, logger),
		Template: handler.NewTemplateHandler(services.Template, logger),
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers)

	authenticate, closeAuth, err := setupAuth(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup authentication: %v", err)
	}
	defer closeAuth()

	// Order: CORS → Recovery → RequestLogger → Auth → Routes
	var h http.Handler = mux
	h = authenticate(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled: generate-all waits on one model call per section
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "ai_provider", providers.Name)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// setupRepositories returns the configured storage backend and its cleanup
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (serviceAuthoring.Repositories, func(), error) {
	if cfg.Storage == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return serviceAuthoring.Repositories{
			Projects:    memory.NewProjectRepository(store),
			Documents:   memory.NewDocumentRepository(store),
			Refinements: memory.NewRefinementRepository(store),
			Feedback:    memory.NewFeedbackRepository(store),
			Templates:   memory.NewTemplateRepository(store),
			Tx:          store.TransactionManager(),
		}, func() {}, nil
	}

	if cfg.DatabaseURL == "" {
		return serviceAuthoring.Repositories{}, nil, errors.New("DATABASE_URL is required when STORAGE=postgres")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return serviceAuthoring.Repositories{}, nil, err
	}
	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	return serviceAuthoring.Repositories{
		Projects:    postgresAuthoring.NewProjectRepository(repoConfig),
		Documents:   postgresAuthoring.NewDocumentRepository(repoConfig),
		Refinements: postgresAuthoring.NewRefinementRepository(repoConfig),
		Feedback:    postgresAuthoring.NewFeedbackRepository(repoConfig),
		Templates:   postgresAuthoring.NewTemplateRepository(repoConfig),
		Tx:          postgres.NewTransactionManager(pool, logger),
	}, pool.Close, nil
}

// setupAuth picks JWKS, shared-secret, or (dev only) a fixed user
func setupAuth(cfg *config.Config, logger *slog.Logger) (func(http.Handler) http.Handler, func(), error) {
	var verifier auth.TokenVerifier
	switch {
	case cfg.AuthJWKSURL != "":
		v, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			return nil, nil, err
		}
		verifier = v
	case cfg.AuthJWTSecret != "":
		v, err := auth.NewHMACVerifier(cfg.AuthJWTSecret, logger)
		if err != nil {
			return nil, nil, err
		}
		verifier = v
	case cfg.Environment == "dev":
		logger.Warn("DEBUG MODE: no token verifier configured, all requests run as the dev user",
			"user_id", cfg.DevUserID)
		return middleware.DevAuthMiddleware(cfg.DevUserID), func() {}, nil
	default:
		return nil, nil, errors.New("AUTH_JWKS_URL or AUTH_JWT_SECRET is required outside dev")
	}

	return middleware.AuthMiddleware(verifier, logger), func() { verifier.Close() }, nil
}
