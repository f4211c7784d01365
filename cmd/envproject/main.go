package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bilalsajai1/envProject-sub000/internal/app"
	"github.com/Bilalsajai1/envProject-sub000/internal/applications"
	"github.com/Bilalsajai1/envProject-sub000/internal/auth"
	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/environments"
	"github.com/Bilalsajai1/envProject-sub000/internal/envtypes"
	"github.com/Bilalsajai1/envProject-sub000/internal/menus"
	"github.com/Bilalsajai1/envProject-sub000/internal/observability"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/db"
	"github.com/Bilalsajai1/envProject-sub000/internal/profiles"
	"github.com/Bilalsajai1/envProject-sub000/internal/projects"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
	"github.com/Bilalsajai1/envProject-sub000/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "envproject_session", cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)

	authzRepo := authz.NewRepository(pool)
	loader := authz.NewLoader(authzRepo)
	editor := authz.NewEditor(authzRepo, logger)
	aggregator := authz.NewAggregator(authzRepo)

	var oidcProvider *auth.OIDC
	var verifier auth.TokenVerifier
	if cfg.OIDCEnabled() {
		oidcProvider, err = auth.NewOIDC(ctx, auth.OIDCConfig{
			IssuerURL:    cfg.OIDCIssuer,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Scopes:       cfg.OIDCScopes,
		})
		if err != nil {
			logger.Error("configure oidc", slog.Any("error", err))
			os.Exit(1)
		}
		verifier = oidcProvider
	}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, loader, aggregator, oidcProvider)
	authenticator := auth.Authenticator{Logger: logger, Loader: loader, Verifier: verifier}

	envTypesHandler := envtypes.NewHandler(logger, envtypes.NewService(envtypes.NewRepository(pool)))

	projectsRepo := projects.NewRepository(pool)
	projectsHandler := projects.NewHandler(logger, projects.NewService(projectsRepo), auditLogger)

	environmentsHandler := environments.NewHandler(logger, environments.NewService(environments.NewRepository(pool)), auditLogger)
	applicationsHandler := applications.NewHandler(logger, applications.NewService(applications.NewRepository(pool), projectsRepo), auditLogger)
	menusHandler := menus.NewHandler(logger, menus.NewService(menus.NewRepository(pool)))
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool)), auditLogger)
	profilesHandler := profiles.NewHandler(logger, profiles.NewService(profiles.NewRepository(pool)), editor, auditLogger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		Authenticator:       authenticator,
		AuthHandler:         authHandler,
		EnvTypesHandler:     envTypesHandler,
		ProjectsHandler:     projectsHandler,
		EnvironmentsHandler: environmentsHandler,
		ApplicationsHandler: applicationsHandler,
		MenusHandler:        menusHandler,
		UsersHandler:        usersHandler,
		ProfilesHandler:     profilesHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
