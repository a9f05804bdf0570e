package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/audit"
	draftrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/draft"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/file"
	publicationrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/publication"
	skillrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/skill"
	tagrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/tag"
	versionrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/version"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	changesetsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/changeset"
	draftsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/draft"
	publicationsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/publication"
	skillsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/skill"
	tagsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/tag"
	versionsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/version"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/transport/middleware"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/transport/rest"
)

// Run is the application entry point: it loads configuration, connects to
// the database, probes the schema capabilities, wires repositories,
// services and HTTP handlers, and serves until SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logger.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// 2. Database pool.
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	// 3. Capability probe, once at startup. A database without the
	// versioning migration still serves the core skill API.
	caps, err := postgres.DetectCapabilities(ctx, pool)
	if err != nil {
		return err
	}
	if !caps.Versioning {
		logger.Warn("versioning schema not provisioned, version and publication endpoints disabled")
	}

	// 4. Transaction manager and repositories.
	txm := postgres.NewTxManager(pool)

	auditRepo := audit.New(pool)
	draftRepo := draftrepo.New(pool)
	fileRepo := file.New(pool)
	publicationRepo := publicationrepo.New(pool)
	skillRepo := skillrepo.New(pool)
	tagRepo := tagrepo.New(pool)
	versionRepo := versionrepo.New(pool)

	// 5. Services.
	draftService := draftsvc.NewService(logger, draftRepo, skillRepo, cfg.Vault)
	skillService := skillsvc.NewService(
		logger, skillRepo, tagRepo, fileRepo, versionRepo, auditRepo, txm,
		cfg.Vault, caps.Versioning,
	)
	tagService := tagsvc.NewService(logger, tagRepo, txm)
	versionService := versionsvc.NewService(
		logger, versionRepo, skillRepo, tagRepo, fileRepo, auditRepo, txm,
		cfg.Vault, caps.Versioning,
	)
	publicationService := publicationsvc.NewService(
		logger, publicationRepo, versionRepo, skillRepo, tagRepo, auditRepo, txm,
		cfg.Vault, caps.Versioning,
	)
	changesetService := changesetsvc.NewService(
		logger, skillRepo, tagRepo, fileRepo, versionRepo, auditRepo, txm,
		caps.Versioning,
	)

	// 6. Handlers and router.
	mux := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion(), caps.Versioning),
		Draft:       rest.NewDraftHandler(draftService, logger),
		Skill:       rest.NewSkillHandler(skillService, logger),
		Version:     rest.NewVersionHandler(versionService, logger),
		Publication: rest.NewPublicationHandler(publicationService, logger),
		Tag:         rest.NewTagHandler(tagService, logger),
		Changeset:   rest.NewChangesetHandler(changesetService, logger),
	})

	// 7. Middleware chain, outermost first.
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer rateLimiter.Stop()

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.RateLimit.Enabled {
		mws = append(mws, rateLimiter.Limit(cfg.RateLimit.PerMinute))
	}
	handler := middleware.Chain(mws...)(mux)

	// 8. HTTP server with graceful shutdown.
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
