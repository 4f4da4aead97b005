package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/readmemo/vocab-backend/internal/adapter/postgres"
	"github.com/readmemo/vocab-backend/internal/adapter/postgres/entry"
	"github.com/readmemo/vocab-backend/internal/adapter/postgres/session"
	"github.com/readmemo/vocab-backend/internal/adapter/postgres/tag"
	"github.com/readmemo/vocab-backend/internal/adapter/postgres/word"
	"github.com/readmemo/vocab-backend/internal/auth"
	"github.com/readmemo/vocab-backend/internal/config"
	"github.com/readmemo/vocab-backend/internal/service/vocabulary"
	"github.com/readmemo/vocab-backend/internal/transport/middleware"
	"github.com/readmemo/vocab-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the repositories and services, and serves HTTP until
// the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	entryRepo := entry.New(pool)
	wordRepo := word.New(pool)
	tagRepo := tag.New(pool)
	sessionRepo := session.New(pool)
	txManager := postgres.NewTxManager(pool)

	vocabSvc := vocabulary.NewService(logger, entryRepo, wordRepo, tagRepo, txManager, cfg.Vocabulary)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	authenticator := auth.NewAuthenticator(tokens, sessionRepo, cfg.Auth.SessionTTL)

	mux := http.NewServeMux()

	// Body bound leaves headroom for multipart framing around the file.
	vocabHandler := rest.NewVocabularyHandler(vocabSvc, logger, cfg.Vocabulary.ImportMaxFileSize+1<<20)
	vocabHandler.Register(mux)

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimit),
		middleware.Auth(authenticator),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Periodic session cleanup alongside the server.
	go cleanupSessions(ctx, logger, sessionRepo)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

// cleanupSessions deletes expired session rows every hour until the context
// is cancelled.
func cleanupSessions(ctx context.Context, logger *slog.Logger, sessions *session.Repo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "session cleanup", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				logger.InfoContext(ctx, "expired sessions deleted", slog.Int64("count", deleted))
			}
		}
	}
}
