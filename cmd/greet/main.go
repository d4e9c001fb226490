package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greet-service/internal/app"
	"github.com/greet-service/internal/config"
	"github.com/greet-service/internal/database"
	"github.com/greet-service/internal/handlers"
	"github.com/greet-service/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

const shutdownTimeout = 5 * time.Second

//
// ─── ROUTER ─────────────────────────────────────────────────────────────────
//

func newRouter(a *app.App) *chi.Mux {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	// Routes
	handlers.NewUserHandler(a).Routes(r)

	return r
}

//
// ─── MAIN ───────────────────────────────────────────────────────────────────
//

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	users := database.Open(ctx, cfg.Redis, logger)
	if c, ok := users.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("Closing user store", slog.Any("error", err))
			}
		}()
	}

	a := &app.App{
		Users:   users,
		Logger:  logger,
		Version: version,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Greet service listening",
			slog.String("addr", cfg.HTTPAddr), slog.String("storage", string(users.Backend())))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down greet service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
