package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"labquote/go_backend/internal/app/config"
	apphttp "labquote/go_backend/internal/app/http"
	"labquote/go_backend/internal/app/http/handlers"
	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render/gofpdf"
	"labquote/go_backend/internal/domain/quote/render/html"
	"labquote/go_backend/internal/infra/db/postgres"
)

func NewLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

// NewHandlers wires the quotation handlers from cfg. store may be nil.
func NewHandlers(cfg config.Config, store handlers.Store) (*handlers.Handlers, error) {
	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, err
	}
	clock := quote.SystemClock{}
	return handlers.New(handlers.Deps{
		Builder:  quote.NewBuilder(cfg.QuoteDefaults(), clock),
		Store:    store,
		PDF:      gofpdf.New(cfg.FontDir),
		HTML:     html.New(),
		Clock:    clock,
		Currency: unit,
		LabName:  cfg.LabName,
	}), nil
}

func Run() {
	cfg := config.MustLoad()
	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)
	zerolog.DefaultContextLogger = &logger

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("app: stopped")
	}
}

func run(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store handlers.Store
	if cfg.DatabaseURL != "" {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()

		qs := postgres.NewQuotationStore(db)
		if err := qs.EnsureSchema(ctx); err != nil {
			return err
		}
		store = qs
		logger.Info().Msg("app: quotation storage enabled")
	} else {
		logger.Warn().Msg("app: DATABASE_URL not set, quotations are not stored")
	}

	h, err := NewHandlers(cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(cfg, h, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("app: listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("app: shutdown initiated")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("app: graceful shutdown failed")
		return srv.Close()
	}
	return nil
}
