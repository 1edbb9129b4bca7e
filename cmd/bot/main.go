// Package main is the entry point for the AmarTaka ledger bot: the Telegram
// bot and the operator dashboard share one document store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"amartaka-bot/internal/bot"
	"amartaka-bot/internal/config"
	"amartaka-bot/internal/dashboard"
	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/pkg/db"
	"amartaka-bot/internal/pkg/lock"
	"amartaka-bot/internal/service"
	"amartaka-bot/internal/store"
)

func main() {
	configDir := pflag.String("config", "config", "directory containing config.yaml")
	envFile := pflag.String("env-file", ".env", "optional dotenv file loaded before the config")
	pflag.Parse()

	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := loadEnvFile(*envFile); err != nil {
		log.Warn().Err(err).Str("path", *envFile).Msg("Failed to read env file")
	}

	// Load configuration
	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	configureLogging(&cfg.Log)

	log.Info().Str("store", cfg.Store.Driver).Msg("Configuration loaded successfully")

	if cfg.UsesDefaultCredentials() {
		log.Warn().Msg("Dashboard is using default credentials or session secret; set DASHBOARD_USERNAME, DASHBOARD_PASSWORD and DASHBOARD_SESSION_SECRET")
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the document store
	docStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer docStore.Close()

	// Initialize ledger rules
	rules, err := newLedger(&cfg.Withdraw)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure withdraw rules")
	}

	log.Info().
		Str("window", rules.Window().String()).
		Str("max_fraction", rules.MaxWithdrawFraction().String()).
		Msg("Withdraw rules configured")

	// Initialize services
	ledgerService := service.NewLedgerService(docStore, rules)

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:        cfg,
		LedgerService: ledgerService,
		UserLock:      lock.NewUserLock(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Initialize dashboard
	dash, err := dashboard.New(&cfg.Dashboard, ledgerService, telegramBot.Notifier())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create dashboard")
	}
	server := dashboard.NewHTTPServer(dashboard.HTTPServerConfig{
		Address: ":" + strconv.Itoa(cfg.Dashboard.Port),
		Handler: dash.Handler(),
	})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		telegramBot.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		if err := server.Serve(ctx); err != nil {
			log.Error().Err(err).Msg("Dashboard failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	wg.Wait()
	log.Info().Msg("Stopped gracefully")
}

// configureLogging applies the configured level and output format.
func configureLogging(cfg *config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// openStore connects the configured document backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return store.NewMemory(), nil

	case config.DriverFile:
		s, err := store.NewFile(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Store.Path).Msg("Using file store")
		return s, nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		s := store.NewPostgres(pool, cfg.Database.Document)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &closingStore{Store: s, close: func() error { pool.Close(); return nil }}, nil

	case config.DriverRedis:
		client, err := db.NewRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &closingStore{Store: store.NewRedis(client, cfg.Redis.Key), close: client.Close}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// closingStore releases the backend connection along with the store.
type closingStore struct {
	store.Store
	close func() error
}

func (s *closingStore) Close() error {
	if err := s.Store.Close(); err != nil {
		return err
	}
	return s.close()
}

// newLedger builds the ledger rules from the withdraw configuration.
func newLedger(cfg *config.WithdrawConfig) (*ledger.Ledger, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	window, err := ledger.ParseWindow(cfg.WindowStart, cfg.WindowEnd, loc)
	if err != nil {
		return nil, err
	}
	return ledger.New(ledger.Options{
		Window:              &window,
		MaxWithdrawFraction: cfg.Fraction(),
	}), nil
}

// loadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set in the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
