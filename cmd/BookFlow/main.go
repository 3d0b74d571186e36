package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/BTreeMap/BookFlow/internal/api"
	"github.com/BTreeMap/BookFlow/internal/flow"
	"github.com/BTreeMap/BookFlow/internal/lockfile"
	"github.com/BTreeMap/BookFlow/internal/messaging"
	"github.com/BTreeMap/BookFlow/internal/recognizer"
	"github.com/BTreeMap/BookFlow/internal/store"
	"github.com/BTreeMap/BookFlow/internal/twiliosms"
	"github.com/BTreeMap/BookFlow/internal/whatsapp"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for BookFlow state data
	DefaultStateDir = "/var/lib/bookflow"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "bookflow.db"
	// DefaultWhatsAppDBFileName is the default whatsmeow session database filename
	DefaultWhatsAppDBFileName = "whatsmeow.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// Hold an exclusive lock on the state directory for the process lifetime.
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	slog.Info("Bootstrapping BookFlow with configured modules")
	if err := run(flags); err != nil {
		slog.Error("BookFlow failed to run", "error", err)
		lock.Release()
		os.Exit(1)
	}
	slog.Info("BookFlow exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	WhatsAppDSN string
	StateDir    string
	APIAddr     string
	Channel     string
}

// Flags holds command line flag values
type Flags struct {
	qrOutput *string
	numeric  *bool
	stateDir *string
	dbDSN    *string
	waDSN    *string
	apiAddr  *string
	channel  *string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		WhatsAppDSN: os.Getenv("WHATSAPP_DB_DSN"),
		StateDir:    os.Getenv("BOOKFLOW_STATE_DIR"),
		APIAddr:     os.Getenv("API_ADDR"),
		Channel:     os.Getenv("BOOKFLOW_CHANNEL"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No BOOKFLOW_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	if config.WhatsAppDSN == "" {
		config.WhatsAppDSN = filepath.Join(config.StateDir, DefaultWhatsAppDBFileName)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"WHATSAPP_DB_DSN_SET", config.WhatsAppDSN != "",
		"BOOKFLOW_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr,
		"BOOKFLOW_CHANNEL", config.Channel)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		qrOutput: flag.String("qr-output", "", "path to write WhatsApp login QR code"),
		numeric:  flag.Bool("numeric-code", false, "use numeric WhatsApp login code instead of QR code"),
		stateDir: flag.String("state-dir", config.StateDir, "state directory for BookFlow data (overrides $BOOKFLOW_STATE_DIR)"),
		dbDSN:    flag.String("db-dsn", config.DatabaseURL, "database DSN for the booking store (overrides $DATABASE_URL)"),
		waDSN:    flag.String("whatsapp-db-dsn", config.WhatsAppDSN, "database DSN for the WhatsApp session store (overrides $WHATSAPP_DB_DSN)"),
		apiAddr:  flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		channel:  flag.String("channel", config.Channel, "messaging channel: twilio, whatsapp, or none (overrides $BOOKFLOW_CHANNEL)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"qrOutput", *flags.qrOutput,
		"numeric", *flags.numeric,
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"waDSN_set", *flags.waDSN != "",
		"apiAddr", *flags.apiAddr,
		"channel", *flags.channel)

	// Follow a changed state directory when the DSN was left at its default.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
	}
	if *flags.waDSN == filepath.Join(config.StateDir, DefaultWhatsAppDBFileName) && *flags.stateDir != config.StateDir {
		*flags.waDSN = filepath.Join(*flags.stateDir, DefaultWhatsAppDBFileName)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if !strings.Contains(*flags.dbDSN, "postgres://") && !strings.Contains(*flags.dbDSN, "host=") {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	return nil
}

// buildStore constructs the booking store based on the configured DSN.
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}

	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}

	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildMessagingService constructs the configured messaging channel, or nil
// when the deployment is API-only.
func buildMessagingService(flags Flags) (messaging.Service, *messaging.TwilioService, error) {
	switch strings.ToLower(*flags.channel) {
	case "twilio":
		client, err := twiliosms.NewClient()
		if err != nil {
			return nil, nil, err
		}
		svc := messaging.NewTwilioService(client)
		return svc, svc, nil

	case "whatsapp":
		waOpts := []whatsapp.Option{whatsapp.WithDBDSN(*flags.waDSN)}
		if *flags.qrOutput != "" {
			waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
		}
		if *flags.numeric {
			waOpts = append(waOpts, whatsapp.WithNumericCode())
		}
		client, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, nil, err
		}
		return messaging.NewWhatsAppService(client), nil, nil

	default:
		slog.Info("No messaging channel configured, running API-only")
		return nil, nil, nil
	}
}

// run wires the modules together and serves until interrupted.
func run(flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(flags)
	if err != nil {
		return err
	}
	defer st.Close()

	numbers, err := recognizer.NewEnglishNumbers()
	if err != nil {
		return err
	}
	dates := recognizer.NewNaturalDateTime()

	states := flow.NewStoreBasedStateManager(st)
	engine := flow.NewEngine(numbers, dates)
	coordinator := flow.NewCoordinator(engine, states)

	msgService, twilioService, err := buildMessagingService(flags)
	if err != nil {
		return err
	}
	if msgService != nil {
		if err := msgService.Start(ctx); err != nil {
			return err
		}
		defer msgService.Stop()

		handler := messaging.NewResponseHandler(coordinator, msgService)
		handler.SetRecorder(st)
		handler.Start(ctx)
	}

	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	server := api.NewServer(coordinator, states, st, twilioService, apiOpts...)

	return server.Run(ctx)
}
