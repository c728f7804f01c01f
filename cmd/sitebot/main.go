package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/instalogic/sitebot/internal/api"
	"github.com/instalogic/sitebot/internal/flow"
	"github.com/instalogic/sitebot/internal/genai"
	"github.com/instalogic/sitebot/internal/intent"
	"github.com/instalogic/sitebot/internal/kb"
	"github.com/instalogic/sitebot/internal/notify"
	"github.com/instalogic/sitebot/internal/router"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/store"
	"github.com/instalogic/sitebot/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for sitebot state data
	DefaultStateDir = "/var/lib/sitebot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "sitebot.db"
	// DefaultKBDirName is the default knowledge base index directory
	DefaultKBDirName = "kb"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping sitebot with configured modules")
	if err := run(ctx, flags); err != nil {
		slog.Error("sitebot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("sitebot exited successfully")
}

// run wires the modules together and serves until ctx is cancelled.
func run(ctx context.Context, flags Flags) error {
	st, err := buildStore(flags)
	if err != nil {
		return err
	}
	defer st.Close()

	generator, err := genai.NewClient(buildGenAIOptions(flags)...)
	if err != nil {
		return err
	}

	retriever, err := kb.NewRetriever(ctx, buildKBOptions(flags)...)
	if err != nil {
		return err
	}

	// Escalation alerts are optional. Missing Twilio configuration degrades
	// to ticket-only escalation rather than failing startup.
	var notifier notify.Notifier
	if tw, err := notify.NewTwilioNotifier(); err != nil {
		slog.Warn("main.run: handoff notifications disabled", "error", err)
	} else {
		notifier = tw
	}

	sessions := session.NewStore()
	flows := flow.NewRegistry(
		flow.NewDemoFlow(sessions, st),
		flow.NewCareerFlow(sessions, st),
		flow.NewRFPFlow(sessions, st),
		flow.NewContactFlow(sessions, st),
	)

	chatRouter := router.New(
		intent.NewRegexClassifier(),
		sessions,
		flows,
		retriever,
		generator,
		st,
		router.WithNotifier(notifier),
	)

	srv := api.NewServer(chatRouter, st, buildAPIOptions(flags)...)
	return srv.Run(ctx)
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	APIAddr     string
	MemoryKB    bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir  *string
	dbDSN     *string
	openaiKey *string
	apiAddr   *string
	memoryKB  *bool
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
		StateDir:    os.Getenv("SITEBOT_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		APIAddr:     os.Getenv("API_ADDR"),
		MemoryKB:    util.ParseBoolEnv("SITEBOT_MEMORY_KB", false),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No SITEBOT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"SITEBOT_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:  flag.String("state-dir", config.StateDir, "state directory for sitebot data (overrides $SITEBOT_STATE_DIR)"),
		dbDSN:     flag.String("db-dsn", config.DatabaseURL, "database DSN for the lead store (overrides $DATABASE_URL)"),
		openaiKey: flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		apiAddr:   flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		memoryKB:  flag.Bool("memory-kb", config.MemoryKB, "keep the knowledge base index in memory instead of on disk (overrides $SITEBOT_MEMORY_KB)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"memoryKB", *flags.memoryKB)

	// Follow a state directory override when the DSN was derived from it
	if *flags.dbDSN == filepath.Join(DefaultStateDir, DefaultDBFileName) && *flags.stateDir != DefaultStateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "db_path", *flags.dbDSN)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if store.DetectDSNType(*flags.dbDSN) == "sqlite" {
		stateDir := filepath.Dir(*flags.dbDSN)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	if !*flags.memoryKB {
		if err := os.MkdirAll(filepath.Join(*flags.stateDir, DefaultKBDirName), 0755); err != nil {
			slog.Error("Failed to create knowledge base directory", "error", err)
			return err
		}
	}
	return nil
}

// buildStore opens the lead store matching the configured DSN.
func buildStore(flags Flags) (store.Store, error) {
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	return genaiOpts
}

// buildKBOptions constructs knowledge base configuration options
func buildKBOptions(flags Flags) []kb.Option {
	var kbOpts []kb.Option
	if !*flags.memoryKB {
		kbOpts = append(kbOpts, kb.WithPersistPath(filepath.Join(*flags.stateDir, DefaultKBDirName)))
	}
	return kbOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
