package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-advisor/internal/advisor"
	"trade-advisor/internal/config"
	"trade-advisor/internal/store"
	"trade-advisor/internal/strategy"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	LLMClient strategy.LLMClient
}

// Advisor builds the advisor from the app's dependencies.
func (a *App) Advisor() *advisor.Advisor {
	return advisor.New(a.Config, a.LLMClient, a.Store)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, history will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite store initialized")
	}

	// Initialize LLM client if OpenAI API key is available
	if cfg.HasLLM() {
		app.LLMClient = strategy.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Strategy.Model)
		logger.Debug().Str("model", cfg.Strategy.Model).Msg("OpenAI LLM client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Trade Advisor - multi-factor stock analysis CLI",
		Long: `Trade Advisor scores stocks across technical, fundamental, sentiment,
and pattern factors, classifies the market regime, and proposes a
regime-adjusted trading strategy.

Use 'advisor help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-advisor)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newRegimeCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trade Advisor v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}
