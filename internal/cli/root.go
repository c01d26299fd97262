package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"risklab/internal/config"
	"risklab/internal/logging"
	"risklab/internal/simulation"
	"risklab/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-29"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  *store.SQLiteStore
	Runner *simulation.Runner
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Runner: simulation.NewRunner(logger),
	}

	if cfg.Storage.HistoryEnabled {
		runStore, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize store, run history unavailable")
		} else {
			app.Store = runStore
			logger.Debug().Str("path", cfg.Storage.DatabasePath).Msg("SQLite store initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "risklab",
		Short: "risklab - options pricing and Monte Carlo trade simulation",
		Long: `risklab prices options, analyzes multi-leg strategies, and stress-tests
trading plans with Monte Carlo simulation.

Use 'risklab help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/risklab)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newStrategyCmd(app))
	rootCmd.AddCommand(newSimulateCmd(app))
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
				output.Printf("risklab v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Pricing Defaults")
	output.Printf("  Risk-Free Rate:  %.2f%%\n", cfg.Pricing.RiskFreeRate*100)
	output.Printf("  Dividend Yield:  %.2f%%\n", cfg.Pricing.DividendYield*100)
	output.Printf("  Scan Width:      ±%.0f%%\n", cfg.Pricing.ScanWidthPercent)
	output.Printf("  Scan Steps:      %d\n", cfg.Pricing.ScanSteps)
	output.Println()

	output.Bold("Simulation Defaults")
	output.Printf("  Win Rate:        %.1f%%\n", cfg.Simulation.WinRate)
	output.Printf("  Avg Win/Loss:    %.2f / %.2f\n", cfg.Simulation.AvgWin, cfg.Simulation.AvgLoss)
	output.Printf("  Risk Per Trade:  %.1f%%\n", cfg.Simulation.RiskPerTrade)
	output.Printf("  Capital:         %.2f\n", cfg.Simulation.StartingCapital)
	output.Printf("  Trades:          %d\n", cfg.Simulation.NumTrades)
	output.Printf("  Simulations:     %d\n", cfg.Simulation.NumSimulations)
	output.Printf("  Sizing:          %s\n", cfg.Simulation.PositionSizing)
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database:        %s\n", cfg.Storage.DatabasePath)
	output.Printf("  History:         %v\n", cfg.Storage.HistoryEnabled)
}
