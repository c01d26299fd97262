// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"risklab/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Pricing    PricingConfig           `mapstructure:"pricing"`
	Simulation models.SimulationConfig `mapstructure:"simulation"`
	Storage    StorageConfig           `mapstructure:"storage"`
	UI         UIConfig                `mapstructure:"ui"`
}

// PricingConfig holds defaults for option valuation.
type PricingConfig struct {
	RiskFreeRate     float64 `mapstructure:"risk_free_rate"` // annualized, e.g. 0.05
	DividendYield    float64 `mapstructure:"dividend_yield"` // annualized
	ScanWidthPercent float64 `mapstructure:"scan_width_percent"`
	ScanSteps        int     `mapstructure:"scan_steps"`
}

// StorageConfig holds run-history persistence configuration.
type StorageConfig struct {
	DatabasePath   string `mapstructure:"database_path"`
	HistoryEnabled bool   `mapstructure:"history_enabled"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/risklab"
	}
	return filepath.Join(home, ".config", "risklab")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is not
// an error: a commented template is written and the defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return nil, werr
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("pricing.risk_free_rate", 0.05)
	v.SetDefault("pricing.dividend_yield", 0.0)
	v.SetDefault("pricing.scan_width_percent", 30.0)
	v.SetDefault("pricing.scan_steps", 100)

	v.SetDefault("simulation.win_rate", 55.0)
	v.SetDefault("simulation.avg_win", 150.0)
	v.SetDefault("simulation.avg_loss", 100.0)
	v.SetDefault("simulation.risk_per_trade", 2.0)
	v.SetDefault("simulation.starting_capital", 100000.0)
	v.SetDefault("simulation.num_trades", 100)
	v.SetDefault("simulation.num_simulations", 1000)
	v.SetDefault("simulation.position_sizing", string(models.FixedPercent))
	v.SetDefault("simulation.slippage_percent", 0.5)
	v.SetDefault("simulation.commission_per_trade", 0.0)

	v.SetDefault("storage.database_path", filepath.Join(configDir, "risklab.db"))
	v.SetDefault("storage.history_enabled", true)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RISKLAB_DB_PATH"); v != "" {
		cfg.Storage.DatabasePath = v
	}
	if v := os.Getenv("RISKLAB_RISK_FREE_RATE"); v != "" {
		var rate float64
		if _, err := fmt.Sscanf(v, "%f", &rate); err == nil {
			cfg.Pricing.RiskFreeRate = rate
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.ColorEnabled = false
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pricing.RiskFreeRate < -1 || c.Pricing.RiskFreeRate > 1 {
		return fmt.Errorf("risk_free_rate must be between -1 and 1")
	}
	if c.Pricing.DividendYield < 0 || c.Pricing.DividendYield > 1 {
		return fmt.Errorf("dividend_yield must be between 0 and 1")
	}
	if c.Pricing.ScanWidthPercent <= 0 || c.Pricing.ScanWidthPercent >= 100 {
		return fmt.Errorf("scan_width_percent must be in (0, 100)")
	}
	if c.Pricing.ScanSteps < 2 {
		return fmt.Errorf("scan_steps must be at least 2")
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	return nil
}
