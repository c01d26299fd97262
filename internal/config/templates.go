package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# risklab configuration

[pricing]
# Annualized risk-free rate used when --rate is not given
risk_free_rate = 0.05
# Annualized continuous dividend yield
dividend_yield = 0.0
# Payoff scan width around spot, as a percentage
scan_width_percent = 30.0
# Number of price points in a payoff scan
scan_steps = 100

[simulation]
# Win probability per trade, percent
win_rate = 55.0
# Average winning trade, currency
avg_win = 150.0
# Average losing trade magnitude, currency
avg_loss = 100.0
# Risk per trade as a percentage of capital
risk_per_trade = 2.0
starting_capital = 100000.0
num_trades = 100
num_simulations = 1000
# One of: fixed-percent, fixed-dollar, half-kelly, anti-martingale
position_sizing = "fixed-percent"
include_slippage = false
slippage_percent = 0.5
include_commission = false
commission_per_trade = 0.0
enable_compounding = false
# Stop a path once drawdown reaches this percent; 0 disables
max_drawdown_stop = 0.0

[storage]
# SQLite database for run history
# database_path = "~/.config/risklab/risklab.db"
history_enabled = true

[ui]
color_enabled = true
date_format = "02-Jan-2006"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
