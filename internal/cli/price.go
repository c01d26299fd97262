package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"risklab/internal/logging"
	"risklab/internal/models"
	"risklab/internal/pricing"
	"risklab/pkg/utils"
)

func newPriceCmd(app *App) *cobra.Command {
	var (
		spot     float64
		strike   float64
		days     float64
		vol      float64
		rate     float64
		dividend float64
	)

	cmd := &cobra.Command{
		Use:   "price [call|put]",
		Short: "Price a single option and show its greeks",
		Long: `Price a European option with the Black-Scholes model.

Volatility and the win rate are given as percentages, rates as decimals.

Examples:
  risklab price call --spot 100 --strike 105 --days 30 --vol 25
  risklab price put --spot 4500 --strike 4400 --days 7 --vol 18 --rate 0.04`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			optType, err := parseOptionType(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("rate") {
				rate = app.Config.Pricing.RiskFreeRate
			}
			if !cmd.Flags().Changed("dividend") {
				dividend = app.Config.Pricing.DividendYield
			}

			in := models.MarketInputs{
				Spot:          spot,
				Strike:        strike,
				TimeToExpiry:  days / 365,
				RiskFreeRate:  rate,
				DividendYield: dividend,
				Volatility:    vol / 100,
			}

			result, err := pricing.Price(in, optType)
			if err != nil {
				return err
			}
			logging.LogPricing(app.Logger, string(optType), spot, strike, result.Price)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("%s  S=%s  K=%s  %v days  vol %.1f%%",
				strings.ToUpper(string(optType)),
				utils.FormatCurrency(spot), utils.FormatCurrency(strike), days, vol)
			output.Println()

			table := NewTable(output, "Metric", "Value")
			table.AddRow("Price", utils.FormatCurrency(result.Price))
			table.AddRow("Intrinsic", utils.FormatCurrency(result.IntrinsicValue))
			table.AddRow("Time Value", utils.FormatCurrency(result.TimeValue))
			table.AddRow("Delta", fmt.Sprintf("%.4f", result.Greeks.Delta))
			table.AddRow("Gamma", fmt.Sprintf("%.4f", result.Greeks.Gamma))
			table.AddRow("Theta/day", fmt.Sprintf("%.4f", result.Greeks.Theta))
			table.AddRow("Vega/1%", fmt.Sprintf("%.4f", result.Greeks.Vega))
			table.AddRow("Rho/1%", fmt.Sprintf("%.4f", result.Greeks.Rho))
			table.Render()
			return nil
		},
	}

	cmd.Flags().Float64Var(&spot, "spot", 0, "underlying spot price")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price")
	cmd.Flags().Float64Var(&days, "days", 30, "days to expiry")
	cmd.Flags().Float64Var(&vol, "vol", 20, "implied volatility in percent")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annualized risk-free rate (default from config)")
	cmd.Flags().Float64Var(&dividend, "dividend", 0, "annualized dividend yield (default from config)")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")

	return cmd
}

func parseOptionType(s string) (models.OptionType, error) {
	switch strings.ToLower(s) {
	case "call", "c":
		return models.Call, nil
	case "put", "p":
		return models.Put, nil
	}
	return "", fmt.Errorf("unknown option type %q (want call or put)", s)
}
