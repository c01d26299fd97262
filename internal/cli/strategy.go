package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"risklab/internal/models"
	"risklab/internal/strategy"
	"risklab/pkg/utils"
)

func newStrategyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Multi-leg option strategy analysis",
	}

	cmd.AddCommand(newStrategyAnalyzeCmd(app))
	return cmd
}

func newStrategyAnalyzeCmd(app *App) *cobra.Command {
	var (
		legSpecs []string
		spot     float64
		days     float64
		vol      float64
		rate     float64
		dividend float64
		scanMin  float64
		scanMax  float64
		steps    int
		noChart  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a multi-leg strategy: greeks, payoff, breakevens",
		Long: `Analyze a strategy built from one or more legs.

Each --leg is TYPE:ACTION:STRIKE:PREMIUM:QTY, e.g. call:buy:105:2.50:1.

Examples:
  risklab strategy analyze --spot 100 --vol 25 --days 30 \
    --leg call:buy:100:5.00:1

  risklab strategy analyze --spot 100 --vol 25 --days 30 \
    --leg call:buy:100:5.00:1 --leg call:sell:110:2.00:1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			legs := make([]models.OptionLeg, 0, len(legSpecs))
			for _, spec := range legSpecs {
				leg, err := parseLeg(spec)
				if err != nil {
					return err
				}
				legs = append(legs, leg)
			}

			if !cmd.Flags().Changed("rate") {
				rate = app.Config.Pricing.RiskFreeRate
			}
			if !cmd.Flags().Changed("dividend") {
				dividend = app.Config.Pricing.DividendYield
			}

			in := models.MarketInputs{
				Spot:          spot,
				TimeToExpiry:  days / 365,
				RiskFreeRate:  rate,
				DividendYield: dividend,
				Volatility:    vol / 100,
			}

			scan := strategy.DefaultScanRange(spot)
			if cmd.Flags().Changed("scan-min") || cmd.Flags().Changed("scan-max") {
				scan.Min = scanMin
				scan.Max = scanMax
			}
			if cmd.Flags().Changed("steps") {
				scan.Steps = steps
			}

			analysis, err := strategy.Analyze(legs, in, scan)
			if err != nil {
				return err
			}
			app.Logger.Debug().Int("legs", len(legs)).Float64("spot", spot).Msg("strategy analyzed")

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			renderAnalysis(output, legs, analysis, noChart)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&legSpecs, "leg", nil, "leg as TYPE:ACTION:STRIKE:PREMIUM:QTY (repeatable)")
	cmd.Flags().Float64Var(&spot, "spot", 0, "underlying spot price")
	cmd.Flags().Float64Var(&days, "days", 30, "days to expiry")
	cmd.Flags().Float64Var(&vol, "vol", 20, "implied volatility in percent")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annualized risk-free rate (default from config)")
	cmd.Flags().Float64Var(&dividend, "dividend", 0, "annualized dividend yield (default from config)")
	cmd.Flags().Float64Var(&scanMin, "scan-min", 0, "lower bound of the price scan")
	cmd.Flags().Float64Var(&scanMax, "scan-max", 0, "upper bound of the price scan")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of scan points")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "skip the payoff chart")
	cmd.MarkFlagRequired("leg")
	cmd.MarkFlagRequired("spot")

	return cmd
}

// parseLeg parses TYPE:ACTION:STRIKE:PREMIUM:QTY.
func parseLeg(spec string) (models.OptionLeg, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 5 {
		return models.OptionLeg{}, fmt.Errorf("leg %q: want TYPE:ACTION:STRIKE:PREMIUM:QTY", spec)
	}

	optType, err := parseOptionType(parts[0])
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("leg %q: %w", spec, err)
	}

	var action models.LegAction
	switch strings.ToLower(parts[1]) {
	case "buy", "b", "long":
		action = models.Buy
	case "sell", "s", "short":
		action = models.Sell
	default:
		return models.OptionLeg{}, fmt.Errorf("leg %q: unknown action %q (want buy or sell)", spec, parts[1])
	}

	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("leg %q: bad strike: %w", spec, err)
	}
	premium, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("leg %q: bad premium: %w", spec, err)
	}
	qty, err := strconv.Atoi(parts[4])
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("leg %q: bad quantity: %w", spec, err)
	}

	return models.OptionLeg{
		Type:     optType,
		Action:   action,
		Strike:   strike,
		Premium:  premium,
		Quantity: qty,
	}, nil
}

func renderAnalysis(output *Output, legs []models.OptionLeg, a *models.StrategyAnalysis, noChart bool) {
	output.Bold("Legs")
	legTable := NewTable(output, "Type", "Action", "Strike", "Premium", "Qty")
	for _, leg := range legs {
		legTable.AddRow(
			string(leg.Type), string(leg.Action),
			utils.FormatCurrency(leg.Strike),
			utils.FormatCurrency(leg.Premium),
			strconv.Itoa(leg.Quantity),
		)
	}
	legTable.Render()
	output.Println()

	output.Bold("Position Greeks")
	output.Printf("  Delta %.4f  Gamma %.4f  Theta %.4f  Vega %.4f  Rho %.4f\n",
		a.Greeks.Delta, a.Greeks.Gamma, a.Greeks.Theta, a.Greeks.Vega, a.Greeks.Rho)
	output.Println()

	output.Bold("Risk Profile")
	maxProfit := utils.FormatCurrency(a.MaxProfit)
	if a.MaxProfitUnbounded {
		maxProfit = "unlimited"
	}
	maxLoss := utils.FormatCurrency(a.MaxLoss)
	if a.MaxLossUnbounded {
		maxLoss = "unlimited"
	}
	output.Printf("  Net Premium:    %s\n", output.FormatPnL(-a.NetPremium))
	output.Printf("  Max Profit:     %s\n", output.ColoredString(ColorGreen, maxProfit))
	output.Printf("  Max Loss:       %s\n", output.ColoredString(ColorRed, maxLoss))
	if a.RiskReward > 0 {
		output.Printf("  Risk/Reward:    %.2f\n", a.RiskReward)
	}
	output.Printf("  Prob of Profit: %.1f%%\n", a.ProbOfProfit)
	if len(a.Breakevens) > 0 {
		points := make([]string, len(a.Breakevens))
		for i, be := range a.Breakevens {
			points[i] = utils.FormatCurrency(be)
		}
		output.Printf("  Breakevens:     %s\n", strings.Join(points, ", "))
	}

	if !noChart {
		output.Println()
		output.Println(renderPayoffASCII(a.ExpirationCurve, 64, 14))
	}
}
