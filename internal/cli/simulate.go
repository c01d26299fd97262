package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"risklab/internal/export"
	"risklab/internal/logging"
	"risklab/internal/models"
	"risklab/internal/simulation"
	"risklab/pkg/utils"
)

func newSimulateCmd(app *App) *cobra.Command {
	var (
		winRate     float64
		avgWin      float64
		avgLoss     float64
		risk        float64
		capital     float64
		trades      int
		simulations int
		sizing      string
		slippage    float64
		commission  float64
		compound    bool
		ddStop      float64
		seed        int64
		parallel    bool
		workers     int
		label       string
		exportPath  string
		statsPath   string
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo trade-sequence simulation",
		Long: `Simulate many independent trade sequences under a trading plan and
summarize the outcome distribution.

Flags default to the [simulation] section of the config file. Passing
--slippage or --commission enables the respective cost model.

Examples:
  risklab simulate --win-rate 55 --avg-win 150 --avg-loss 100
  risklab simulate --sizing half-kelly --compound --simulations 10000 --parallel
  risklab simulate --seed 42 --export results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfg := app.Config.Simulation
			flagFloat := func(name string, target *float64, dst *float64) {
				if cmd.Flags().Changed(name) {
					*dst = *target
				}
			}
			flagFloat("win-rate", &winRate, &cfg.WinRate)
			flagFloat("avg-win", &avgWin, &cfg.AvgWin)
			flagFloat("avg-loss", &avgLoss, &cfg.AvgLoss)
			flagFloat("risk", &risk, &cfg.RiskPerTrade)
			flagFloat("capital", &capital, &cfg.StartingCapital)
			if cmd.Flags().Changed("trades") {
				cfg.NumTrades = trades
			}
			if cmd.Flags().Changed("simulations") {
				cfg.NumSimulations = simulations
			}
			if cmd.Flags().Changed("sizing") {
				cfg.PositionSizing = models.SizingPolicy(sizing)
			}
			if cmd.Flags().Changed("slippage") {
				cfg.IncludeSlippage = true
				cfg.SlippagePercent = slippage
			}
			if cmd.Flags().Changed("commission") {
				cfg.IncludeCommission = true
				cfg.CommissionPerTrade = commission
			}
			if cmd.Flags().Changed("compound") {
				cfg.EnableCompounding = compound
			}
			if cmd.Flags().Changed("max-drawdown-stop") {
				cfg.MaxDrawdownStop = ddStop
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			opts := simulation.BatchOptions{
				Seed:     seed,
				Parallel: parallel,
				Workers:  workers,
			}
			if !output.IsJSON() {
				opts.OnProgress = func(completed, total int, percent float64) {
					output.Progress(completed, total, "Simulating")
				}
			}

			start := time.Now()
			results, err := app.Runner.RunBatch(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			stats := simulation.ComputeStats(results, cfg)
			logging.LogBatch(app.Logger, len(results), seed, time.Since(start))

			if app.Store != nil && !noSave {
				run := &models.SimulationRun{
					Label:  label,
					Seed:   seed,
					Config: cfg,
					Stats:  *stats,
				}
				if id, err := app.Store.SaveRun(cmd.Context(), run); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to save run")
				} else {
					app.Logger.Debug().Int64("run_id", id).Msg("Run saved")
				}
			}

			if exportPath != "" {
				if err := export.WriteResults(exportPath, results); err != nil {
					return err
				}
				logging.LogExport(app.Logger, exportPath, len(results), nil)
			}
			if statsPath != "" {
				if err := export.WriteStats(statsPath, stats); err != nil {
					return err
				}
				logging.LogExport(app.Logger, statsPath, 1, nil)
			}

			if output.IsJSON() {
				return output.JSON(stats)
			}

			renderStats(output, cfg, stats, seed)
			return nil
		},
	}

	cmd.Flags().Float64Var(&winRate, "win-rate", 0, "win probability per trade, percent")
	cmd.Flags().Float64Var(&avgWin, "avg-win", 0, "average winning trade")
	cmd.Flags().Float64Var(&avgLoss, "avg-loss", 0, "average losing trade magnitude")
	cmd.Flags().Float64Var(&risk, "risk", 0, "risk per trade, percent of capital")
	cmd.Flags().Float64Var(&capital, "capital", 0, "starting capital")
	cmd.Flags().IntVar(&trades, "trades", 0, "trades per simulation")
	cmd.Flags().IntVar(&simulations, "simulations", 0, "number of simulations")
	cmd.Flags().StringVar(&sizing, "sizing", "", "position sizing: fixed-percent, fixed-dollar, half-kelly, anti-martingale")
	cmd.Flags().Float64Var(&slippage, "slippage", 0, "slippage percent (enables slippage)")
	cmd.Flags().Float64Var(&commission, "commission", 0, "commission per trade (enables commission)")
	cmd.Flags().BoolVar(&compound, "compound", false, "size positions off current capital")
	cmd.Flags().Float64Var(&ddStop, "max-drawdown-stop", 0, "stop a path at this drawdown percent")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible runs (0 = random)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run chunks on a worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count for --parallel (0 = NumCPU)")
	cmd.Flags().StringVar(&label, "label", "", "label for the saved run")
	cmd.Flags().StringVar(&exportPath, "export", "", "write per-simulation results CSV")
	cmd.Flags().StringVar(&statsPath, "export-stats", "", "write summary stats CSV")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	return cmd
}

func renderStats(output *Output, cfg models.SimulationConfig, stats *models.SimulationStats, seed int64) {
	output.Bold("Simulation  %d runs × %d trades  win %.1f%%  R %.2f  sizing %s",
		stats.NumResults, cfg.NumTrades, cfg.WinRate, cfg.AvgWin/cfg.AvgLoss, cfg.PositionSizing)
	output.Dim("seed %d", seed)
	output.Println()

	table := NewTable(output, "Metric", "P5", "P25", "Median", "P75", "P95")
	table.AddRow("Return %",
		utils.FormatPercent(stats.ReturnPct.P5),
		utils.FormatPercent(stats.ReturnPct.P25),
		utils.FormatPercent(stats.ReturnPct.P50),
		utils.FormatPercent(stats.ReturnPct.P75),
		utils.FormatPercent(stats.ReturnPct.P95),
	)
	table.AddRow("Max DD %",
		fmt.Sprintf("%.1f", stats.DrawdownPct.P5),
		fmt.Sprintf("%.1f", stats.DrawdownPct.P25),
		fmt.Sprintf("%.1f", stats.DrawdownPct.P50),
		fmt.Sprintf("%.1f", stats.DrawdownPct.P75),
		fmt.Sprintf("%.1f", stats.DrawdownPct.P95),
	)
	table.AddRow("Final Capital",
		utils.FormatCompact(stats.FinalCapital.P5),
		utils.FormatCompact(stats.FinalCapital.P25),
		utils.FormatCompact(stats.FinalCapital.P50),
		utils.FormatCompact(stats.FinalCapital.P75),
		utils.FormatCompact(stats.FinalCapital.P95),
	)
	table.Render()
	output.Println()

	output.Printf("  Win / Loss / Breakeven: %s / %s / %.1f%%\n",
		output.Green(fmt.Sprintf("%.1f%%", stats.WinProbability)),
		output.Red(fmt.Sprintf("%.1f%%", stats.LossProbability)),
		stats.BreakevenProb)
	ruin := fmt.Sprintf("%.2f%%", stats.RuinProbability)
	if stats.RuinProbability > 5 {
		ruin = output.Red(ruin)
	}
	output.Printf("  Ruin Probability:       %s\n", ruin)
	output.Printf("  Sharpe / Sortino:       %.2f / %.2f\n", stats.SharpeRatio, stats.SortinoRatio)
	output.Printf("  Expectancy:             %s\n", output.FormatPercent(stats.Expectancy))
	output.Println()

	output.Bold("Return Distribution")
	output.Printf("%s", renderHistogramASCII(compressBins(stats.ReturnHist, 10), 36))
}

// compressBins merges adjacent bins so terminal output stays readable.
func compressBins(bins []models.HistogramBin, target int) []models.HistogramBin {
	if len(bins) <= target || target <= 0 {
		return bins
	}
	factor := (len(bins) + target - 1) / target
	var merged []models.HistogramBin
	for i := 0; i < len(bins); i += factor {
		end := i + factor
		if end > len(bins) {
			end = len(bins)
		}
		bin := models.HistogramBin{Low: bins[i].Low, High: bins[end-1].High}
		for _, b := range bins[i:end] {
			bin.Count += b.Count
			bin.Frequency += b.Frequency
		}
		merged = append(merged, bin)
	}
	return merged
}
