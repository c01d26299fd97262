// Package export writes batch results and statistics to CSV.
package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
)

// ResultRow is one simulation outcome in the results CSV.
type ResultRow struct {
	Simulation     int     `csv:"simulation"`
	FinalCapital   float64 `csv:"final_capital"`
	TotalReturn    float64 `csv:"total_return"`
	TotalReturnPct float64 `csv:"total_return_pct"`
	MaxDrawdownPct float64 `csv:"max_drawdown_pct"`
	Wins           int     `csv:"wins"`
	Losses         int     `csv:"losses"`
	MaxWinStreak   int     `csv:"max_win_streak"`
	MaxLossStreak  int     `csv:"max_loss_streak"`
	TradesExecuted int     `csv:"trades_executed"`
	Termination    string  `csv:"termination"`
}

// StatRow is one metric in the summary CSV.
type StatRow struct {
	Metric string  `csv:"metric"`
	Value  float64 `csv:"value"`
}

// WriteResults writes one row per simulation to path.
func WriteResults(path string, results []models.SimulationResult) error {
	if len(results) == 0 {
		return apperrors.Wrap(apperrors.ErrNoResults, "nothing to export")
	}

	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{
			Simulation:     i + 1,
			FinalCapital:   r.FinalCapital,
			TotalReturn:    r.TotalReturn,
			TotalReturnPct: r.TotalReturnPct,
			MaxDrawdownPct: r.MaxDrawdownPct,
			Wins:           r.Wins,
			Losses:         r.Losses,
			MaxWinStreak:   r.MaxWinStreak,
			MaxLossStreak:  r.MaxLossStreak,
			TradesExecuted: r.TradesExecuted,
			Termination:    string(r.Termination),
		}
	}

	return writeCSV(path, &rows)
}

// WriteStats writes the batch statistics as metric/value pairs to path.
func WriteStats(path string, stats *models.SimulationStats) error {
	if stats == nil || stats.NumResults == 0 {
		return apperrors.Wrap(apperrors.ErrNoResults, "nothing to export")
	}

	rows := []StatRow{
		{"num_results", float64(stats.NumResults)},
		{"return_pct_p5", stats.ReturnPct.P5},
		{"return_pct_p25", stats.ReturnPct.P25},
		{"return_pct_p50", stats.ReturnPct.P50},
		{"return_pct_p75", stats.ReturnPct.P75},
		{"return_pct_p95", stats.ReturnPct.P95},
		{"drawdown_pct_p50", stats.DrawdownPct.P50},
		{"drawdown_pct_p95", stats.DrawdownPct.P95},
		{"final_capital_p50", stats.FinalCapital.P50},
		{"win_probability", stats.WinProbability},
		{"loss_probability", stats.LossProbability},
		{"breakeven_probability", stats.BreakevenProb},
		{"ruin_probability", stats.RuinProbability},
		{"sharpe_ratio", stats.SharpeRatio},
		{"sortino_ratio", stats.SortinoRatio},
		{"expectancy_pct", stats.Expectancy},
	}

	return writeCSV(path, &rows)
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError(path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return apperrors.NewExportError(path, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewExportError(path, fmt.Errorf("closing file: %w", err))
	}
	return nil
}
