// Package simulation implements Monte Carlo trade-sequence simulation:
// single-path simulation, chunked batch execution, and batch statistics.
package simulation

import (
	"math"
	"math/rand"

	"risklab/internal/models"
)

const (
	// outcomeVariance is the fixed dispersion applied to every trade outcome:
	// the nominal win/loss amount is scaled by 1 + (u-0.5)*2*outcomeVariance.
	outcomeVariance = 0.3

	// ruinFloorFraction is the hard per-path floor: a path terminates the
	// moment capital falls below this fraction of starting capital.
	ruinFloorFraction = 0.10
)

// SimulatePath runs one independent random trade sequence. The caller owns
// the RNG, which makes every path deterministic under a fixed seed.
//
// Each step checks the configured drawdown stop, draws a win/loss outcome,
// sizes the position under the configured policy, disperses the outcome with
// the variance factor, applies slippage and commission, then updates capital,
// the high-water mark, and both curves. A path ends after NumTrades steps,
// when the drawdown stop fires, or when the ruin floor is breached; all three
// are well-defined terminations.
func SimulatePath(cfg models.SimulationConfig, rng *rand.Rand) models.SimulationResult {
	capital := cfg.StartingCapital
	peak := capital
	ruinFloor := cfg.StartingCapital * ruinFloorFraction
	payoffRatio := cfg.AvgWin / cfg.AvgLoss

	result := models.SimulationResult{
		EquityCurve:   make([]float64, 0, cfg.NumTrades),
		DrawdownCurve: make([]float64, 0, cfg.NumTrades),
		Termination:   models.TerminationCompleted,
	}

	var (
		winStreak, lossStreak int
		grossWins, grossLosses float64
	)

	for trade := 0; trade < cfg.NumTrades; trade++ {
		if cfg.MaxDrawdownStop > 0 {
			currentDD := drawdownPercent(peak, capital)
			if currentDD >= cfg.MaxDrawdownStop {
				result.Termination = models.TerminationDrawdownStop
				break
			}
		}

		win := rng.Float64() < cfg.WinRate/100

		size := positionSize(cfg, capital, winStreak)

		// Dispersion around the configured average outcome.
		variance := 1 + (rng.Float64()-0.5)*2*outcomeVariance

		var pnl float64
		if win {
			pnl = size * payoffRatio * variance
		} else {
			pnl = -size * variance
		}

		if cfg.IncludeSlippage {
			// Slippage is a cost in both directions: it shrinks gains and
			// deepens losses.
			if pnl > 0 {
				pnl *= 1 - cfg.SlippagePercent/100
			} else {
				pnl *= 1 + cfg.SlippagePercent/100
			}
		}
		if cfg.IncludeCommission {
			pnl -= cfg.CommissionPerTrade
		}

		capital += pnl
		result.TradesExecuted++

		if capital > peak {
			peak = capital
		}
		dd := drawdownPercent(peak, capital)
		if dd > result.MaxDrawdownPct {
			result.MaxDrawdownPct = dd
		}

		switch {
		case pnl > 0:
			result.Wins++
			winStreak++
			lossStreak = 0
			grossWins += pnl
			if pnl > result.LargestWin {
				result.LargestWin = pnl
			}
			if winStreak > result.MaxWinStreak {
				result.MaxWinStreak = winStreak
			}
		case pnl < 0:
			result.Losses++
			lossStreak++
			winStreak = 0
			grossLosses += -pnl
			if -pnl > result.LargestLoss {
				result.LargestLoss = -pnl
			}
			if lossStreak > result.MaxLossStreak {
				result.MaxLossStreak = lossStreak
			}
		}

		result.EquityCurve = append(result.EquityCurve, capital)
		result.DrawdownCurve = append(result.DrawdownCurve, dd)

		if capital < ruinFloor {
			result.Termination = models.TerminationRuin
			break
		}
	}

	result.FinalCapital = capital
	result.TotalReturn = capital - cfg.StartingCapital
	result.TotalReturnPct = result.TotalReturn / cfg.StartingCapital * 100

	switch {
	case grossLosses > 0:
		result.ProfitFactor = grossWins / grossLosses
	case grossWins > 0:
		result.ProfitFactor = math.Inf(1)
	}

	return result
}

func drawdownPercent(peak, capital float64) float64 {
	if peak <= 0 {
		return 0
	}
	dd := (peak - capital) / peak * 100
	if dd < 0 {
		return 0
	}
	return dd
}
