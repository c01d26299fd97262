package simulation

import (
	"risklab/internal/models"
)

const (
	// kellyCap limits any half-Kelly position to 25% of base capital.
	kellyCap = 0.25

	// antiMartingaleStep grows the position 20% per consecutive win.
	antiMartingaleStep = 0.2

	// antiMartingaleCap limits streak scaling to 2x the base position.
	antiMartingaleCap = 2.0
)

// positionSize returns the capital committed to the next trade under the
// configured sizing policy. Base capital tracks current capital only when
// compounding is enabled; fixed-dollar sizing always works off starting
// capital.
func positionSize(cfg models.SimulationConfig, currentCapital float64, consecutiveWins int) float64 {
	base := cfg.StartingCapital
	if cfg.EnableCompounding {
		base = currentCapital
	}
	risk := cfg.RiskPerTrade / 100

	switch cfg.PositionSizing {
	case models.FixedDollar:
		return cfg.StartingCapital * risk

	case models.HalfKelly:
		return base * halfKellyFraction(cfg)

	case models.AntiMartingale:
		mult := 1 + antiMartingaleStep*float64(consecutiveWins)
		if mult > antiMartingaleCap {
			mult = antiMartingaleCap
		}
		return base * risk * mult

	default: // models.FixedPercent
		return base * risk
	}
}

// halfKellyFraction computes half the Kelly fraction f = (p*b - q)/b with
// b = avgWin/avgLoss, capped at kellyCap. A negative edge clamps to zero:
// the policy never shorts its own strategy.
func halfKellyFraction(cfg models.SimulationConfig) float64 {
	b := cfg.AvgWin / cfg.AvgLoss
	if b <= 0 {
		return 0
	}
	p := cfg.WinRate / 100
	q := 1 - p

	f := (p*b - q) / b / 2
	if f < 0 {
		return 0
	}
	if f > kellyCap {
		return kellyCap
	}
	return f
}
