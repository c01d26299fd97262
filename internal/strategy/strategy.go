// Package strategy aggregates multi-leg option positions into portfolio
// sensitivities, payoff curves, and summary risk metrics.
package strategy

import (
	"math"
	"sort"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
	"risklab/internal/pricing"
)

// ScanRange defines the underlying price grid for payoff analysis.
type ScanRange struct {
	Min   float64
	Max   float64
	Steps int
}

// Validate checks the scan range before use.
func (r ScanRange) Validate() error {
	if r.Min < 0 || r.Max <= r.Min {
		return apperrors.ErrInvalidScanRange
	}
	if r.Steps < 2 {
		return apperrors.NewValidationError("steps", r.Steps, "need at least 2 grid steps")
	}
	return nil
}

// DefaultScanRange centers a grid on the spot price, spanning +/-30%.
func DefaultScanRange(spot float64) ScanRange {
	return ScanRange{
		Min:   spot * 0.7,
		Max:   spot * 1.3,
		Steps: 100,
	}
}

// Analyze is a pure function of (legs, market inputs, scan range). It prices
// every leg at every grid point, so market inputs carry the shared time to
// expiry, rates, and volatility; each leg contributes its own strike and type.
func Analyze(legs []models.OptionLeg, in models.MarketInputs, scan ScanRange) (*models.StrategyAnalysis, error) {
	if len(legs) == 0 {
		return nil, apperrors.ErrNoLegs
	}
	if err := scan.Validate(); err != nil {
		return nil, err
	}
	for _, leg := range legs {
		if leg.Quantity < 1 {
			return nil, apperrors.NewValidationError("quantity", leg.Quantity, "must be at least 1")
		}
		if leg.Strike <= 0 {
			return nil, apperrors.NewValidationError("strike", leg.Strike, "must be positive")
		}
	}

	analysis := &models.StrategyAnalysis{}

	// Aggregate Greeks: sum of per-leg Greeks scaled by signed quantity.
	for _, leg := range legs {
		legIn := in
		legIn.Strike = leg.Strike

		p, err := pricing.Price(legIn, leg.Type)
		if err != nil {
			return nil, err
		}
		analysis.Greeks = analysis.Greeks.Add(p.Greeks.Scale(leg.Action.Sign() * float64(leg.Quantity)))
		analysis.NetPremium += leg.Action.Sign() * leg.Premium * float64(leg.Quantity)
	}

	step := (scan.Max - scan.Min) / float64(scan.Steps)
	analysis.ExpirationCurve = make([]models.PayoffPoint, 0, scan.Steps+1)
	analysis.CurrentCurve = make([]models.PayoffPoint, 0, scan.Steps+1)

	for i := 0; i <= scan.Steps; i++ {
		price := scan.Min + float64(i)*step

		expPnL := expirationPnL(legs, price)

		curPnL, err := currentPnL(legs, in, price)
		if err != nil {
			return nil, err
		}

		analysis.ExpirationCurve = append(analysis.ExpirationCurve, models.PayoffPoint{Price: price, PnL: expPnL})
		analysis.CurrentCurve = append(analysis.CurrentCurve, models.PayoffPoint{Price: price, PnL: curPnL})
	}

	analysis.Breakevens = findBreakevens(analysis.ExpirationCurve)
	computeRiskMetrics(analysis, legs, scan)

	return analysis, nil
}

// expirationPnL evaluates the strategy payoff at expiry for one underlying
// price: per-leg payoff minus captured premium, signed by action, scaled by
// quantity.
func expirationPnL(legs []models.OptionLeg, price float64) float64 {
	var pnl float64
	for _, leg := range legs {
		payoff := pricing.ExpirationPayoff(price, leg.Strike, leg.Type)
		pnl += leg.Action.Sign() * (payoff - leg.Premium) * float64(leg.Quantity)
	}
	return pnl
}

// currentPnL substitutes the live theoretical value for the expiration payoff
// on legs that still have time remaining.
func currentPnL(legs []models.OptionLeg, in models.MarketInputs, price float64) (float64, error) {
	var pnl float64
	for _, leg := range legs {
		var value float64
		if in.TimeToExpiry > 0 {
			legIn := in
			legIn.Spot = price
			legIn.Strike = leg.Strike
			p, err := pricing.Price(legIn, leg.Type)
			if err != nil {
				return 0, err
			}
			value = p.Price
		} else {
			value = pricing.ExpirationPayoff(price, leg.Strike, leg.Type)
		}
		pnl += leg.Action.Sign() * (value - leg.Premium) * float64(leg.Quantity)
	}
	return pnl, nil
}

// findBreakevens scans the expiration curve for sign changes between adjacent
// samples and linearly interpolates each zero crossing. Results come back in
// ascending price order because the curve is sampled in ascending order.
func findBreakevens(curve []models.PayoffPoint) []float64 {
	var breakevens []float64
	for i := 1; i < len(curve); i++ {
		p0, p1 := curve[i-1], curve[i]

		if p0.PnL == 0 {
			breakevens = append(breakevens, p0.Price)
			continue
		}
		if (p0.PnL < 0 && p1.PnL > 0) || (p0.PnL > 0 && p1.PnL < 0) {
			abs0 := math.Abs(p0.PnL)
			abs1 := math.Abs(p1.PnL)
			breakevens = append(breakevens, p0.Price+(abs0/(abs0+abs1))*(p1.Price-p0.Price))
		}
	}
	if last := curve[len(curve)-1]; last.PnL == 0 {
		breakevens = append(breakevens, last.Price)
	}
	sort.Float64s(breakevens)
	return breakevens
}

// computeRiskMetrics fills max profit/loss, probability of profit, and
// risk/reward. Unboundedness is decided from the analytic boundary slopes of
// the piecewise-linear expiration payoff, not from the finite grid: above the
// top strike only call legs have slope, below the bottom strike only put legs
// do, and a put's payoff is capped at the strike so the downside extreme is
// evaluated exactly at price zero.
func computeRiskMetrics(a *models.StrategyAnalysis, legs []models.OptionLeg, scan ScanRange) {
	maxProfit := math.Inf(-1)
	maxLoss := math.Inf(1)
	positive := 0
	for _, p := range a.ExpirationCurve {
		if p.PnL > maxProfit {
			maxProfit = p.PnL
		}
		if p.PnL < maxLoss {
			maxLoss = p.PnL
		}
		if p.PnL > 0 {
			positive++
		}
	}

	// Net payoff slope for prices above every strike: each call leg
	// contributes its signed quantity, puts are flat up there.
	var upSlope float64
	for _, leg := range legs {
		if leg.Type == models.Call {
			upSlope += leg.Action.Sign() * float64(leg.Quantity)
		}
	}
	if upSlope > 0 {
		a.MaxProfitUnbounded = true
	}
	if upSlope < 0 {
		a.MaxLossUnbounded = true
	}

	// The downside extreme is finite: evaluate the payoff at price zero so a
	// narrow grid cannot understate put-heavy strategies.
	if scan.Min > 0 {
		atZero := expirationPnL(legs, 0)
		if atZero > maxProfit {
			maxProfit = atZero
		}
		if atZero < maxLoss {
			maxLoss = atZero
		}
	}

	a.MaxProfit = maxProfit
	a.MaxLoss = maxLoss
	a.ProbOfProfit = float64(positive) / float64(len(a.ExpirationCurve)) * 100

	if !a.MaxProfitUnbounded && !a.MaxLossUnbounded && maxLoss != 0 {
		a.RiskReward = math.Abs(maxProfit / maxLoss)
	}
}
