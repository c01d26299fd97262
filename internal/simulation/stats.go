package simulation

import (
	"math"
	"sort"

	"risklab/internal/models"
)

const (
	// ReturnHistBins is the bin count for the return distribution.
	ReturnHistBins = 30

	// DrawdownHistBins is the bin count for the drawdown distribution.
	DrawdownHistBins = 6

	// ruinCapitalFraction marks a batch-level ruin: a path that ends below
	// this fraction of starting capital. Distinct from the per-path hard
	// floor, which terminates a path at 10%.
	ruinCapitalFraction = 0.5
)

// ComputeStats reduces a batch of simulation results into percentiles,
// probabilities, risk ratios, and histograms. An empty result set yields
// flat zero statistics rather than an error; degenerate distributions fall
// back to well-defined defaults.
func ComputeStats(results []models.SimulationResult, cfg models.SimulationConfig) *models.SimulationStats {
	stats := &models.SimulationStats{NumResults: len(results)}
	if len(results) == 0 {
		return stats
	}

	returns := make([]float64, len(results))
	drawdowns := make([]float64, len(results))
	finals := make([]float64, len(results))

	ruinThreshold := cfg.StartingCapital * ruinCapitalFraction
	var wins, losses, breakevens, ruins int

	for i, r := range results {
		returns[i] = r.TotalReturnPct
		drawdowns[i] = r.MaxDrawdownPct
		finals[i] = r.FinalCapital

		switch {
		case r.FinalCapital > cfg.StartingCapital:
			wins++
		case r.FinalCapital < cfg.StartingCapital:
			losses++
		default:
			breakevens++
		}
		if r.FinalCapital < ruinThreshold {
			ruins++
		}
	}

	n := float64(len(results))
	stats.WinProbability = float64(wins) / n * 100
	stats.LossProbability = float64(losses) / n * 100
	stats.BreakevenProb = float64(breakevens) / n * 100
	stats.RuinProbability = float64(ruins) / n * 100

	stats.ReturnPct = percentileLadder(returns)
	stats.DrawdownPct = percentileLadder(drawdowns)
	stats.FinalCapital = percentileLadder(finals)

	mean := meanOf(returns)
	stats.Expectancy = mean

	sd := popStddev(returns, mean)
	if sd > 0 {
		stats.SharpeRatio = mean / sd
	}

	downsideDev := downsideDeviation(returns, sd)
	if downsideDev > 0 {
		stats.SortinoRatio = mean / downsideDev
	}

	stats.ReturnHist = buildHistogram(returns, ReturnHistBins)
	stats.DrawdownHist = buildHistogram(drawdowns, DrawdownHistBins)

	return stats
}

// percentileLadder computes nearest-rank percentiles on a sorted copy:
// index = floor(n*p), clamped to n-1.
func percentileLadder(values []float64) models.Percentiles {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return models.Percentiles{
		P5:  nearestRank(sorted, 0.05),
		P25: nearestRank(sorted, 0.25),
		P50: nearestRank(sorted, 0.50),
		P75: nearestRank(sorted, 0.75),
		P95: nearestRank(sorted, 0.95),
	}
}

func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStddev is the population standard deviation around a precomputed mean.
func popStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// downsideDeviation is the population stddev of the negative returns only.
// With no downside data it falls back to the full-population stddev, which
// trades strict correctness for a finite Sortino ratio.
func downsideDeviation(returns []float64, fullStddev float64) float64 {
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return fullStddev
	}
	return popStddev(negatives, meanOf(negatives))
}

// buildHistogram bins values into equal-width bins spanning [min, max] and
// reports per-bin frequency as a percentage of all samples. A zero-variance
// distribution collapses into a single bin holding 100%.
func buildHistogram(values []float64, bins int) []models.HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		return []models.HistogramBin{{
			Low:       lo,
			High:      hi,
			Count:     len(values),
			Frequency: 100,
		}}
	}

	width := (hi - lo) / float64(bins)
	result := make([]models.HistogramBin, bins)
	for i := range result {
		result[i].Low = lo + float64(i)*width
		result[i].High = lo + float64(i+1)*width
	}

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}

	n := float64(len(values))
	for i := range result {
		result[i].Frequency = float64(result[i].Count) / n * 100
	}

	return result
}
