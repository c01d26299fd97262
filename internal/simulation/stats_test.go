package simulation

import (
	"context"
	"math"
	"testing"

	"risklab/internal/models"
)

func statResult(final, returnPct, ddPct float64) models.SimulationResult {
	return models.SimulationResult{
		FinalCapital:   final,
		TotalReturnPct: returnPct,
		MaxDrawdownPct: ddPct,
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, baseConfig())
	if stats == nil {
		t.Fatal("nil stats for empty input")
	}
	if stats.NumResults != 0 {
		t.Errorf("NumResults = %d, want 0", stats.NumResults)
	}
	if stats.ReturnPct.P50 != 0 || stats.SharpeRatio != 0 {
		t.Errorf("empty input produced non-zero stats: %+v", stats)
	}
}

func TestComputeStatsSingleResult(t *testing.T) {
	results := []models.SimulationResult{statResult(110000, 10, 4)}
	stats := ComputeStats(results, baseConfig())

	// With one sample every percentile collapses to it.
	p := stats.ReturnPct
	if p.P5 != 10 || p.P25 != 10 || p.P50 != 10 || p.P75 != 10 || p.P95 != 10 {
		t.Errorf("single-result percentiles = %+v, want all 10", p)
	}
	if stats.WinProbability != 100 {
		t.Errorf("WinProbability = %v, want 100", stats.WinProbability)
	}
}

func TestComputeStatsPercentileRanks(t *testing.T) {
	// Ten known returns, shuffled order on input.
	returns := []float64{40, 10, 90, 20, 70, 30, 100, 50, 80, 60}
	results := make([]models.SimulationResult, len(returns))
	for i, r := range returns {
		results[i] = statResult(100000+r*1000, r, r/10)
	}

	stats := ComputeStats(results, baseConfig())

	// Nearest rank on n=10: idx 0, 2, 5, 7, 9 of the sorted slice.
	want := models.Percentiles{P5: 10, P25: 30, P50: 60, P75: 80, P95: 100}
	if stats.ReturnPct != want {
		t.Errorf("ReturnPct = %+v, want %+v", stats.ReturnPct, want)
	}
}

func TestComputeStatsProbabilities(t *testing.T) {
	cfg := baseConfig() // starting capital 100000, ruin below 50000
	results := []models.SimulationResult{
		statResult(150000, 50, 5),
		statResult(120000, 20, 8),
		statResult(100000, 0, 10),
		statResult(80000, -20, 30),
		statResult(40000, -60, 70),
	}

	stats := ComputeStats(results, cfg)

	if stats.WinProbability != 40 {
		t.Errorf("WinProbability = %v, want 40", stats.WinProbability)
	}
	if stats.LossProbability != 40 {
		t.Errorf("LossProbability = %v, want 40", stats.LossProbability)
	}
	if stats.BreakevenProb != 20 {
		t.Errorf("BreakevenProb = %v, want 20", stats.BreakevenProb)
	}
	if stats.RuinProbability != 20 {
		t.Errorf("RuinProbability = %v, want 20", stats.RuinProbability)
	}
}

func TestComputeStatsRatios(t *testing.T) {
	// Returns 5 and 15: mean 10, population stddev 5.
	results := []models.SimulationResult{
		statResult(105000, 5, 2),
		statResult(115000, 15, 2),
	}
	stats := ComputeStats(results, baseConfig())

	if math.Abs(stats.Expectancy-10) > 1e-9 {
		t.Errorf("Expectancy = %v, want 10", stats.Expectancy)
	}
	if math.Abs(stats.SharpeRatio-2) > 1e-9 {
		t.Errorf("SharpeRatio = %v, want 2", stats.SharpeRatio)
	}
	// No negative returns: Sortino falls back to the full-population stddev.
	if math.Abs(stats.SortinoRatio-2) > 1e-9 {
		t.Errorf("SortinoRatio = %v, want 2", stats.SortinoRatio)
	}
}

func TestComputeStatsSortinoDownside(t *testing.T) {
	// Negatives are -10 and -20: downside mean -15, downside stddev 5.
	results := []models.SimulationResult{
		statResult(90000, -10, 15),
		statResult(80000, -20, 25),
		statResult(130000, 30, 5),
	}
	stats := ComputeStats(results, baseConfig())

	wantMean := 0.0
	if math.Abs(stats.Expectancy-wantMean) > 1e-9 {
		t.Errorf("Expectancy = %v, want %v", stats.Expectancy, wantMean)
	}
	if stats.SortinoRatio != 0 {
		t.Errorf("SortinoRatio = %v, want 0 for zero mean", stats.SortinoRatio)
	}
}

func TestComputeStatsHistograms(t *testing.T) {
	results := make([]models.SimulationResult, 60)
	for i := range results {
		results[i] = statResult(100000, float64(i), float64(i)/10)
	}

	stats := ComputeStats(results, baseConfig())

	if len(stats.ReturnHist) != ReturnHistBins {
		t.Fatalf("return histogram has %d bins, want %d", len(stats.ReturnHist), ReturnHistBins)
	}
	if len(stats.DrawdownHist) != DrawdownHistBins {
		t.Fatalf("drawdown histogram has %d bins, want %d", len(stats.DrawdownHist), DrawdownHistBins)
	}

	var count int
	var freq float64
	for _, bin := range stats.ReturnHist {
		count += bin.Count
		freq += bin.Frequency
		if bin.High < bin.Low {
			t.Errorf("inverted bin [%v, %v]", bin.Low, bin.High)
		}
	}
	if count != len(results) {
		t.Errorf("histogram counts sum to %d, want %d", count, len(results))
	}
	if math.Abs(freq-100) > 1e-9 {
		t.Errorf("histogram frequencies sum to %v, want 100", freq)
	}
}

func TestComputeStatsDegenerateHistogram(t *testing.T) {
	results := []models.SimulationResult{
		statResult(100000, 5, 3),
		statResult(100000, 5, 3),
		statResult(100000, 5, 3),
	}
	stats := ComputeStats(results, baseConfig())

	if len(stats.ReturnHist) != 1 {
		t.Fatalf("zero-variance histogram has %d bins, want 1", len(stats.ReturnHist))
	}
	bin := stats.ReturnHist[0]
	if bin.Count != 3 || bin.Frequency != 100 {
		t.Errorf("degenerate bin = %+v, want count 3 frequency 100", bin)
	}
}

func TestComputeStatsFavorableScenario(t *testing.T) {
	cfg := baseConfig() // 55% win rate, 1.5 payoff ratio: positive edge

	results, err := newTestRunner().RunBatch(context.Background(), cfg, BatchOptions{Seed: 12345})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	stats := ComputeStats(results, cfg)

	if stats.ReturnPct.P50 <= 0 {
		t.Errorf("median return = %v, want positive for a favorable edge", stats.ReturnPct.P50)
	}
	if stats.WinProbability <= 50 {
		t.Errorf("WinProbability = %v, want above 50", stats.WinProbability)
	}
	if stats.Expectancy <= 0 {
		t.Errorf("Expectancy = %v, want positive", stats.Expectancy)
	}
}
