package models

import (
	"time"

	apperrors "risklab/internal/errors"
)

// SizingPolicy selects the position-sizing algorithm for a simulation.
type SizingPolicy string

const (
	FixedPercent   SizingPolicy = "fixed-percent"
	FixedDollar    SizingPolicy = "fixed-dollar"
	HalfKelly      SizingPolicy = "half-kelly"
	AntiMartingale SizingPolicy = "anti-martingale"
)

// Valid reports whether the policy is one of the recognized values.
func (p SizingPolicy) Valid() bool {
	switch p {
	case FixedPercent, FixedDollar, HalfKelly, AntiMartingale:
		return true
	}
	return false
}

// SimulationConfig configures a Monte Carlo trade-sequence simulation.
type SimulationConfig struct {
	WinRate            float64      `mapstructure:"win_rate"`       // percent, 0-100
	AvgWin             float64      `mapstructure:"avg_win"`        // currency
	AvgLoss            float64      `mapstructure:"avg_loss"`       // currency, positive magnitude
	RiskPerTrade       float64      `mapstructure:"risk_per_trade"` // percent of base capital
	StartingCapital    float64      `mapstructure:"starting_capital"`
	NumTrades          int          `mapstructure:"num_trades"`
	NumSimulations     int          `mapstructure:"num_simulations"`
	PositionSizing     SizingPolicy `mapstructure:"position_sizing"`
	IncludeSlippage    bool         `mapstructure:"include_slippage"`
	SlippagePercent    float64      `mapstructure:"slippage_percent"`
	IncludeCommission  bool         `mapstructure:"include_commission"`
	CommissionPerTrade float64      `mapstructure:"commission_per_trade"`
	EnableCompounding  bool         `mapstructure:"enable_compounding"`
	MaxDrawdownStop    float64      `mapstructure:"max_drawdown_stop"` // percent, 0 disables
}

// Validate checks the configuration before a batch run starts. Rejecting
// bad inputs here keeps NaN out of every downstream statistic.
func (c SimulationConfig) Validate() error {
	if c.WinRate < 0 || c.WinRate > 100 {
		return apperrors.NewValidationError("win_rate", c.WinRate, "must be between 0 and 100")
	}
	if c.AvgWin < 0 {
		return apperrors.NewValidationError("avg_win", c.AvgWin, "must be non-negative")
	}
	if c.AvgLoss <= 0 {
		return apperrors.NewValidationError("avg_loss", c.AvgLoss, "must be positive")
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 100 {
		return apperrors.NewValidationError("risk_per_trade", c.RiskPerTrade, "must be in (0, 100]")
	}
	if c.StartingCapital <= 0 {
		return apperrors.NewValidationError("starting_capital", c.StartingCapital, "must be positive")
	}
	if c.NumTrades <= 0 {
		return apperrors.NewValidationError("num_trades", c.NumTrades, "must be positive")
	}
	if c.NumSimulations <= 0 {
		return apperrors.NewValidationError("num_simulations", c.NumSimulations, "must be positive")
	}
	if !c.PositionSizing.Valid() {
		return apperrors.NewValidationError("position_sizing", string(c.PositionSizing), "unknown sizing policy")
	}
	if c.IncludeSlippage && c.SlippagePercent < 0 {
		return apperrors.NewValidationError("slippage_percent", c.SlippagePercent, "must be non-negative")
	}
	if c.IncludeCommission && c.CommissionPerTrade < 0 {
		return apperrors.NewValidationError("commission_per_trade", c.CommissionPerTrade, "must be non-negative")
	}
	if c.MaxDrawdownStop < 0 || c.MaxDrawdownStop > 100 {
		return apperrors.NewValidationError("max_drawdown_stop", c.MaxDrawdownStop, "must be between 0 and 100")
	}
	return nil
}

// TerminationReason records why a simulated path ended. All three are valid,
// well-defined terminations.
type TerminationReason string

const (
	TerminationCompleted    TerminationReason = "completed"
	TerminationDrawdownStop TerminationReason = "drawdown_stop"
	TerminationRuin         TerminationReason = "ruin"
)

// SimulationResult is the outcome of one simulated trade sequence.
// Immutable once produced.
type SimulationResult struct {
	FinalCapital   float64
	TotalReturn    float64 // currency
	TotalReturnPct float64
	MaxDrawdownPct float64
	EquityCurve    []float64 // capital after each executed trade
	DrawdownCurve  []float64 // drawdown percent after each executed trade
	Wins           int
	Losses         int
	MaxWinStreak   int
	MaxLossStreak  int
	LargestWin     float64
	LargestLoss    float64 // positive magnitude
	ProfitFactor   float64
	TradesExecuted int
	Termination    TerminationReason
}

// Percentiles holds the nearest-rank percentile ladder for one metric.
type Percentiles struct {
	P5  float64
	P25 float64
	P50 float64
	P75 float64
	P95 float64
}

// HistogramBin is one equal-width bin of a metric distribution.
// Frequency is the percentage of samples falling in [Low, High).
type HistogramBin struct {
	Low       float64
	High      float64
	Count     int
	Frequency float64
}

// SimulationStats is the batch-level reduction of many simulation results.
// Recomputed whenever the underlying result set changes.
type SimulationStats struct {
	NumResults      int
	ReturnPct       Percentiles
	DrawdownPct     Percentiles
	FinalCapital    Percentiles
	WinProbability  float64 // percent of paths ending above starting capital
	LossProbability float64
	BreakevenProb   float64
	RuinProbability float64 // percent of paths ending below half of starting capital
	SharpeRatio     float64
	SortinoRatio    float64
	Expectancy      float64 // mean return percent
	ReturnHist      []HistogramBin
	DrawdownHist    []HistogramBin
}

// SimulationRun is a persisted batch run: the configuration that produced it
// and the batch statistics, without the raw per-path results.
type SimulationRun struct {
	ID        int64
	CreatedAt time.Time
	Label     string
	Seed      int64
	Config    SimulationConfig
	Stats     SimulationStats
}
