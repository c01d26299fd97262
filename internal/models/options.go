// Package models defines the shared domain types for pricing and simulation.
package models

// OptionType identifies a call or put contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// LegAction identifies whether a leg was bought or sold.
type LegAction string

const (
	Buy  LegAction = "BUY"
	Sell LegAction = "SELL"
)

// Sign returns +1 for bought legs and -1 for sold legs.
func (a LegAction) Sign() float64 {
	if a == Sell {
		return -1
	}
	return 1
}

// MarketInputs holds the market parameters for a single pricing call.
// Immutable per call; TimeToExpiry is in years.
type MarketInputs struct {
	Spot          float64
	Strike        float64
	TimeToExpiry  float64
	RiskFreeRate  float64
	DividendYield float64
	Volatility    float64
}

// Greeks represents option price sensitivities. Theta is per calendar day,
// Vega per 1-point volatility change, Rho per 1% rate change.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Scale returns the Greeks multiplied by a signed quantity.
func (g Greeks) Scale(factor float64) Greeks {
	return Greeks{
		Delta: g.Delta * factor,
		Gamma: g.Gamma * factor,
		Theta: g.Theta * factor,
		Vega:  g.Vega * factor,
		Rho:   g.Rho * factor,
	}
}

// Add returns the component-wise sum of two Greeks bundles.
func (g Greeks) Add(other Greeks) Greeks {
	return Greeks{
		Delta: g.Delta + other.Delta,
		Gamma: g.Gamma + other.Gamma,
		Theta: g.Theta + other.Theta,
		Vega:  g.Vega + other.Vega,
		Rho:   g.Rho + other.Rho,
	}
}

// OptionPricing is the result of a single pricing call. Derived on demand,
// never cached across market-input changes.
type OptionPricing struct {
	Price          float64
	IntrinsicValue float64
	TimeValue      float64
	Greeks         Greeks
}

// OptionLeg represents one position in an option strategy. Premium is
// captured at leg creation and not recomputed unless strike or type change.
type OptionLeg struct {
	Type     OptionType
	Action   LegAction
	Strike   float64
	Premium  float64
	Quantity int
}

// PayoffPoint is one sample of a strategy P&L curve.
type PayoffPoint struct {
	Price float64
	PnL   float64
}

// StrategyAnalysis is the full aggregation of a multi-leg option strategy
// over a price scan range.
type StrategyAnalysis struct {
	Greeks             Greeks
	ExpirationCurve    []PayoffPoint
	CurrentCurve       []PayoffPoint
	Breakevens         []float64
	MaxProfit          float64
	MaxProfitUnbounded bool
	MaxLoss            float64
	MaxLossUnbounded   bool
	ProbOfProfit       float64
	RiskReward         float64
	NetPremium         float64
}
