package strategy

import (
	"math"
	"testing"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
)

// expiredInputs returns market inputs for pure expiration analysis.
func expiredInputs(spot float64) models.MarketInputs {
	return models.MarketInputs{
		Spot:         spot,
		TimeToExpiry: 0,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
	}
}

func TestAnalyzeLongCall(t *testing.T) {
	// Single long call, strike 100, premium 5, scanned over [80,120]:
	// one breakeven near 105, max loss -5, unbounded upside.
	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
	}
	scan := ScanRange{Min: 80, Max: 120, Steps: 200}

	a, err := Analyze(legs, expiredInputs(100), scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(a.Breakevens) != 1 {
		t.Fatalf("breakevens = %v, want exactly one", a.Breakevens)
	}
	if math.Abs(a.Breakevens[0]-105) > 0.5 {
		t.Errorf("breakeven = %.2f, want ~105", a.Breakevens[0])
	}
	if math.Abs(a.MaxLoss-(-5)) > 1e-9 {
		t.Errorf("max loss = %.4f, want -5", a.MaxLoss)
	}
	if !a.MaxProfitUnbounded {
		t.Error("long call upside should be unbounded")
	}
	if a.MaxLossUnbounded {
		t.Error("long call downside is capped at the premium")
	}
	if a.NetPremium != 5 {
		t.Errorf("net premium = %v, want 5", a.NetPremium)
	}
}

func TestAnalyzeBullCallSpread(t *testing.T) {
	// Buy 100 call at 5, sell 110 call at 2: both sides capped.
	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
		{Type: models.Call, Action: models.Sell, Strike: 110, Premium: 2, Quantity: 1},
	}
	scan := ScanRange{Min: 80, Max: 130, Steps: 200}

	a, err := Analyze(legs, expiredInputs(100), scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if a.MaxProfitUnbounded || a.MaxLossUnbounded {
		t.Error("vertical spread must be bounded on both sides")
	}
	// Max profit = spread width - net debit = 10 - 3 = 7; max loss = -3.
	if math.Abs(a.MaxProfit-7) > 1e-9 {
		t.Errorf("max profit = %.4f, want 7", a.MaxProfit)
	}
	if math.Abs(a.MaxLoss-(-3)) > 1e-9 {
		t.Errorf("max loss = %.4f, want -3", a.MaxLoss)
	}
	if math.Abs(a.RiskReward-7.0/3.0) > 1e-9 {
		t.Errorf("risk/reward = %.4f, want %.4f", a.RiskReward, 7.0/3.0)
	}
	if len(a.Breakevens) != 1 {
		t.Fatalf("breakevens = %v, want exactly one", a.Breakevens)
	}
	if math.Abs(a.Breakevens[0]-103) > 0.5 {
		t.Errorf("breakeven = %.2f, want ~103", a.Breakevens[0])
	}
}

func TestAnalyzeLongStraddle(t *testing.T) {
	// Long 100 straddle for 8 total: breakevens at 92 and 108, unbounded
	// upside, downside profit capped by price zero.
	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
		{Type: models.Put, Action: models.Buy, Strike: 100, Premium: 3, Quantity: 1},
	}
	scan := ScanRange{Min: 70, Max: 130, Steps: 300}

	a, err := Analyze(legs, expiredInputs(100), scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(a.Breakevens) != 2 {
		t.Fatalf("breakevens = %v, want two", a.Breakevens)
	}
	if math.Abs(a.Breakevens[0]-92) > 0.5 || math.Abs(a.Breakevens[1]-108) > 0.5 {
		t.Errorf("breakevens = %v, want ~[92 108]", a.Breakevens)
	}
	if a.Breakevens[0] >= a.Breakevens[1] {
		t.Error("breakevens must be in ascending order")
	}
	if !a.MaxProfitUnbounded {
		t.Error("straddle upside should be unbounded")
	}
	if math.Abs(a.MaxLoss-(-8)) > 1e-9 {
		t.Errorf("max loss = %.4f, want -8", a.MaxLoss)
	}
}

func TestAnalyzeShortPutDownsideBeyondGrid(t *testing.T) {
	// A short 100 put scanned only over [90,110]: the grid never shows the
	// true worst case, which sits at price zero.
	legs := []models.OptionLeg{
		{Type: models.Put, Action: models.Sell, Strike: 100, Premium: 4, Quantity: 1},
	}
	scan := ScanRange{Min: 90, Max: 110, Steps: 100}

	a, err := Analyze(legs, expiredInputs(100), scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// At price zero the put is exercised for the full strike: -(100-4).
	if math.Abs(a.MaxLoss-(-96)) > 1e-9 {
		t.Errorf("max loss = %.4f, want -96", a.MaxLoss)
	}
	if a.MaxLossUnbounded {
		t.Error("short put loss is large but finite")
	}
	if math.Abs(a.MaxProfit-4) > 1e-9 {
		t.Errorf("max profit = %.4f, want 4 (premium kept)", a.MaxProfit)
	}
}

func TestAnalyzeAggregateGreeks(t *testing.T) {
	// A sold leg's Greeks flip sign; two offsetting legs cancel exactly.
	in := models.MarketInputs{
		Spot: 100, TimeToExpiry: 0.25, RiskFreeRate: 0.05, Volatility: 0.2,
	}
	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 2},
		{Type: models.Call, Action: models.Sell, Strike: 100, Premium: 5, Quantity: 2},
	}

	a, err := Analyze(legs, in, DefaultScanRange(100))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if math.Abs(a.Greeks.Delta) > 1e-12 || math.Abs(a.Greeks.Vega) > 1e-12 {
		t.Errorf("offsetting legs should cancel Greeks, got %+v", a.Greeks)
	}
	if a.NetPremium != 0 {
		t.Errorf("net premium = %v, want 0", a.NetPremium)
	}
}

func TestAnalyzeQuantityScalesPnL(t *testing.T) {
	in := expiredInputs(100)
	scan := ScanRange{Min: 80, Max: 120, Steps: 100}

	one, err := Analyze([]models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
	}, in, scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	three, err := Analyze([]models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 3},
	}, in, scan)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for i := range one.ExpirationCurve {
		if math.Abs(three.ExpirationCurve[i].PnL-3*one.ExpirationCurve[i].PnL) > 1e-9 {
			t.Fatalf("qty=3 P&L at %v = %v, want 3x %v",
				one.ExpirationCurve[i].Price, three.ExpirationCurve[i].PnL, one.ExpirationCurve[i].PnL)
		}
	}
}

func TestAnalyzeValidation(t *testing.T) {
	in := expiredInputs(100)

	if _, err := Analyze(nil, in, DefaultScanRange(100)); !apperrors.Is(err, apperrors.ErrNoLegs) {
		t.Errorf("empty legs: error = %v, want ErrNoLegs", err)
	}

	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
	}
	if _, err := Analyze(legs, in, ScanRange{Min: 120, Max: 80, Steps: 10}); err == nil {
		t.Error("inverted scan range should be rejected")
	}
	if _, err := Analyze(legs, in, ScanRange{Min: 80, Max: 120, Steps: 1}); err == nil {
		t.Error("single-step grid should be rejected")
	}

	bad := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 0},
	}
	if _, err := Analyze(bad, in, DefaultScanRange(100)); err == nil {
		t.Error("zero quantity should be rejected")
	}
}

func TestAnalyzeCurrentCurveUsesLiveValue(t *testing.T) {
	// With time remaining, the current P&L curve sits above the expiration
	// curve for a long call (time value is positive everywhere).
	in := models.MarketInputs{
		Spot: 100, TimeToExpiry: 0.25, RiskFreeRate: 0.05, Volatility: 0.3,
	}
	legs := []models.OptionLeg{
		{Type: models.Call, Action: models.Buy, Strike: 100, Premium: 5, Quantity: 1},
	}

	a, err := Analyze(legs, in, ScanRange{Min: 80, Max: 120, Steps: 50})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for i := range a.CurrentCurve {
		if a.CurrentCurve[i].PnL < a.ExpirationCurve[i].PnL-1e-9 {
			t.Fatalf("current P&L %v below expiration P&L %v at price %v",
				a.CurrentCurve[i].PnL, a.ExpirationCurve[i].PnL, a.CurrentCurve[i].Price)
		}
	}
}
