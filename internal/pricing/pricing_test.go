package pricing

import (
	"math"
	"testing"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
)

func TestPriceKnownValues(t *testing.T) {
	tests := []struct {
		name      string
		in        models.MarketInputs
		typ       models.OptionType
		wantPrice float64
		wantDelta float64
		tol       float64
	}{
		{
			name: "atm_call_one_year",
			in: models.MarketInputs{
				Spot: 100, Strike: 100, TimeToExpiry: 1,
				RiskFreeRate: 0.05, Volatility: 0.2,
			},
			typ:       models.Call,
			wantPrice: 10.4506,
			wantDelta: 0.6368,
			tol:       1e-3,
		},
		{
			name: "atm_put_one_year",
			in: models.MarketInputs{
				Spot: 100, Strike: 100, TimeToExpiry: 1,
				RiskFreeRate: 0.05, Volatility: 0.2,
			},
			typ:       models.Put,
			wantPrice: 5.5735,
			wantDelta: -0.3632,
			tol:       1e-3,
		},
		{
			name: "deep_itm_call_short_expiry",
			in: models.MarketInputs{
				Spot: 150, Strike: 100, TimeToExpiry: 0.05,
				RiskFreeRate: 0.05, Volatility: 0.2,
			},
			typ:       models.Call,
			wantPrice: 50.2497, // intrinsic 50 plus small carry
			wantDelta: 1.0,
			tol:       1e-2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.in, tt.typ)
			if err != nil {
				t.Fatalf("Price() error = %v", err)
			}
			if math.Abs(got.Price-tt.wantPrice) > tt.tol {
				t.Errorf("Price = %.4f, want %.4f", got.Price, tt.wantPrice)
			}
			if math.Abs(got.Greeks.Delta-tt.wantDelta) > tt.tol {
				t.Errorf("Delta = %.4f, want %.4f", got.Greeks.Delta, tt.wantDelta)
			}
		})
	}
}

func TestPriceExpiredOption(t *testing.T) {
	// Expired in-the-money call: price is pure intrinsic, Greeks are zero.
	in := models.MarketInputs{
		Spot: 110, Strike: 100, TimeToExpiry: 0,
		RiskFreeRate: 0.05, Volatility: 0.2,
	}

	got, err := Price(in, models.Call)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if got.Price != 10 {
		t.Errorf("Price = %v, want 10", got.Price)
	}
	if got.IntrinsicValue != 10 {
		t.Errorf("IntrinsicValue = %v, want 10", got.IntrinsicValue)
	}
	if got.TimeValue != 0 {
		t.Errorf("TimeValue = %v, want 0", got.TimeValue)
	}
	if got.Greeks != (models.Greeks{}) {
		t.Errorf("Greeks = %+v, want all zero", got.Greeks)
	}

	// Expired out-of-the-money put is worthless.
	put, err := Price(in, models.Put)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if put.Price != 0 {
		t.Errorf("expired OTM put price = %v, want 0", put.Price)
	}
}

func TestPriceRejectsNonPositiveVolatility(t *testing.T) {
	in := models.MarketInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 0.5,
		RiskFreeRate: 0.05, Volatility: 0,
	}

	_, err := Price(in, models.Call)
	if err == nil {
		t.Fatal("expected error for zero volatility on live option")
	}
	if !apperrors.Is(err, apperrors.ErrNonPositiveVol) {
		t.Errorf("error = %v, want ErrNonPositiveVol in chain", err)
	}
}

func TestPriceRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name string
		in   models.MarketInputs
	}{
		{"zero_spot", models.MarketInputs{Spot: 0, Strike: 100, TimeToExpiry: 1, Volatility: 0.2}},
		{"negative_strike", models.MarketInputs{Spot: 100, Strike: -5, TimeToExpiry: 1, Volatility: 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Price(tt.in, models.Call); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestErfAccuracy(t *testing.T) {
	// The rational approximation should track math.Erf within ~1.5e-7.
	for x := -4.0; x <= 4.0; x += 0.01 {
		if diff := math.Abs(erf(x) - math.Erf(x)); diff > 2e-7 {
			t.Fatalf("erf(%.2f) off by %g", x, diff)
		}
	}
}

func TestThetaIsPerDay(t *testing.T) {
	in := models.MarketInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 0.25,
		RiskFreeRate: 0.05, Volatility: 0.2,
	}
	got, err := Price(in, models.Call)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	// An ATM option loses value daily; per-day theta magnitude should be
	// far below the annualized decay.
	if got.Greeks.Theta >= 0 {
		t.Errorf("ATM call theta = %v, want negative", got.Greeks.Theta)
	}
	if math.Abs(got.Greeks.Theta) > 1 {
		t.Errorf("theta = %v looks annualized, want per-day", got.Greeks.Theta)
	}
}
