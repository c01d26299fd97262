// Package pricing implements closed-form Black-Scholes option pricing
// with sensitivities (Greeks).
package pricing

import (
	"math"

	apperrors "risklab/internal/errors"
	"risklab/internal/models"
)

// Price computes the theoretical value and Greeks of a single option from
// market inputs. It is a pure function of its arguments.
//
// Expired options (TimeToExpiry <= 0) are valued at intrinsic with all
// Greeks zero; there is no time decay to measure. A non-positive volatility
// on the live branch is rejected up front so the d1/d2 division never
// produces NaN.
func Price(in models.MarketInputs, typ models.OptionType) (models.OptionPricing, error) {
	if in.Spot <= 0 {
		return models.OptionPricing{}, apperrors.NewValidationError("spot", in.Spot, "must be positive")
	}
	if in.Strike <= 0 {
		return models.OptionPricing{}, apperrors.NewValidationError("strike", in.Strike, "must be positive")
	}

	intrinsic := IntrinsicValue(in.Spot, in.Strike, typ)

	if in.TimeToExpiry <= 0 {
		return models.OptionPricing{
			Price:          intrinsic,
			IntrinsicValue: intrinsic,
			TimeValue:      0,
			Greeks:         models.Greeks{},
		}, nil
	}

	if in.Volatility <= 0 {
		return models.OptionPricing{}, apperrors.NewPricingError(in.Spot, in.Strike,
			"cannot price live option", apperrors.ErrNonPositiveVol)
	}

	s, k := in.Spot, in.Strike
	t := in.TimeToExpiry
	r, q := in.RiskFreeRate, in.DividendYield
	sigma := in.Volatility

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	discQ := math.Exp(-q * t)
	discR := math.Exp(-r * t)
	nd1 := normCDF(d1)
	nd2 := normCDF(d2)
	pd1 := normPDF(d1)

	var price, delta, theta, rho float64
	if typ == models.Call {
		price = s*discQ*nd1 - k*discR*nd2
		delta = discQ * nd1
		theta = (-s*discQ*pd1*sigma/(2*sqrtT) - r*k*discR*nd2 + q*s*discQ*nd1) / 365
		rho = k * t * discR * nd2 / 100
	} else {
		price = k*discR*normCDF(-d2) - s*discQ*normCDF(-d1)
		delta = -discQ * normCDF(-d1)
		theta = (-s*discQ*pd1*sigma/(2*sqrtT) + r*k*discR*normCDF(-d2) - q*s*discQ*normCDF(-d1)) / 365
		rho = -k * t * discR * normCDF(-d2) / 100
	}

	// Gamma and vega are call/put symmetric.
	gamma := discQ * pd1 / (s * sigma * sqrtT)
	vega := s * discQ * pd1 * sqrtT / 100

	// Floor at intrinsic so numerical noise never reports sub-intrinsic value.
	if price < intrinsic {
		price = intrinsic
	}

	timeValue := price - intrinsic
	if timeValue < 0 {
		timeValue = 0
	}

	return models.OptionPricing{
		Price:          price,
		IntrinsicValue: intrinsic,
		TimeValue:      timeValue,
		Greeks: models.Greeks{
			Delta: delta,
			Gamma: gamma,
			Theta: theta,
			Vega:  vega,
			Rho:   rho,
		},
	}, nil
}

// IntrinsicValue returns the exercise value of an option at the given spot.
func IntrinsicValue(spot, strike float64, typ models.OptionType) float64 {
	var v float64
	if typ == models.Call {
		v = spot - strike
	} else {
		v = strike - spot
	}
	if v < 0 {
		return 0
	}
	return v
}

// ExpirationPayoff returns the payoff of an option at expiry for a given
// underlying price. Identical to IntrinsicValue; named for call sites that
// walk the payoff curve.
func ExpirationPayoff(price, strike float64, typ models.OptionType) float64 {
	return IntrinsicValue(price, strike, typ)
}

// normCDF is the standard normal cumulative distribution function,
// computed as 0.5*(1+erf(x/sqrt2)).
func normCDF(x float64) float64 {
	return 0.5 * (1 + erf(x/math.Sqrt2))
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// erf approximates the error function with the Abramowitz-Stegun rational
// polynomial (maximum absolute error about 1.5e-7).
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + erfP*x)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)

	return sign * y
}
