package fixedmath

import (
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RatioPrecision is the fixed denominator backing Ratio, matching the
// 18-decimal Ratio/Rate convention named in spec §3.1.
var RatioPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Ratio is an unsigned fixed-point value constrained to [0, 1], 18
// decimals, used for fees, weights, collateral/reserve/utilization
// factors.
type Ratio struct {
	raw *big.Int // value * 10^18, 0 <= raw <= 10^18
}

// RatioZero, RatioOne are the domain endpoints.
var (
	RatioZero = Ratio{raw: new(big.Int)}
	RatioOne  = Ratio{raw: new(big.Int).Set(RatioPrecision)}
)

// NewRatioFromRaw builds a Ratio from a pre-scaled numerator (value *
// 10^18), rejecting values outside [0, 1].
func NewRatioFromRaw(raw sdk.Int) (Ratio, error) {
	b := raw.BigInt()
	if b.Sign() < 0 || b.Cmp(RatioPrecision) > 0 {
		return Ratio{}, ErrDomain
	}
	return Ratio{raw: new(big.Int).Set(b)}, nil
}

// NewRatioFromFraction builds num/den as a Ratio, rejecting den<=0 or a
// result outside [0, 1].
func NewRatioFromFraction(num, den sdk.Int) (Ratio, error) {
	if den.IsZero() || den.IsNegative() {
		return Ratio{}, ErrDivideByZero
	}
	raw := new(big.Int).Mul(num.BigInt(), RatioPrecision)
	raw.Quo(raw, den.BigInt())
	if raw.Sign() < 0 || raw.Cmp(RatioPrecision) > 0 {
		return Ratio{}, ErrDomain
	}
	return Ratio{raw: raw}, nil
}

// Raw returns the underlying 10^18-scaled integer.
func (r Ratio) Raw() sdk.Int { return sdk.NewIntFromBigInt(r.raw) }

func (r Ratio) IsZero() bool { return r.raw.Sign() == 0 }

// Add/Sub saturate at [0,1] rather than erroring: callers that need exact
// overflow detection should compare operands before calling.
func (r Ratio) Add(o Ratio) Ratio {
	v := new(big.Int).Add(r.raw, o.raw)
	if v.Cmp(RatioPrecision) > 0 {
		v = new(big.Int).Set(RatioPrecision)
	}
	return Ratio{raw: v}
}

func (r Ratio) Sub(o Ratio) Ratio {
	v := new(big.Int).Sub(r.raw, o.raw)
	if v.Sign() < 0 {
		v = new(big.Int)
	}
	return Ratio{raw: v}
}

// Mul multiplies two Ratios (both within [0,1], so the product always is).
func (r Ratio) Mul(o Ratio) Ratio {
	v := new(big.Int).Mul(r.raw, o.raw)
	v.Quo(v, RatioPrecision)
	return Ratio{raw: v}
}

// Cmp compares r and o.
func (r Ratio) Cmp(o Ratio) int { return r.raw.Cmp(o.raw) }

// MulFloor computes floor(u * r) for a raw balance u, the rounding
// direction spec §4.1 requires when a deduction must never overpay (e.g.
// the amount credited to a liquidator).
func (r Ratio) MulFloor(u sdk.Int) sdk.Int {
	v := new(big.Int).Mul(u.BigInt(), r.raw)
	v.Quo(v, RatioPrecision)
	return sdk.NewIntFromBigInt(v)
}

// MulCeil computes ceil(u * r), the rounding direction spec §4.1 requires
// when an amount deducted from a user must never undercharge.
func (r Ratio) MulCeil(u sdk.Int) sdk.Int {
	num := new(big.Int).Mul(u.BigInt(), r.raw)
	q, rem := new(big.Int).QuoRem(num, RatioPrecision, new(big.Int))
	if rem.Sign() != 0 {
		q.Add(q, bigOne)
	}
	return sdk.NewIntFromBigInt(q)
}

// Complement returns 1-r.
func (r Ratio) Complement() Ratio {
	return Ratio{raw: new(big.Int).Sub(RatioPrecision, r.raw)}
}

// ToFP lifts a Ratio into the signed FP domain for use in Pow/Exp/Ln.
func (r Ratio) ToFP() FP {
	raw := new(big.Int).Mul(r.raw, fpScale)
	raw.Quo(raw, RatioPrecision)
	return fpClamp(raw)
}

func (r Ratio) String() string {
	return Rate{raw: new(big.Int).Set(r.raw)}.String()
}
