package fixedmath

import (
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Rate is an unsigned fixed-point value with 18 decimals and no upper
// bound, used for borrow indices and cToken exchange rates (spec §3.1).
type Rate struct {
	raw *big.Int // value * 10^18, raw >= 0
}

// RateOne is 1.0 in Rate terms (the initial borrow index, spec §3.4).
var RateOne = Rate{raw: new(big.Int).Set(RatioPrecision)}

// RateZero is 0.
var RateZero = Rate{raw: new(big.Int)}

// NewRateFromRaw builds a Rate from a pre-scaled (value * 10^18) integer,
// rejecting negative values.
func NewRateFromRaw(raw sdk.Int) (Rate, error) {
	b := raw.BigInt()
	if b.Sign() < 0 {
		return Rate{}, ErrDomain
	}
	return Rate{raw: new(big.Int).Set(b)}, nil
}

// NewRateFromFraction builds num/den as a Rate.
func NewRateFromFraction(num, den sdk.Int) (Rate, error) {
	if den.IsZero() {
		return Rate{}, ErrDivideByZero
	}
	raw := new(big.Int).Mul(num.BigInt(), RatioPrecision)
	raw.Quo(raw, den.BigInt())
	if raw.Sign() < 0 {
		return Rate{}, ErrDomain
	}
	return Rate{raw: raw}, nil
}

func (r Rate) Raw() sdk.Int  { return sdk.NewIntFromBigInt(r.raw) }
func (r Rate) IsZero() bool  { return r.raw.Sign() == 0 }
func (r Rate) Cmp(o Rate) int { return r.raw.Cmp(o.raw) }
func (r Rate) GT(o Rate) bool  { return r.raw.Cmp(o.raw) > 0 }
func (r Rate) GTE(o Rate) bool { return r.raw.Cmp(o.raw) >= 0 }
func (r Rate) LT(o Rate) bool  { return r.raw.Cmp(o.raw) < 0 }
func (r Rate) LTE(o Rate) bool { return r.raw.Cmp(o.raw) <= 0 }

func (r Rate) Add(o Rate) Rate {
	return Rate{raw: new(big.Int).Add(r.raw, o.raw)}
}

// Sub floors at zero: Rate is defined non-negative (spec §3.1).
func (r Rate) Sub(o Rate) Rate {
	v := new(big.Int).Sub(r.raw, o.raw)
	if v.Sign() < 0 {
		v = new(big.Int)
	}
	return Rate{raw: v}
}

func (r Rate) Mul(o Rate) Rate {
	v := new(big.Int).Mul(r.raw, o.raw)
	v.Quo(v, RatioPrecision)
	return Rate{raw: v}
}

func (r Rate) MulRatio(o Ratio) Rate {
	v := new(big.Int).Mul(r.raw, o.raw)
	v.Quo(v, RatioPrecision)
	return Rate{raw: v}
}

// Div divides r by o, erroring on a zero divisor.
func (r Rate) Div(o Rate) (Rate, error) {
	if o.raw.Sign() == 0 {
		return Rate{}, ErrDivideByZero
	}
	v := new(big.Int).Mul(r.raw, RatioPrecision)
	v.Quo(v, o.raw)
	return Rate{raw: v}, nil
}

// MulInt computes floor(u * r) for a raw balance u (e.g. underlying =
// voucher_balance * exchange_rate, spec §4.4.2).
func (r Rate) MulInt(u sdk.Int) sdk.Int {
	v := new(big.Int).Mul(u.BigInt(), r.raw)
	v.Quo(v, RatioPrecision)
	return sdk.NewIntFromBigInt(v)
}

// DivInt computes floor(u / r) for a raw balance u (e.g. cTokens minted =
// amount / exchange_rate, spec §4.4.2), erroring on r == 0.
func (r Rate) DivInt(u sdk.Int) (sdk.Int, error) {
	if r.raw.Sign() == 0 {
		return sdk.Int{}, ErrDivideByZero
	}
	v := new(big.Int).Mul(u.BigInt(), RatioPrecision)
	v.Quo(v, r.raw)
	return sdk.NewIntFromBigInt(v), nil
}

// ToFP lifts a Rate into the signed FP domain.
func (r Rate) ToFP() FP {
	raw := new(big.Int).Mul(r.raw, fpScale)
	raw.Quo(raw, RatioPrecision)
	return fpClamp(raw)
}

func (r Rate) String() string {
	intPart := new(big.Int).Quo(r.raw, RatioPrecision)
	rem := new(big.Int).Rem(r.raw, RatioPrecision)
	return intPart.String() + "." + padLeft(rem.String(), 18)
}
