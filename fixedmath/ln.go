package fixedmath

import "math/big"

// ln2Raw is ln(2) pre-scaled by 2^64, computed once to 50 significant
// decimal digits of ln(2) = 0.693147180559945309417232121458...
var ln2Raw, _ = new(big.Int).SetString("12786308645202655660", 10)
var ln2FP = FP{raw: new(big.Int).Set(ln2Raw)}

// lnSeriesTerms bounds the atanh-series iteration count for Ln, matching
// spec §4.1's "32 iterations" convergence bound on the Pow series.
const lnSeriesTerms = 32

// Ln returns the natural logarithm of x, erroring when x <= 0.
func (f FP) Ln() (FP, error) {
	if f.raw.Sign() <= 0 {
		return FP{}, ErrDomain
	}
	if f.Cmp(FPOne) == 0 {
		return FPZero, nil
	}

	// Range-reduce: x = m * 2^k, with m in [1, 2).
	bitLen := f.raw.BitLen()
	k := bitLen - 1 - fpFractionalBits

	var mRaw *big.Int
	if k >= 0 {
		mRaw = new(big.Int).Rsh(f.raw, uint(k))
	} else {
		mRaw = new(big.Int).Lsh(f.raw, uint(-k))
	}
	m := FP{raw: mRaw}

	lnM, err := lnNearOne(m)
	if err != nil {
		return FP{}, err
	}
	kFP := FPFromInt64(int64(k))
	return kFP.Mul(ln2FP).Add(lnM), nil
}

// lnNearOne computes ln(m) for m in [1,2) via the atanh series
//
//	ln(m) = 2*atanh(t),  t = (m-1)/(m+1) in [0, 1/3]
//	atanh(t) = t + t^3/3 + t^5/5 + ...
//
// which converges in a handful of terms for |t| <= 1/3 and is bounded at
// lnSeriesTerms to satisfy the "does not converge within 32 iterations"
// failure mode named in spec §4.1.
func lnNearOne(m FP) (FP, error) {
	num := m.Sub(FPOne)
	den := m.Add(FPOne)
	t, err := num.Div(den)
	if err != nil {
		return FP{}, err
	}
	tt := t.Mul(t)

	sum := t
	term := t
	for i := int64(1); i < lnSeriesTerms; i++ {
		term = term.Mul(tt)
		denom := FPFromInt64(2*i + 1)
		add, err := term.Div(denom)
		if err != nil {
			return FP{}, err
		}
		if add.IsZero() {
			two := FPFromInt64(2)
			return sum.Mul(two), nil
		}
		sum = sum.Add(add)
	}
	return FP{}, ErrNoConvergence
}
