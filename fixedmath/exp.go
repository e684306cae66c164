package fixedmath

import "math/big"

// expSeriesTerms bounds the Maclaurin-series iteration count for Exp,
// matching spec §4.1's "does not converge within 32 iterations" bound.
const expSeriesTerms = 32

// Exp returns e^f, saturating to FPMax if the result would overflow FP's
// representable range.
func (f FP) Exp() (FP, error) {
	if f.IsZero() {
		return FPOne, nil
	}

	// Range-reduce: f = n*ln2 + r, |r| <= ln2/2, so exp(r) converges fast
	// and exp(f) = exp(r) * 2^n (a cheap bit shift in raw terms).
	n, r, err := reduceByLn2(f)
	if err != nil {
		return FP{}, err
	}

	expR, err := expNearZero(r)
	if err != nil {
		return FP{}, err
	}

	raw := new(big.Int).Set(expR.raw)
	if n >= 0 {
		raw.Lsh(raw, uint(n))
	} else {
		raw.Rsh(raw, uint(-n))
	}
	return fpClamp(raw), nil
}

func reduceByLn2(f FP) (n int, r FP, err error) {
	q, qerr := f.Div(ln2FP)
	if qerr != nil {
		return 0, FP{}, qerr
	}
	// Round q to nearest integer.
	nBig := new(big.Int).Quo(q.raw, fpScale)
	rem := new(big.Int).Rem(q.raw, fpScale)
	rem.Abs(rem)
	if new(big.Int).Lsh(rem, 1).Cmp(fpScale) >= 0 {
		if q.IsNegative() {
			nBig.Sub(nBig, bigOne)
		} else {
			nBig.Add(nBig, bigOne)
		}
	}
	n = int(nBig.Int64())
	nFP := FPFromInt64(int64(n))
	r = f.Sub(nFP.Mul(ln2FP))
	return n, r, nil
}

// expNearZero computes e^r for small |r| (|r| <= ~ln2/2) via a bounded
// Maclaurin series: e^r = sum_{i=0}^{N} r^i / i!
func expNearZero(r FP) (FP, error) {
	sum := FPOne
	term := FPOne
	for i := int64(1); i < expSeriesTerms; i++ {
		term = term.Mul(r)
		denom := FPFromInt64(i)
		var err error
		term, err = term.Div(denom)
		if err != nil {
			return FP{}, err
		}
		if term.IsZero() {
			return sum, nil
		}
		sum = sum.Add(term)
	}
	return FP{}, ErrNoConvergence
}
