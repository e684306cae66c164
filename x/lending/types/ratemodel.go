package types

import "github.com/bifrost-finance/defi-engine/fixedmath"

// RateModel computes the per-block borrow rate at a given utilization
// (spec §4.4.1, "Rate models").
type RateModel interface {
	// BorrowRate returns the per-block borrow Rate at the given
	// utilization ratio.
	BorrowRate(utilization fixedmath.Ratio) fixedmath.Rate
	// Validate rejects parameter combinations spec §4.4.1 names as
	// invalid: base > 1, jump > full, kink > 1.
	Validate() error
}

// JumpRateModel is piecewise-linear in utilization: linear from Base to
// Jump below Kink, then linear from Jump to Full above it (spec §4.4.1).
type JumpRateModel struct {
	Base fixedmath.Rate
	Jump fixedmath.Rate
	Full fixedmath.Rate
	Kink fixedmath.Ratio
}

func (m JumpRateModel) Validate() error {
	if m.Base.GT(fixedmath.RateOne) {
		return ErrInvalidRateModelParam
	}
	if m.Jump.GT(m.Full) {
		return ErrInvalidRateModelParam
	}
	if m.Kink.Cmp(fixedmath.RatioOne) > 0 {
		return ErrInvalidRateModelParam
	}
	return nil
}

// BorrowRate implements the two linear segments. Below kink:
//
//	base + (jump-base) * utilization/kink
//
// above kink:
//
//	jump + (full-jump) * (utilization-kink)/(1-kink)
func (m JumpRateModel) BorrowRate(utilization fixedmath.Ratio) fixedmath.Rate {
	if m.Kink.IsZero() {
		return m.Jump
	}
	if utilization.Cmp(m.Kink) <= 0 {
		span := m.Jump.Sub(m.Base)
		frac, err := fixedmath.NewRatioFromFraction(utilization.Raw(), m.Kink.Raw())
		if err != nil {
			return m.Base
		}
		return m.Base.Add(span.MulRatio(frac))
	}
	above, err := fixedmath.NewRatioFromFraction(utilization.Sub(m.Kink).Raw(), m.Kink.Complement().Raw())
	if err != nil {
		return m.Full
	}
	span := m.Full.Sub(m.Jump)
	return m.Jump.Add(span.MulRatio(above))
}

// CurveRateModel is the quadratic model named by spec §4.4.1: "utilization
// · base · (a polynomial)". original_source's shared rate-model crate is
// not part of the retrieved pack, so the polynomial is resolved here as
// utilization itself, giving rate = base * utilization^2 — a monotone,
// convex curve consistent with the spec's qualitative description and
// with Curve{base}'s single free parameter.
type CurveRateModel struct {
	Base fixedmath.Rate
}

func (m CurveRateModel) Validate() error {
	if m.Base.GT(fixedmath.RateOne) {
		return ErrInvalidRateModelParam
	}
	return nil
}

func (m CurveRateModel) BorrowRate(utilization fixedmath.Ratio) fixedmath.Rate {
	u := utilization.Mul(utilization)
	return m.Base.MulRatio(u)
}
