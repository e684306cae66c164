package fixedmath

import "errors"

var (
	// ErrDivideByZero is returned by Div/Quo when the divisor is zero.
	ErrDivideByZero = errors.New("fixedmath: divide by zero")
	// ErrDomain is returned by Pow when base <= 0, or by Ln when x <= 0.
	ErrDomain = errors.New("fixedmath: domain error")
	// ErrOverflow is returned by Pow when exp*ln(base) saturates FP's
	// representable range.
	ErrOverflow = errors.New("fixedmath: overflow")
	// ErrNoConvergence is returned when Pow's series fails to converge
	// within the bounded iteration count.
	ErrNoConvergence = errors.New("fixedmath: series did not converge")
)
