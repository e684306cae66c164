package fixedmath

import (
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// fpFractionalBits is the number of fractional bits carried by FP, per
// spec §3.1 ("64 fractional bits").
const fpFractionalBits = 64

// fpBitWidth bounds FP the way Substrate's FixedI128 bounds its signed
// fixed-point type: a 128-bit two's-complement raw value, 64 of which are
// fractional. Saturating arithmetic clamps to this range instead of
// growing without bound, the way sdk.Int's underlying big.Int would.
const fpBitWidth = 128

var (
	fpScale    = new(big.Int).Lsh(big.NewInt(1), fpFractionalBits)
	fpMaxRaw   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), fpBitWidth-1), big.NewInt(1))
	fpMinRaw   = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), fpBitWidth-1))
	bigZero    = big.NewInt(0)
	bigOne     = big.NewInt(1)
	fpOneRaw   = new(big.Int).Set(fpScale)
	fpHalfRaw  = new(big.Int).Rsh(fpScale, 1)
)

// FP is a signed fixed-point number with 64 fractional bits, saturating to
// [FPMin, FPMax] on overflow instead of wrapping or panicking.
type FP struct {
	raw *big.Int // value * 2^64
}

// FPZero is the additive identity.
var FPZero = FP{raw: new(big.Int)}

// FPOne is the multiplicative identity.
var FPOne = FP{raw: new(big.Int).Set(fpOneRaw)}

// FPMax and FPMin are the saturation bounds.
var (
	FPMax = FP{raw: new(big.Int).Set(fpMaxRaw)}
	FPMin = FP{raw: new(big.Int).Set(fpMinRaw)}
)

func fpClamp(v *big.Int) FP {
	if v.Cmp(fpMaxRaw) > 0 {
		return FP{raw: new(big.Int).Set(fpMaxRaw)}
	}
	if v.Cmp(fpMinRaw) < 0 {
		return FP{raw: new(big.Int).Set(fpMinRaw)}
	}
	return FP{raw: v}
}

// FPFromInt64 builds an FP from a whole number.
func FPFromInt64(i int64) FP {
	raw := new(big.Int).Mul(big.NewInt(i), fpScale)
	return fpClamp(raw)
}

// FPFromInt converts a raw sdk.Int (an integer number of whole units, not
// fixed-point units) into FP, saturating on overflow.
func FPFromInt(i sdk.Int) FP {
	raw := new(big.Int).Mul(i.BigInt(), fpScale)
	return fpClamp(raw)
}

// ToIntTruncate converts FP back to an integer sdk.Int, truncating the
// fractional part toward zero and saturating to the Int128 the caller can
// represent (sdk.Int itself is unbounded, so this never actually clamps;
// it exists to document the conversion direction named in spec §4.1).
func (f FP) ToIntTruncate() sdk.Int {
	q := new(big.Int).Quo(f.raw, fpScale)
	return sdk.NewIntFromBigInt(q)
}

// IsZero, IsNegative, IsPositive report the sign of f.
func (f FP) IsZero() bool     { return f.raw.Sign() == 0 }
func (f FP) IsNegative() bool { return f.raw.Sign() < 0 }
func (f FP) IsPositive() bool { return f.raw.Sign() > 0 }

// Neg returns -f, saturating.
func (f FP) Neg() FP {
	return fpClamp(new(big.Int).Neg(f.raw))
}

// Add returns f+g, saturating.
func (f FP) Add(g FP) FP {
	return fpClamp(new(big.Int).Add(f.raw, g.raw))
}

// Sub returns f-g, saturating.
func (f FP) Sub(g FP) FP {
	return fpClamp(new(big.Int).Sub(f.raw, g.raw))
}

// Mul returns f*g, saturating. The raw product is divided back down by the
// fixed-point scale with truncation toward zero.
func (f FP) Mul(g FP) FP {
	prod := new(big.Int).Mul(f.raw, g.raw)
	prod.Quo(prod, fpScale)
	return fpClamp(prod)
}

// Div returns f/g. Unlike Mul/Add/Sub, division by zero is a hard error
// rather than a saturating result, matching spec §4.1's "failing with
// DivideByZero when b = 0".
func (f FP) Div(g FP) (FP, error) {
	if g.raw.Sign() == 0 {
		return FP{}, ErrDivideByZero
	}
	num := new(big.Int).Mul(f.raw, fpScale)
	num.Quo(num, g.raw)
	return fpClamp(num), nil
}

// Cmp compares f and g the way big.Int.Cmp does.
func (f FP) Cmp(g FP) int { return f.raw.Cmp(g.raw) }

// String renders a decimal approximation for logging/debugging.
func (f FP) String() string {
	// raw / 2^64, rendered via sdk.Dec-free long division to 18 places.
	neg := f.raw.Sign() < 0
	abs := new(big.Int).Abs(f.raw)
	intPart := new(big.Int).Quo(abs, fpScale)
	rem := new(big.Int).Rem(abs, fpScale)
	// rem/2^64 * 10^18
	tenE18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	frac := new(big.Int).Mul(rem, tenE18)
	frac.Quo(frac, fpScale)
	sign := ""
	if neg {
		sign = "-"
	}
	return sign + intPart.String() + "." + padLeft(frac.String(), 18)
}

func padLeft(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}
