package fixedmath

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestFPAddSubMul(t *testing.T) {
	a := FPFromInt64(3)
	b := FPFromInt64(2)
	require.Equal(t, FPFromInt64(5).raw, a.Add(b).raw)
	require.Equal(t, FPFromInt64(1).raw, a.Sub(b).raw)
	require.Equal(t, FPFromInt64(6).raw, a.Mul(b).raw)
}

func TestFPDivByZero(t *testing.T) {
	a := FPFromInt64(3)
	_, err := a.Div(FPZero)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestFPSaturates(t *testing.T) {
	max := FPMax
	one := FPFromInt64(1)
	got := max.Add(one)
	require.Equal(t, FPMax.raw, got.raw)
}

func TestExpLnRoundTrip(t *testing.T) {
	x := FPFromInt64(2)
	lnX, err := x.Ln()
	require.NoError(t, err)
	back, err := lnX.Exp()
	require.NoError(t, err)

	diff := back.Sub(x)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	tolerance, _ := Div(FPOne, FPFromInt64(1000000))
	require.True(t, diff.Cmp(tolerance) <= 0, "exp(ln(2)) should round-trip to 2 within tolerance, got %s", back.String())
}

func TestPowIntegerExponent(t *testing.T) {
	base := FPFromInt64(3)
	exp := FPFromInt64(2)
	got, err := Pow(base, exp)
	require.NoError(t, err)

	diff := got.Sub(FPFromInt64(9))
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	tolerance, _ := Div(FPOne, FPFromInt64(1000))
	require.True(t, diff.Cmp(tolerance) <= 0, "3^2 should be ~9, got %s", got.String())
}

func TestPowDomainError(t *testing.T) {
	_, err := Pow(FPZero, FPFromInt64(2))
	require.ErrorIs(t, err, ErrDomain)
}

func TestSqrt(t *testing.T) {
	quarter, err := NewRatioFromFraction(sdk.NewInt(1), sdk.NewInt(4))
	require.NoError(t, err)
	got := Sqrt(quarter)
	half, err := NewRatioFromFraction(sdk.NewInt(1), sdk.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, half.raw, got.raw)
}

func TestRatioMulFloorCeil(t *testing.T) {
	half, err := NewRatioFromFraction(sdk.NewInt(1), sdk.NewInt(2))
	require.NoError(t, err)
	u := sdk.NewInt(3)
	require.True(t, half.MulFloor(u).Equal(sdk.NewInt(1)))
	require.True(t, half.MulCeil(u).Equal(sdk.NewInt(2)))
}

func TestRateExchangeRate(t *testing.T) {
	// exchange_rate = 0.02 initial; 1000 underlying -> 50000 cTokens.
	er, err := NewRateFromFraction(sdk.NewInt(2), sdk.NewInt(100))
	require.NoError(t, err)
	cTokens, err := er.DivInt(sdk.NewInt(1000))
	require.NoError(t, err)
	require.True(t, cTokens.Equal(sdk.NewInt(50000)))
}
