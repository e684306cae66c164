package types

import (
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// GetD solves the StableSwap invariant (spec §4.3):
//
//	A·n^n·Σxᵢ + D = A·n^n·D + D^(n+1) / (n^n · Πxᵢ)
//
// by Newton iteration starting at D = Σxᵢ, using 512-bit-safe big.Int
// intermediates throughout (ported from
// original_source/pallets/stable-asset/src/lib.rs get_d).
func GetD(balances []sdk.Int, a sdk.Int) (sdk.Int, error) {
	n := big.NewInt(int64(len(balances)))
	sum := new(big.Int)
	ann := new(big.Int).Set(a.BigInt())
	for _, b := range balances {
		sum.Add(sum, b.BigInt())
		ann.Mul(ann, n)
	}
	if sum.Sign() == 0 {
		return sdk.ZeroInt(), nil
	}

	d := new(big.Int).Set(sum)
	aPrecision := APrecision.BigInt()
	for i := 0; i < NumberOfIterationsToConverge; i++ {
		pD := new(big.Int).Set(d)
		for _, b := range balances {
			divOp := new(big.Int).Mul(b.BigInt(), n)
			if divOp.Sign() == 0 {
				return sdk.Int{}, ErrMath
			}
			pD.Mul(pD, d)
			pD.Quo(pD, divOp)
		}
		prevD := new(big.Int).Set(d)

		t1 := new(big.Int).Mul(pD, n)
		t2 := new(big.Int).Mul(new(big.Int).Add(n, big1), pD)
		t3 := new(big.Int).Sub(ann, aPrecision)
		t3.Mul(t3, d)
		t3.Quo(t3, aPrecision)
		t3.Add(t3, t2)
		if t3.Sign() == 0 {
			return sdk.Int{}, ErrMath
		}

		num := new(big.Int).Mul(ann, sum)
		num.Quo(num, aPrecision)
		num.Add(num, t1)
		num.Mul(num, d)
		d = num.Quo(num, t3)

		diff := new(big.Int).Sub(d, prevD)
		if diff.Abs(diff).Cmp(big1) <= 0 {
			break
		}
	}
	return sdk.NewIntFromBigInt(d), nil
}

// GetY solves for the single unknown balance at tokenIndex that reconciles
// balances (all other entries fixed) against targetD (spec §4.3, the
// "y-solver"), ported from the same pallet's get_y.
func GetY(balances []sdk.Int, tokenIndex int, targetD sdk.Int, a sdk.Int) (sdk.Int, error) {
	n := big.NewInt(int64(len(balances)))
	aPrecision := APrecision.BigInt()
	d := targetD.BigInt()

	c := new(big.Int).Set(d)
	sum := new(big.Int)
	ann := new(big.Int).Set(a.BigInt())
	for i, b := range balances {
		ann.Mul(ann, n)
		if i == tokenIndex {
			continue
		}
		sum.Add(sum, b.BigInt())
		divOp := new(big.Int).Mul(b.BigInt(), n)
		if divOp.Sign() == 0 {
			return sdk.Int{}, ErrMath
		}
		c.Mul(c, d)
		c.Quo(c, divOp)
	}

	annN := new(big.Int).Mul(ann, n)
	if annN.Sign() == 0 {
		return sdk.Int{}, ErrMath
	}
	c.Mul(c, d)
	c.Mul(c, aPrecision)
	c.Quo(c, annN)

	b := new(big.Int).Mul(d, aPrecision)
	b.Quo(b, ann)
	b.Add(b, sum)

	y := new(big.Int).Set(d)
	for i := 0; i < NumberOfIterationsToConverge; i++ {
		prevY := new(big.Int).Set(y)

		num := new(big.Int).Mul(y, y)
		num.Add(num, c)
		den := new(big.Int).Mul(y, big2)
		den.Add(den, b)
		den.Sub(den, d)
		if den.Sign() == 0 {
			return sdk.Int{}, ErrMath
		}
		y = num.Quo(num, den)

		diff := new(big.Int).Sub(y, prevY)
		if diff.Abs(diff).Cmp(big1) <= 0 {
			break
		}
	}
	return sdk.NewIntFromBigInt(y), nil
}
