package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/fixedmath"
)

// solveConstantFunctionInvariant is the weighted-pool value-function
// solver every public operation below reduces to, ported from the
// teacher's x/gamm/pool-models/balancer/amm.go "solveConstantFunctionInvariant"
// (itself sdk.Dec-based) onto fixedmath.FP:
//
//	delta = balanceUnknownBefore * (1 - (balanceFixedBefore/balanceFixedAfter)^(weightFixed/weightUnknown))
//
// delta is positive when the unknown-side balance decreases (a swap/exit),
// negative when it increases (a join).
func solveConstantFunctionInvariant(
	balanceFixedBefore, balanceFixedAfter sdk.Int,
	weightFixed fixedmath.Ratio,
	balanceUnknownBefore sdk.Int,
	weightUnknown fixedmath.Ratio,
) (fixedmath.FP, error) {
	weightRatio, err := fixedmath.Div(weightFixed.ToFP(), weightUnknown.ToFP())
	if err != nil {
		return fixedmath.FP{}, err
	}
	y, err := fixedmath.Div(fixedmath.FPFromInt(balanceFixedBefore), fixedmath.FPFromInt(balanceFixedAfter))
	if err != nil {
		return fixedmath.FP{}, err
	}
	powed, err := fixedmath.Pow(y, weightRatio)
	if err != nil {
		return fixedmath.FP{}, err
	}
	multiplier := fixedmath.FPOne.Sub(powed)
	return fixedmath.FPFromInt(balanceUnknownBefore).Mul(multiplier), nil
}

// CalcOutGivenIn implements swap_exact_in (spec §4.2):
//
//	amount_out = b_o * (1 - (b_i / (b_i + a_i*(1-f)))^(w_i/w_o))
func CalcOutGivenIn(balanceIn, balanceOut sdk.Int, weightIn, weightOut fixedmath.Ratio, amountIn sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	amountInAfterFee := swapFee.Complement().MulFloor(amountIn)
	balanceInAfter := balanceIn.Add(amountInAfterFee)
	delta, err := solveConstantFunctionInvariant(balanceIn, balanceInAfter, weightIn, balanceOut, weightOut)
	if err != nil {
		return sdk.Int{}, err
	}
	return delta.ToIntTruncate(), nil
}

// CalcInGivenOut implements swap_exact_out (spec §4.2):
//
//	amount_in = b_i * ((b_o/(b_o-a_o))^(w_o/w_i) - 1) / (1-f)
func CalcInGivenOut(balanceIn, balanceOut sdk.Int, weightIn, weightOut fixedmath.Ratio, amountOut sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	balanceOutAfter := balanceOut.Sub(amountOut)
	delta, err := solveConstantFunctionInvariant(balanceOut, balanceOutAfter, weightOut, balanceIn, weightIn)
	if err != nil {
		return sdk.Int{}, err
	}
	amountInBeforeFee, err := fixedmath.Div(delta.Neg(), swapFee.Complement().ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	// Round UP: the pool must never receive less than the invariant
	// requires (spec §4.1's ceil-on-deduction rationale).
	return ceilFP(amountInBeforeFee), nil
}

// CalcSingleAssetJoinGivenAmountIn implements add_single_liquidity_given_amount_in
// (spec §4.2):
//
//	shares_out = S * ((1 + amount_in*(1-(1-w)*f)/b)^w - 1)
func CalcSingleAssetJoinGivenAmountIn(balance, totalShares sdk.Int, weight fixedmath.Ratio, amountIn sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	effectiveFee := weight.Complement().Mul(swapFee)
	amountAfterFee := effectiveFee.Complement().MulFloor(amountIn)
	x, err := fixedmath.Div(fixedmath.FPFromInt(amountAfterFee), fixedmath.FPFromInt(balance))
	if err != nil {
		return sdk.Int{}, err
	}
	base := fixedmath.FPOne.Add(x)
	powed, err := fixedmath.Pow(base, weight.ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	sharesOut := fixedmath.FPFromInt(totalShares).Mul(powed.Sub(fixedmath.FPOne))
	return sharesOut.ToIntTruncate(), nil
}

// CalcSingleAssetJoinGivenSharesIn implements add_single_liquidity_given_shares_in
// (spec §4.2), the analytic inverse of the amount-in form:
//
//	amount_in = b * (((S+new_shares)/S)^(1/w) - 1) / (1 - (1-w)*f)
func CalcSingleAssetJoinGivenSharesIn(balance, totalShares sdk.Int, weight fixedmath.Ratio, newShares sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	ratio, err := fixedmath.Div(fixedmath.FPFromInt(totalShares.Add(newShares)), fixedmath.FPFromInt(totalShares))
	if err != nil {
		return sdk.Int{}, err
	}
	invWeight, err := fixedmath.Div(fixedmath.FPOne, weight.ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	powed, err := fixedmath.Pow(ratio, invWeight)
	if err != nil {
		return sdk.Int{}, err
	}
	raw := fixedmath.FPFromInt(balance).Mul(powed.Sub(fixedmath.FPOne))

	effectiveFee := weight.Complement().Mul(swapFee)
	amountIn, err := fixedmath.Div(raw, effectiveFee.Complement().ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	return ceilFP(amountIn), nil
}

// CalcSingleAssetExitGivenSharesIn implements
// remove_single_asset_liquidity_given_shares_in (spec §4.2):
//
//	amount_out = b * (1 - ((S-shares_out)/S)^(1/w)) * (1 - (1-w)*f)
func CalcSingleAssetExitGivenSharesIn(balance, totalShares sdk.Int, weight fixedmath.Ratio, sharesOut sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	ratio, err := fixedmath.Div(fixedmath.FPFromInt(totalShares.Sub(sharesOut)), fixedmath.FPFromInt(totalShares))
	if err != nil {
		return sdk.Int{}, err
	}
	invWeight, err := fixedmath.Div(fixedmath.FPOne, weight.ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	powed, err := fixedmath.Pow(ratio, invWeight)
	if err != nil {
		return sdk.Int{}, err
	}
	effectiveFee := weight.Complement().Mul(swapFee)
	amountOut := fixedmath.FPFromInt(balance).Mul(fixedmath.FPOne.Sub(powed)).Mul(effectiveFee.Complement().ToFP())
	// Rounded DOWN: dust stays in the pool (spec §4.2, tie-break rule).
	return amountOut.ToIntTruncate(), nil
}

// CalcSingleAssetExitGivenAmountOut implements
// remove_single_asset_liquidity_given_amount_in (spec §4.2), the inverse:
//
//	shares_in = S * (1 - (1 - amount_out/(b*(1-(1-w)*f)))^w)
func CalcSingleAssetExitGivenAmountOut(balance, totalShares sdk.Int, weight fixedmath.Ratio, amountOut sdk.Int, swapFee fixedmath.Ratio) (sdk.Int, error) {
	effectiveFee := weight.Complement().Mul(swapFee)
	denom := effectiveFee.Complement().MulFloor(balance)
	x, err := fixedmath.Div(fixedmath.FPFromInt(amountOut), fixedmath.FPFromInt(denom))
	if err != nil {
		return sdk.Int{}, err
	}
	base := fixedmath.FPOne.Sub(x)
	powed, err := fixedmath.Pow(base, weight.ToFP())
	if err != nil {
		return sdk.Int{}, err
	}
	sharesIn := fixedmath.FPFromInt(totalShares).Mul(fixedmath.FPOne.Sub(powed))
	return ceilFP(sharesIn), nil
}

// ceilFP converts a non-negative FP to sdk.Int, rounding away from zero
// when there is a fractional remainder (spec §4.1's "mul_ceil" rounding
// direction, generalized past Ratio to FP results).
func ceilFP(f fixedmath.FP) sdk.Int {
	truncated := f.ToIntTruncate()
	back := fixedmath.FPFromInt(truncated)
	if f.Cmp(back) > 0 {
		return truncated.Add(sdk.OneInt())
	}
	return truncated
}
