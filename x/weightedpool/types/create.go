package types

import sdk "github.com/cosmos/cosmos-sdk/types"

// NormalizeWeights rescales raw weights so they sum to exactly
// WeightPrecision (spec §4.2, create_pool): weight[t] <- weight[t] *
// WeightPrecision / Σweight, with any rounding residue assigned to the
// first token so the sum is exact (invariant I-W1).
func NormalizeWeights(rawWeights []sdk.Int) []sdk.Int {
	sum := sdk.ZeroInt()
	for _, w := range rawWeights {
		sum = sum.Add(w)
	}
	normalized := make([]sdk.Int, len(rawWeights))
	runningTotal := sdk.ZeroInt()
	for i, w := range rawWeights {
		normalized[i] = w.Mul(WeightPrecision).Quo(sum)
		runningTotal = runningTotal.Add(normalized[i])
	}
	residue := WeightPrecision.Sub(runningTotal)
	if !residue.IsZero() {
		normalized[0] = normalized[0].Add(residue)
	}
	return normalized
}
