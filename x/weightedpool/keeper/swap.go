package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/types"
)

// checkMaxSwapInRatio enforces invariant I-W3: trade_in / balance[in] <=
// 1/MaxSwapInRatio, i.e. balance[in] >= amountIn * MaxSwapInRatio.
func checkMaxSwapInRatio(balanceIn, amountIn sdk.Int) error {
	limit := amountIn.MulRaw(types.MaxSwapInRatio)
	if balanceIn.LT(limit) {
		return sdkerrors.Wrapf(types.ErrExceedMaximumSwapInRatio,
			"balance %s, amount in %s, max ratio %d", balanceIn, amountIn, types.MaxSwapInRatio)
	}
	return nil
}

// SwapExactAmountIn implements swap_exact_in (spec §4.2): trades a known
// amountIn of assetIn for assetOut, failing if the output would be below
// minAmountOut (slippage) or if the trade would exceed MaxSwapInRatio.
func (k *Keeper) SwapExactAmountIn(ctx corectx.Context, trader adapters.AccountID, poolID uint32, assetIn adapters.AssetID, amountIn sdk.Int, assetOut adapters.AssetID, minAmountOut sdk.Int) (sdk.Int, error) {
	if assetIn == assetOut {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrTokenNotExist, "cannot swap an asset for itself")
	}
	if !amountIn.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolIn, err := pool.GetAsset(assetIn)
	if err != nil {
		return sdk.Int{}, err
	}
	poolOut, err := pool.GetAsset(assetOut)
	if err != nil {
		return sdk.Int{}, err
	}
	if err := checkMaxSwapInRatio(poolIn.Balance, amountIn); err != nil {
		return sdk.Int{}, err
	}

	weightIn, err := pool.NormalizedWeight(assetIn)
	if err != nil {
		return sdk.Int{}, err
	}
	weightOut, err := pool.NormalizedWeight(assetOut)
	if err != nil {
		return sdk.Int{}, err
	}

	amountOut, err := types.CalcOutGivenIn(poolIn.Balance, poolOut.Balance, weightIn, weightOut, amountIn, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if !amountOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	if amountOut.LT(minAmountOut) {
		return sdk.Int{}, sdkerrors.Wrapf(types.ErrLessThanExpectedAmount, "got %s, wanted at least %s", amountOut, minAmountOut)
	}

	if err := k.assets.Transfer(assetIn, trader, pool.Address(), amountIn, false); err != nil {
		return sdk.Int{}, err
	}
	if err := k.assets.Transfer(assetOut, pool.Address(), trader, amountOut, false); err != nil {
		return sdk.Int{}, err
	}
	poolIn.Balance = poolIn.Balance.Add(amountIn)
	poolOut.Balance = poolOut.Balance.Sub(amountOut)

	logPool(ctx, "swap_exact_in", poolID).Logger().Info("swap executed",
		"asset_in", assetIn, "amount_in", amountIn, "asset_out", assetOut, "amount_out", amountOut)
	metrics().observeSwap(poolID)
	return amountOut, nil
}

// SwapExactAmountOut implements swap_exact_out (spec §4.2): trades at
// most maxAmountIn of assetIn for a known amountOut of assetOut.
func (k *Keeper) SwapExactAmountOut(ctx corectx.Context, trader adapters.AccountID, poolID uint32, assetIn adapters.AssetID, maxAmountIn sdk.Int, assetOut adapters.AssetID, amountOut sdk.Int) (sdk.Int, error) {
	if assetIn == assetOut {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrTokenNotExist, "cannot swap an asset for itself")
	}
	if !amountOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolIn, err := pool.GetAsset(assetIn)
	if err != nil {
		return sdk.Int{}, err
	}
	poolOut, err := pool.GetAsset(assetOut)
	if err != nil {
		return sdk.Int{}, err
	}
	if amountOut.GTE(poolOut.Balance) {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrBiggerThanExpectedAmount, "cannot drain more than the pool holds")
	}

	weightIn, err := pool.NormalizedWeight(assetIn)
	if err != nil {
		return sdk.Int{}, err
	}
	weightOut, err := pool.NormalizedWeight(assetOut)
	if err != nil {
		return sdk.Int{}, err
	}

	amountIn, err := types.CalcInGivenOut(poolIn.Balance, poolOut.Balance, weightIn, weightOut, amountOut, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if !amountIn.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	if err := checkMaxSwapInRatio(poolIn.Balance, amountIn); err != nil {
		return sdk.Int{}, err
	}
	if amountIn.GT(maxAmountIn) {
		return sdk.Int{}, sdkerrors.Wrapf(types.ErrBiggerThanExpectedAmount, "needed %s, allowed at most %s", amountIn, maxAmountIn)
	}

	if err := k.assets.Transfer(assetIn, trader, pool.Address(), amountIn, false); err != nil {
		return sdk.Int{}, err
	}
	if err := k.assets.Transfer(assetOut, pool.Address(), trader, amountOut, false); err != nil {
		return sdk.Int{}, err
	}
	poolIn.Balance = poolIn.Balance.Add(amountIn)
	poolOut.Balance = poolOut.Balance.Sub(amountOut)

	logPool(ctx, "swap_exact_out", poolID).Logger().Info("swap executed",
		"asset_in", assetIn, "amount_in", amountIn, "asset_out", assetOut, "amount_out", amountOut)
	metrics().observeSwap(poolID)
	return amountIn, nil
}
