package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/types"
)

// touchBonus resets an account's bonus age marker to the current block
// whenever its share balance changes (spec §4.5: bonus age resets on
// any deposit or withdrawal), notifying the registered ShareObserver
// with the pre-mutation shares and prior marker first so it can compute
// its own accrual delta without calling back into k's locked state
// (spec §9).
func (k *Keeper) touchBonus(ctx corectx.Context, pool *types.Pool, account adapters.AccountID, oldUserShares, oldTotalShares sdk.Int) {
	ub, ok := pool.Bonus.PerUser[account]
	if !ok {
		ub = &types.UserBonus{}
		pool.Bonus.PerUser[account] = ub
	}
	now := ctx.BlockHeight()
	if k.observer != nil {
		k.observer.OnShareChange(pool.ID, account, oldUserShares, oldTotalShares, ub.LastBlock, now)
	}
	ub.LastBlock = now
}

func (k *Keeper) creditShares(ctx corectx.Context, pool *types.Pool, account adapters.AccountID, shares sdk.Int) {
	oldUserShares, ok := pool.UserShares[account]
	if !ok {
		oldUserShares = sdk.ZeroInt()
	}
	oldTotalShares := pool.TotalShares
	pool.TotalShares = pool.TotalShares.Add(shares)
	pool.UserShares[account] = oldUserShares.Add(shares)
	k.touchBonus(ctx, pool, account, oldUserShares, oldTotalShares)
	metrics().observeJoin(pool.ID)
	metrics().setTotalShares(pool.ID, intToFloat(pool.TotalShares))
}

func (k *Keeper) debitShares(ctx corectx.Context, pool *types.Pool, account adapters.AccountID, shares sdk.Int) error {
	existing, ok := pool.UserShares[account]
	if !ok {
		existing = sdk.ZeroInt()
	}
	if existing.LT(shares) {
		return types.ErrUserNotInThePool
	}
	oldTotalShares := pool.TotalShares
	pool.TotalShares = pool.TotalShares.Sub(shares)
	pool.UserShares[account] = existing.Sub(shares)
	k.touchBonus(ctx, pool, account, existing, oldTotalShares)
	metrics().observeExit(pool.ID)
	metrics().setTotalShares(pool.ID, intToFloat(pool.TotalShares))
	return nil
}

// AddLiquidityGivenSharesIn implements add_liquidity_given_shares_in
// (spec §4.2): deposits each asset proportionally, rounded UP, for
// newShares worth of LP tokens.
func (k *Keeper) AddLiquidityGivenSharesIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, newShares, minAddedShares sdk.Int) error {
	if newShares.LT(minAddedShares) {
		return types.ErrLessThanMinimumAddedShares
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	amountsIn := make([]sdk.Int, len(pool.Assets))
	for i, a := range pool.Assets {
		// Rounded UP: the pool must never be under-capitalized (spec
		// §4.2).
		num := a.Balance.Mul(newShares)
		amt := num.Quo(pool.TotalShares)
		if !num.Mod(pool.TotalShares).IsZero() {
			amt = amt.Add(sdk.OneInt())
		}
		amountsIn[i] = amt
	}

	poolAddr := pool.Address()
	for i, a := range pool.Assets {
		if err := k.assets.Transfer(a.Asset, lp, poolAddr, amountsIn[i], false); err != nil {
			return err
		}
		pool.Assets[i].Balance = a.Balance.Add(amountsIn[i])
	}
	k.creditShares(ctx, pool, lp, newShares)

	logPool(ctx, "add_liquidity_given_shares_in", poolID).Logger().Info("liquidity added", "shares", newShares)
	return nil
}

// AddSingleLiquidityGivenAmountIn implements
// add_single_liquidity_given_amount_in (spec §4.2).
func (k *Keeper) AddSingleLiquidityGivenAmountIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, asset adapters.AssetID, amountIn, minAddedShares sdk.Int) (sdk.Int, error) {
	if !amountIn.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolAsset, err := pool.GetAsset(asset)
	if err != nil {
		return sdk.Int{}, err
	}
	weight, err := pool.NormalizedWeight(asset)
	if err != nil {
		return sdk.Int{}, err
	}

	sharesOut, err := types.CalcSingleAssetJoinGivenAmountIn(poolAsset.Balance, pool.TotalShares, weight, amountIn, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if !sharesOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	if sharesOut.LT(minAddedShares) {
		return sdk.Int{}, types.ErrLessThanMinimumAddedShares
	}

	if err := k.assets.Transfer(asset, lp, pool.Address(), amountIn, false); err != nil {
		return sdk.Int{}, err
	}
	poolAsset.Balance = poolAsset.Balance.Add(amountIn)
	k.creditShares(ctx, pool, lp, sharesOut)

	logPool(ctx, "add_single_liquidity_given_amount_in", poolID).Logger().Info("single-sided join", "asset", asset, "shares_out", sharesOut)
	return sharesOut, nil
}

// AddSingleLiquidityGivenSharesIn implements
// add_single_liquidity_given_shares_in (spec §4.2): the analytic inverse
// of the amount-in form.
func (k *Keeper) AddSingleLiquidityGivenSharesIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, asset adapters.AssetID, newShares sdk.Int, maxAmountIn sdk.Int) (sdk.Int, error) {
	if !newShares.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolAsset, err := pool.GetAsset(asset)
	if err != nil {
		return sdk.Int{}, err
	}
	weight, err := pool.NormalizedWeight(asset)
	if err != nil {
		return sdk.Int{}, err
	}

	amountIn, err := types.CalcSingleAssetJoinGivenSharesIn(poolAsset.Balance, pool.TotalShares, weight, newShares, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if amountIn.GT(maxAmountIn) {
		return sdk.Int{}, sdkerrors.Wrapf(types.ErrBiggerThanExpectedAmount, "needed %s, allowed at most %s", amountIn, maxAmountIn)
	}

	if err := k.assets.Transfer(asset, lp, pool.Address(), amountIn, false); err != nil {
		return sdk.Int{}, err
	}
	poolAsset.Balance = poolAsset.Balance.Add(amountIn)
	k.creditShares(ctx, pool, lp, newShares)

	logPool(ctx, "add_single_liquidity_given_shares_in", poolID).Logger().Info("single-sided join", "asset", asset, "amount_in", amountIn)
	return amountIn, nil
}

// RemoveSingleAssetLiquidityGivenSharesIn implements
// remove_single_asset_liquidity_given_shares_in (spec §4.2).
func (k *Keeper) RemoveSingleAssetLiquidityGivenSharesIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, asset adapters.AssetID, sharesOut sdk.Int, minAmountOut sdk.Int) (sdk.Int, error) {
	if !sharesOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolAsset, err := pool.GetAsset(asset)
	if err != nil {
		return sdk.Int{}, err
	}
	weight, err := pool.NormalizedWeight(asset)
	if err != nil {
		return sdk.Int{}, err
	}

	amountOut, err := types.CalcSingleAssetExitGivenSharesIn(poolAsset.Balance, pool.TotalShares, weight, sharesOut, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if !amountOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	if amountOut.LT(minAmountOut) {
		return sdk.Int{}, sdkerrors.Wrapf(types.ErrLessThanExpectedAmount, "got %s, wanted at least %s", amountOut, minAmountOut)
	}

	if err := k.debitShares(ctx, pool, lp, sharesOut); err != nil {
		return sdk.Int{}, err
	}
	poolAsset.Balance = poolAsset.Balance.Sub(amountOut)
	if err := k.assets.Transfer(asset, pool.Address(), lp, amountOut, false); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "remove_single_asset_liquidity_given_shares_in", poolID).Logger().Info("single-sided exit", "asset", asset, "amount_out", amountOut)
	return amountOut, nil
}

// RemoveSingleAssetLiquidityGivenAmountIn implements
// remove_single_asset_liquidity_given_amount_in (spec §4.2): the
// analytic inverse of the shares-in form (named "given_amount_in" by the
// spec even though the caller-supplied quantity is the desired output
// amount — the pallet's own naming convention, kept verbatim).
func (k *Keeper) RemoveSingleAssetLiquidityGivenAmountIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, asset adapters.AssetID, amountOut sdk.Int, maxSharesIn sdk.Int) (sdk.Int, error) {
	if !amountOut.IsPositive() {
		return sdk.Int{}, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	poolAsset, err := pool.GetAsset(asset)
	if err != nil {
		return sdk.Int{}, err
	}
	weight, err := pool.NormalizedWeight(asset)
	if err != nil {
		return sdk.Int{}, err
	}

	sharesIn, err := types.CalcSingleAssetExitGivenAmountOut(poolAsset.Balance, pool.TotalShares, weight, amountOut, pool.SwapFee)
	if err != nil {
		return sdk.Int{}, err
	}
	if sharesIn.GT(maxSharesIn) {
		return sdk.Int{}, sdkerrors.Wrapf(types.ErrBiggerThanExpectedAmount, "needed %s shares, allowed at most %s", sharesIn, maxSharesIn)
	}

	if err := k.debitShares(ctx, pool, lp, sharesIn); err != nil {
		return sdk.Int{}, err
	}
	poolAsset.Balance = poolAsset.Balance.Sub(amountOut)
	if err := k.assets.Transfer(asset, pool.Address(), lp, amountOut, false); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "remove_single_asset_liquidity_given_amount_in", poolID).Logger().Info("single-sided exit", "asset", asset, "shares_in", sharesIn)
	return sharesIn, nil
}

// RemoveAssetsLiquidityGivenSharesIn implements
// remove_assets_liquidity_given_shares_in (spec §4.2): pro-rata
// withdrawal across every pool asset, rounded DOWN.
func (k *Keeper) RemoveAssetsLiquidityGivenSharesIn(ctx corectx.Context, lp adapters.AccountID, poolID uint32, sharesOut sdk.Int, minAmountsOut map[adapters.AssetID]sdk.Int) (map[adapters.AssetID]sdk.Int, error) {
	if !sharesOut.IsPositive() {
		return nil, types.ErrAmountShouldBiggerThanZero
	}
	pool, err := k.requireActivePool(poolID)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if existing, ok := pool.UserShares[lp]; !ok || existing.LT(sharesOut) {
		return nil, types.ErrUserNotInThePool
	}

	amountsOut := make(map[adapters.AssetID]sdk.Int, len(pool.Assets))
	for i, a := range pool.Assets {
		amt := a.Balance.Mul(sharesOut).Quo(pool.TotalShares)
		if min, ok := minAmountsOut[a.Asset]; ok && amt.LT(min) {
			return nil, sdkerrors.Wrapf(types.ErrLessThanExpectedAmount, "asset %s: got %s, wanted at least %s", a.Asset, amt, min)
		}
		amountsOut[a.Asset] = amt
		pool.Assets[i].Balance = a.Balance.Sub(amt)
	}

	if err := k.debitShares(ctx, pool, lp, sharesOut); err != nil {
		return nil, err
	}
	poolAddr := pool.Address()
	for asset, amt := range amountsOut {
		if amt.IsZero() {
			continue
		}
		if err := k.assets.Transfer(asset, poolAddr, lp, amt, false); err != nil {
			return nil, err
		}
	}

	logPool(ctx, "remove_assets_liquidity_given_shares_in", poolID).Logger().Info("pro-rata exit", "shares", sharesOut)
	return amountsOut, nil
}
