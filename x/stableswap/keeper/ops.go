package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/stableswap/types"
)

// collectYield re-reads the pool's live underlying balances through the
// Assets adapter (spec §4.3, "collect_yield"), projects them onto
// normalized balances via precision·token_rate, and mints the resulting D
// increase as LP to yield_recipient. Callers must already hold k.mu.
func (k *Keeper) collectYield(ctx corectx.Context, poolID uint32, pool *types.Pool) error {
	oldD := pool.TotalSupply
	liveBalances := make([]sdk.Int, len(pool.Assets))
	for i, pa := range pool.Assets {
		raw := k.assets.BalanceOf(pa.Asset, pool.Address())
		liveBalances[i] = pa.Rebase(raw)
	}
	newD, err := types.GetD(liveBalances, pool.EffectiveA(ctx.BlockHeight()))
	if err != nil {
		return sdkerrors.Wrap(types.ErrMath, err.Error())
	}
	if newD.LT(oldD) {
		return types.ErrInvalidPoolValue
	}
	pool.Balances = liveBalances
	if newD.GT(oldD) {
		yieldAmount := newD.Sub(oldD)
		if err := k.assets.Deposit(pool.LPAsset, pool.YieldRecipient, yieldAmount); err != nil {
			return err
		}
		pool.TotalSupply = newD
		logPool(ctx, "collect_yield", poolID).Logger().Info("yield collected", "amount", yieldAmount)
	}
	return nil
}

// collectFee recomputes D against the pool's actual (post-operation)
// balances and mints any positive drift as a further fee to fee_recipient
// (spec §4.3, "collect_fee": "recompute D against actual balances to
// account for rounding"). Callers must already hold k.mu.
func (k *Keeper) collectFee(ctx corectx.Context, poolID uint32, pool *types.Pool) error {
	actualD, err := types.GetD(pool.Balances, pool.EffectiveA(ctx.BlockHeight()))
	if err != nil {
		return sdkerrors.Wrap(types.ErrMath, err.Error())
	}
	if actualD.LTE(pool.TotalSupply) {
		return nil
	}
	feeAmount := actualD.Sub(pool.TotalSupply)
	if err := k.assets.Deposit(pool.LPAsset, pool.FeeRecipient, feeAmount); err != nil {
		return err
	}
	pool.TotalSupply = actualD
	logPool(ctx, "collect_fee", poolID).Logger().Info("rounding fee collected", "amount", feeAmount)
	return nil
}

// Mint implements mint (spec §4.3).
func (k *Keeper) Mint(ctx corectx.Context, who adapters.AccountID, poolID uint32, amounts []sdk.Int, minMint sdk.Int) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if len(amounts) != len(pool.Assets) {
		return sdk.Int{}, types.ErrArgumentsMismatch
	}
	if err := k.collectYield(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	oldD := pool.TotalSupply
	newBalances := make([]sdk.Int, len(pool.Assets))
	for i, pa := range pool.Assets {
		if amounts[i].IsZero() {
			if oldD.IsZero() {
				return sdk.Int{}, types.ErrArgumentsError
			}
			newBalances[i] = pool.Balances[i]
			continue
		}
		if amounts[i].IsNegative() {
			return sdk.Int{}, types.ErrArgumentsError
		}
		newBalances[i] = pool.Balances[i].Add(amounts[i].Mul(pa.Precision))
	}

	newD, err := types.GetD(newBalances, pool.EffectiveA(ctx.BlockHeight()))
	if err != nil {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrMath, err.Error())
	}
	mintAmount := newD.Sub(oldD)
	feeAmount := sdk.ZeroInt()
	if pool.MintFee.IsPositive() {
		feeAmount = mintAmount.Mul(pool.MintFee).Quo(types.FeePrecision)
		mintAmount = mintAmount.Sub(feeAmount)
	}
	if mintAmount.LT(minMint) {
		return sdk.Int{}, types.ErrMintUnderMin
	}

	poolAddr := pool.Address()
	for i, pa := range pool.Assets {
		if amounts[i].IsZero() {
			continue
		}
		if err := k.assets.Transfer(pa.Asset, who, poolAddr, amounts[i], false); err != nil {
			return sdk.Int{}, err
		}
	}
	if err := k.assets.Deposit(pool.LPAsset, who, mintAmount); err != nil {
		return sdk.Int{}, err
	}
	if feeAmount.IsPositive() {
		if err := k.assets.Deposit(pool.LPAsset, pool.FeeRecipient, feeAmount); err != nil {
			return sdk.Int{}, err
		}
	}
	pool.Balances = newBalances
	pool.TotalSupply = newD

	if err := k.collectFee(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "mint", poolID).Logger().Info("minted", "who", who, "mint_amount", mintAmount, "fee_amount", feeAmount)
	metrics().observeMint(poolID, intToFloat(pool.TotalSupply))
	return mintAmount, nil
}

// Swap implements swap (spec §4.3).
func (k *Keeper) Swap(ctx corectx.Context, who adapters.AccountID, poolID uint32, assetIn, assetOut adapters.AssetID, dx sdk.Int, minDy sdk.Int) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	i, err := pool.AssetIndex(assetIn)
	if err != nil {
		return sdk.Int{}, err
	}
	j, err := pool.AssetIndex(assetOut)
	if err != nil {
		return sdk.Int{}, err
	}
	if i == j {
		return sdk.Int{}, types.ErrArgumentsError
	}
	if !dx.IsPositive() {
		return sdk.Int{}, types.ErrArgumentsError
	}

	if err := k.collectYield(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	a := pool.EffectiveA(ctx.BlockHeight())
	d := pool.TotalSupply
	balances := append([]sdk.Int(nil), pool.Balances...)
	balances[i] = balances[i].Add(dx.Mul(pool.Assets[i].Precision))

	y, err := types.GetY(balances, j, d, a)
	if err != nil {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrMath, err.Error())
	}
	dy := balances[j].Sub(y).Sub(sdk.OneInt()).Quo(pool.Assets[j].Precision)
	if pool.SwapFee.IsPositive() {
		feeAmount := dy.Mul(pool.SwapFee).Quo(types.FeePrecision)
		dy = dy.Sub(feeAmount)
	}
	if dy.LT(minDy) {
		return sdk.Int{}, types.ErrSwapUnderMin
	}

	poolAddr := pool.Address()
	if err := k.assets.Transfer(assetIn, who, poolAddr, dx, false); err != nil {
		return sdk.Int{}, err
	}
	if err := k.assets.Transfer(assetOut, poolAddr, who, dy, false); err != nil {
		return sdk.Int{}, err
	}
	balances[j] = balances[j].Sub(dy.Mul(pool.Assets[j].Precision))
	pool.Balances = balances

	if err := k.collectFee(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "swap", poolID).Logger().Info("swapped", "who", who, "asset_in", assetIn, "asset_out", assetOut, "dx", dx, "dy", dy)
	metrics().observeSwap(poolID)
	return dy, nil
}

// RedeemProportion implements redeem_proportion (spec §4.3).
func (k *Keeper) RedeemProportion(ctx corectx.Context, who adapters.AccountID, poolID uint32, amount sdk.Int, minAmounts []sdk.Int) ([]sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if !amount.IsPositive() {
		return nil, types.ErrArgumentsError
	}
	if len(minAmounts) != len(pool.Assets) {
		return nil, types.ErrArgumentsMismatch
	}
	if err := k.collectYield(ctx, poolID, pool); err != nil {
		return nil, err
	}

	feeAmount := sdk.ZeroInt()
	redeemAmount := amount
	if pool.RedeemFee.IsPositive() {
		feeAmount = amount.Mul(pool.RedeemFee).Quo(types.FeePrecision)
		redeemAmount = amount.Sub(feeAmount)
	}

	d := pool.TotalSupply
	balances := append([]sdk.Int(nil), pool.Balances...)
	amountsOut := make([]sdk.Int, len(pool.Assets))
	for i, pa := range pool.Assets {
		diff := balances[i].Mul(redeemAmount).Quo(d)
		balances[i] = balances[i].Sub(diff)
		amountsOut[i] = diff.Quo(pa.Precision)
		if amountsOut[i].LT(minAmounts[i]) {
			return nil, types.ErrRedeemUnderMin
		}
	}

	if err := k.assets.Withdraw(pool.LPAsset, who, amount); err != nil {
		return nil, err
	}
	poolAddr := pool.Address()
	for i, pa := range pool.Assets {
		if amountsOut[i].IsZero() {
			continue
		}
		if err := k.assets.Transfer(pa.Asset, poolAddr, who, amountsOut[i], false); err != nil {
			return nil, err
		}
	}
	if feeAmount.IsPositive() {
		if err := k.assets.Deposit(pool.LPAsset, pool.FeeRecipient, feeAmount); err != nil {
			return nil, err
		}
	}
	pool.Balances = balances
	pool.TotalSupply = d.Sub(redeemAmount)

	if err := k.collectFee(ctx, poolID, pool); err != nil {
		return nil, err
	}

	logPool(ctx, "redeem_proportion", poolID).Logger().Info("redeemed proportionally", "who", who, "amount", amount)
	metrics().observeRedeem(poolID, intToFloat(pool.TotalSupply))
	return amountsOut, nil
}

// RedeemSingle implements redeem_single (spec §4.3).
func (k *Keeper) RedeemSingle(ctx corectx.Context, who adapters.AccountID, poolID uint32, amount sdk.Int, asset adapters.AssetID, minOut sdk.Int) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	i, err := pool.AssetIndex(asset)
	if err != nil {
		return sdk.Int{}, err
	}
	if !amount.IsPositive() {
		return sdk.Int{}, types.ErrArgumentsError
	}
	if err := k.collectYield(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	feeAmount := sdk.ZeroInt()
	redeemAmount := amount
	if pool.RedeemFee.IsPositive() {
		feeAmount = amount.Mul(pool.RedeemFee).Quo(types.FeePrecision)
		redeemAmount = amount.Sub(feeAmount)
	}

	a := pool.EffectiveA(ctx.BlockHeight())
	d := pool.TotalSupply
	targetD := d.Sub(redeemAmount)
	y, err := types.GetY(pool.Balances, i, targetD, a)
	if err != nil {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrMath, err.Error())
	}
	balanceI := pool.Balances[i]
	dy := balanceI.Sub(y).Sub(sdk.OneInt()).Quo(pool.Assets[i].Precision)
	if dy.LT(minOut) {
		return sdk.Int{}, types.ErrRedeemUnderMin
	}

	if err := k.assets.Withdraw(pool.LPAsset, who, amount); err != nil {
		return sdk.Int{}, err
	}
	if err := k.assets.Transfer(asset, pool.Address(), who, dy, false); err != nil {
		return sdk.Int{}, err
	}
	if feeAmount.IsPositive() {
		if err := k.assets.Deposit(pool.LPAsset, pool.FeeRecipient, feeAmount); err != nil {
			return sdk.Int{}, err
		}
	}
	pool.Balances[i] = y
	pool.TotalSupply = targetD

	if err := k.collectFee(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "redeem_single", poolID).Logger().Info("redeemed single-sided", "who", who, "asset", asset, "dy", dy)
	metrics().observeRedeem(poolID, intToFloat(pool.TotalSupply))
	return dy, nil
}

// RedeemMulti implements redeem_multi (spec §4.3).
func (k *Keeper) RedeemMulti(ctx corectx.Context, who adapters.AccountID, poolID uint32, amounts []sdk.Int, maxBurn sdk.Int) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if len(amounts) != len(pool.Assets) {
		return sdk.Int{}, types.ErrArgumentsMismatch
	}
	if err := k.collectYield(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	oldD := pool.TotalSupply
	balancesAfter := append([]sdk.Int(nil), pool.Balances...)
	for i, pa := range pool.Assets {
		if amounts[i].IsZero() {
			continue
		}
		balancesAfter[i] = balancesAfter[i].Sub(amounts[i].Mul(pa.Precision))
		if balancesAfter[i].IsNegative() {
			return sdk.Int{}, types.ErrArgumentsError
		}
	}
	newD, err := types.GetD(balancesAfter, pool.EffectiveA(ctx.BlockHeight()))
	if err != nil {
		return sdk.Int{}, sdkerrors.Wrap(types.ErrMath, err.Error())
	}

	diffD := oldD.Sub(newD)
	if diffD.LTE(sdk.ZeroInt()) {
		return sdk.Int{}, types.ErrArgumentsError
	}
	denom := types.FeePrecision.Sub(pool.RedeemFee)
	if denom.LTE(sdk.ZeroInt()) {
		return sdk.Int{}, types.ErrMath
	}
	redeem := diffD.Mul(types.FeePrecision).Quo(denom)
	feeAmount := redeem.Sub(diffD)
	burn := redeem.Sub(feeAmount)
	if redeem.GT(maxBurn) {
		return sdk.Int{}, types.ErrRedeemOverMax
	}

	if err := k.assets.Withdraw(pool.LPAsset, who, burn); err != nil {
		return sdk.Int{}, err
	}
	poolAddr := pool.Address()
	for i, pa := range pool.Assets {
		if amounts[i].IsZero() {
			continue
		}
		if err := k.assets.Transfer(pa.Asset, poolAddr, who, amounts[i], false); err != nil {
			return sdk.Int{}, err
		}
	}
	if feeAmount.IsPositive() {
		if err := k.assets.Deposit(pool.LPAsset, pool.FeeRecipient, feeAmount); err != nil {
			return sdk.Int{}, err
		}
	}
	pool.Balances = balancesAfter
	pool.TotalSupply = newD

	if err := k.collectFee(ctx, poolID, pool); err != nil {
		return sdk.Int{}, err
	}

	logPool(ctx, "redeem_multi", poolID).Logger().Info("redeemed multi-asset", "who", who, "burned", redeem)
	metrics().observeRedeem(poolID, intToFloat(pool.TotalSupply))
	return redeem, nil
}
