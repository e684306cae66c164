package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/stableswap/types"
)

// AssetSpec is one (asset, precision) pair supplied to CreatePool, with
// an optional rebasing token-rate (spec §3.3, create).
type AssetSpec struct {
	Asset                adapters.AssetID
	Precision            sdk.Int
	TokenRateNumerator   sdk.Int
	TokenRateDenominator sdk.Int
}

// CreatePool constructs a new, empty StableSwapPool with no initial
// liquidity, an initial amplification of initialA (immediately ramped to
// itself so EffectiveA is constant until the first RampA), and the
// caller-supplied lpAsset as its LP asset id, held by nobody until Mint
// issues shares.
func (k *Keeper) CreatePool(ctx corectx.Context, owner adapters.AccountID, lpAsset adapters.AssetID, assetSpecs []AssetSpec, initialA sdk.Int, mintFee, swapFee, redeemFee sdk.Int, feeRecipient, yieldRecipient adapters.AccountID) (uint32, error) {
	if len(assetSpecs) < 2 || len(assetSpecs) > types.MaxPoolAssets {
		return 0, sdkerrors.Wrapf(types.ErrTooManyAssets, "got %d assets", len(assetSpecs))
	}
	for _, f := range []sdk.Int{mintFee, swapFee, redeemFee} {
		if f.IsNegative() || f.GTE(types.FeePrecision) {
			return 0, types.ErrInvalidFeeValue
		}
	}

	poolAssets := make([]types.PoolAsset, len(assetSpecs))
	balances := make([]sdk.Int, len(assetSpecs))
	for i, spec := range assetSpecs {
		rateNum, rateDen := spec.TokenRateNumerator, spec.TokenRateDenominator
		if rateDen.IsNil() {
			rateNum, rateDen = sdk.ZeroInt(), sdk.ZeroInt()
		}
		poolAssets[i] = types.PoolAsset{
			Asset:                spec.Asset,
			Precision:            spec.Precision,
			TokenRateNumerator:   rateNum,
			TokenRateDenominator: rateDen,
		}
		balances[i] = sdk.ZeroInt()
	}

	k.mu.Lock()
	poolID := k.nextID
	k.nextID++

	pool := &types.Pool{
		ID:             poolID,
		Owner:          owner,
		LPAsset:        lpAsset,
		Assets:         poolAssets,
		Balances:       balances,
		A:              initialA,
		ABlock:         ctx.BlockHeight(),
		FutureA:        initialA,
		FutureABlock:   ctx.BlockHeight(),
		MintFee:        mintFee,
		SwapFee:        swapFee,
		RedeemFee:      redeemFee,
		TotalSupply:    sdk.ZeroInt(),
		FeeRecipient:   feeRecipient,
		YieldRecipient: yieldRecipient,
	}
	k.pools[poolID] = pool
	k.mu.Unlock()

	logPool(ctx, "create_pool", poolID).Logger().Info("stableswap pool created", "owner", owner, "num_assets", len(assetSpecs))
	metrics().observePoolCreated()
	return poolID, nil
}

// RampA schedules a linear amplification-coefficient change, following
// original_source/pallets/stable-asset/src/lib.rs's modify_a (spec §4.3,
// "added": RampA).
func (k *Keeper) RampA(ctx corectx.Context, caller adapters.AccountID, poolID uint32, futureA sdk.Int, futureABlock int64) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	if futureABlock <= ctx.BlockHeight() {
		return types.ErrArgumentsError
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	pool.A = pool.EffectiveA(ctx.BlockHeight())
	pool.ABlock = ctx.BlockHeight()
	pool.FutureA = futureA
	pool.FutureABlock = futureABlock
	logPool(ctx, "ramp_a", poolID).Logger().Info("amplification ramp scheduled", "future_a", futureA, "future_a_block", futureABlock)
	return nil
}

// ModifyFees is the owner-only parameter edit named by spec §3.3's
// lifecycle ("mutated by ... modify_fees").
func (k *Keeper) ModifyFees(ctx corectx.Context, caller adapters.AccountID, poolID uint32, mintFee, swapFee, redeemFee sdk.Int) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	for _, f := range []sdk.Int{mintFee, swapFee, redeemFee} {
		if f.IsNegative() || f.GTE(types.FeePrecision) {
			return types.ErrInvalidFeeValue
		}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	pool.MintFee, pool.SwapFee, pool.RedeemFee = mintFee, swapFee, redeemFee
	logPool(ctx, "modify_fees", poolID).Logger().Info("fees updated")
	return nil
}

// ModifyRecipients is the owner-only parameter edit named by spec §3.3's
// lifecycle ("mutated by ... modify_recipients").
func (k *Keeper) ModifyRecipients(ctx corectx.Context, caller adapters.AccountID, poolID uint32, feeRecipient, yieldRecipient adapters.AccountID) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	pool.FeeRecipient = feeRecipient
	pool.YieldRecipient = yieldRecipient
	logPool(ctx, "modify_recipients", poolID).Logger().Info("recipients updated")
	return nil
}
