package keeper

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/types"
)

// TokenSpec is one (asset, balance, weight) triple supplied to CreatePool
// (spec §4.2, create_pool).
type TokenSpec struct {
	Asset   adapters.AssetID
	Balance sdk.Int
	Weight  sdk.Int // raw, pre-normalization
}

// CreatePool validates and constructs a new, initially-inactive
// WeightedPool, moving each token's opening balance from owner into the
// pool's custody account and minting firstShareAmount LP shares to owner
// (spec §4.2).
func (k *Keeper) CreatePool(ctx corectx.Context, owner adapters.AccountID, swapFee fixedmath.Ratio, tokens []TokenSpec, firstShareAmount sdk.Int) (uint32, error) {
	if len(tokens) < 2 || len(tokens) > types.MaxSupportedTokens {
		return 0, sdkerrors.Wrapf(types.ErrTooManyTokens, "got %d tokens", len(tokens))
	}
	if !firstShareAmount.IsPositive() {
		return 0, types.ErrAmountShouldBiggerThanZero
	}
	seen := make(map[adapters.AssetID]bool, len(tokens))
	rawWeights := make([]sdk.Int, len(tokens))
	for i, t := range tokens {
		if !t.Balance.IsPositive() {
			return 0, sdkerrors.Wrapf(types.ErrAmountShouldBiggerThanZero, "asset %s", t.Asset)
		}
		if seen[t.Asset] {
			return 0, sdkerrors.Wrapf(types.ErrDuplicateAsset, "asset %s", t.Asset)
		}
		seen[t.Asset] = true
		rawWeights[i] = t.Weight
	}

	k.mu.Lock()
	poolID := k.nextID
	k.nextID++
	k.mu.Unlock()

	normalizedWeights := types.NormalizeWeights(rawWeights)
	assets := make([]types.PoolAsset, len(tokens))
	for i, t := range tokens {
		assets[i] = types.PoolAsset{Asset: t.Asset, Balance: t.Balance, Weight: normalizedWeights[i]}
	}

	pool := &types.Pool{
		ID:          poolID,
		Owner:       owner,
		Active:      false,
		SwapFee:     swapFee,
		Assets:      assets,
		TotalShares: firstShareAmount,
		UserShares:  map[adapters.AccountID]sdk.Int{owner: firstShareAmount},
		Bonus: types.BonusState{
			PerUser: make(map[adapters.AccountID]*types.UserBonus),
		},
	}

	poolAddr := pool.Address()
	for _, t := range tokens {
		if err := k.assets.Transfer(t.Asset, owner, poolAddr, t.Balance, false); err != nil {
			return 0, err
		}
	}
	pool.Bonus.PerUser[owner] = &types.UserBonus{LastBlock: ctx.BlockHeight()}

	k.mu.Lock()
	k.pools[poolID] = pool
	k.mu.Unlock()

	logPool(ctx, "create_pool", poolID).Logger().Info("weighted pool created", "owner", owner, "num_assets", len(tokens))
	metrics().observePoolCreated()
	metrics().setTotalShares(poolID, intToFloat(firstShareAmount))
	return poolID, nil
}

// ActivatePool is the owner-only call that flips a freshly-created pool
// from Active=false to Active=true (spec §3.2 lifecycle).
func (k *Keeper) ActivatePool(ctx corectx.Context, caller adapters.AccountID, poolID uint32) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	k.mu.Lock()
	pool.Active = true
	k.mu.Unlock()
	logPool(ctx, "activate_pool", poolID).Logger().Info("weighted pool activated")
	return nil
}

// DeactivatePool is the owner-only call rejecting all further user
// operations on the pool (spec §3.2: "may be deactivated by owner").
func (k *Keeper) DeactivatePool(ctx corectx.Context, caller adapters.AccountID, poolID uint32) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	k.mu.Lock()
	pool.Active = false
	k.mu.Unlock()
	logPool(ctx, "deactivate_pool", poolID).Logger().Info("weighted pool deactivated")
	return nil
}

// UpdateSwapFee is the owner-only parameter edit named by spec §3.2
// ("owner: account permitted to edit parameters").
func (k *Keeper) UpdateSwapFee(ctx corectx.Context, caller adapters.AccountID, poolID uint32, newFee fixedmath.Ratio) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	if pool.Owner != caller {
		return types.ErrNotPoolOwner
	}
	if newFee.Cmp(fixedmath.RatioOne) >= 0 {
		return types.ErrInvalidFactor
	}
	k.mu.Lock()
	pool.SwapFee = newFee
	k.mu.Unlock()
	logPool(ctx, "update_swap_fee", poolID).Logger().Info("swap fee updated")
	return nil
}
