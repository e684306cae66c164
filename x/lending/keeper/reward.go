package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// SetRewardSpeeds sets the per-block reward emission for a market's
// supply and borrow sides (spec §4.4.5). Zero disables that side.
func (k *Keeper) SetRewardSpeeds(underlying adapters.AssetID, supplySpeed, borrowSpeed sdk.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.markets[underlying]; !ok {
		return types.ErrMarketDoesNotExist
	}
	k.supplySpeed[underlying] = supplySpeed
	k.borrowSpeed[underlying] = borrowSpeed
	return nil
}

// advanceRewardIndex brings a market's two cumulative reward indices up
// to date for deltaBlocks that just elapsed, scaling each side's
// per-block speed by Δt and spreading it across the side's current total
// (spec §4.4.5). Must be called with k.mu held.
func (k *Keeper) advanceRewardIndex(m *types.Market, deltaBlocks int64) {
	if deltaBlocks <= 0 {
		return
	}
	idx := k.rewardIdx[m.UnderlyingAsset]
	if idx.supply.IsNil() {
		idx.supply = sdk.ZeroInt()
	}
	if idx.borrow.IsNil() {
		idx.borrow = sdk.ZeroInt()
	}

	if speed, ok := k.supplySpeed[m.UnderlyingAsset]; ok && speed.IsPositive() && m.TotalSupply.IsPositive() {
		emitted := speed.MulRaw(deltaBlocks)
		delta, err := fixedmath.NewRateFromFraction(emitted, m.TotalSupply)
		if err == nil {
			idx.supply = idx.supply.Add(delta.Raw())
		}
	}
	if speed, ok := k.borrowSpeed[m.UnderlyingAsset]; ok && speed.IsPositive() && m.TotalBorrows.IsPositive() {
		emitted := speed.MulRaw(deltaBlocks)
		delta, err := fixedmath.NewRateFromFraction(emitted, m.TotalBorrows)
		if err == nil {
			idx.borrow = idx.borrow.Add(delta.Raw())
		}
	}
	k.rewardIdx[m.UnderlyingAsset] = idx
}

// touchAccountReward credits an account's reward_accrued with
// (global_index − snapshot) · balance for both the supply and borrow
// side, then resets its snapshot to the current global index (spec
// §4.4.5). Must be called with k.mu held, after advanceRewardIndex.
func (k *Keeper) touchAccountReward(market adapters.AssetID, account adapters.AccountID, supplyBalance, borrowBalance sdk.Int) {
	key := acctKey{market, account}
	idx := k.rewardIdx[market]
	if idx.supply.IsNil() {
		idx.supply = sdk.ZeroInt()
	}
	if idx.borrow.IsNil() {
		idx.borrow = sdk.ZeroInt()
	}

	accrued, ok := k.rewardAccrued[account]
	if !ok {
		accrued = sdk.ZeroInt()
	}

	if snap, ok := k.supplySnapshot[key]; ok && supplyBalance.IsPositive() {
		rate, err := fixedmath.NewRateFromRaw(idx.supply.Sub(snap))
		if err == nil {
			accrued = accrued.Add(rate.MulInt(supplyBalance))
		}
	}
	if snap, ok := k.borrowSnapshot[key]; ok && borrowBalance.IsPositive() {
		rate, err := fixedmath.NewRateFromRaw(idx.borrow.Sub(snap))
		if err == nil {
			accrued = accrued.Add(rate.MulInt(borrowBalance))
		}
	}

	k.rewardAccrued[account] = accrued
	k.supplySnapshot[key] = idx.supply
	k.borrowSnapshot[key] = idx.borrow
}

// ClaimReward pays an account's full reward_accrued from the reward
// pool account and zeroes it (spec §4.4.5).
func (k *Keeper) ClaimReward(ctx corectx.Context, account adapters.AccountID) (sdk.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	amount, ok := k.rewardAccrued[account]
	if !ok || amount.IsZero() {
		return sdk.ZeroInt(), nil
	}
	if err := k.assets.Transfer(k.rewardAsset, k.rewardPool, account, amount, false); err != nil {
		return sdk.Int{}, err
	}
	k.rewardAccrued[account] = sdk.ZeroInt()
	metrics().observeRewardClaim()
	return amount, nil
}
