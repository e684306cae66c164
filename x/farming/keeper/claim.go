package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/farming/types"
)

// Claim settles account's currently accrued bonus in poolID (spec
// §4.5): it first recalculates accrual up to the current block, since
// no share-changing operation will do it on its behalf, then transfers
// the result from the bonus pool account and zeroes the balance.
func (k *Keeper) Claim(ctx corectx.Context, account adapters.AccountID, poolID uint32) (sdk.Int, error) {
	now := ctx.BlockHeight()

	totalShares, err := k.source.TotalShares(poolID)
	if err != nil {
		return sdk.Int{}, err
	}
	userShares, err := k.source.UserShares(poolID, account)
	if err != nil {
		return sdk.Int{}, err
	}
	lastBlock, err := k.source.BonusLastTouch(poolID, account)
	if err != nil {
		return sdk.Int{}, err
	}

	key := acctKey{poolID, account}
	k.mu.Lock()
	if totalShares.IsPositive() && userShares.IsPositive() {
		k.accrueLocked(poolID, account, userShares, totalShares, lastBlock, now)
	}
	amount, ok := k.unclaimed[key]
	if !ok {
		amount = sdk.ZeroInt()
	}
	k.mu.Unlock()

	if !amount.IsPositive() {
		return sdk.Int{}, types.ErrNothingToClaim
	}

	// Transfer before debiting the unclaimed balance or advancing the
	// age marker: a failed payout must leave the account free to retry
	// the claim in full.
	if err := k.assets.Transfer(k.bonusAsset, k.bonusPool, account, amount, false); err != nil {
		return sdk.Int{}, err
	}
	if err := k.source.AdvanceBonusAge(poolID, account, now); err != nil {
		return sdk.Int{}, err
	}

	k.mu.Lock()
	k.unclaimed[key] = k.unclaimed[key].Sub(amount)
	k.mu.Unlock()

	ctx.With("module", types.ModuleName, "op", "claim", "pool_id", poolID).Logger().Info("bonus claimed", "account", account, "amount", amount)
	metrics().observeClaim(poolID, k.DeductedBonus(poolID))
	return amount, nil
}
