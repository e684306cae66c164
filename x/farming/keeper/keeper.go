// Package keeper implements LiquidityMiner (spec §4.5): age- and
// share-weighted bonus accrual over a ShareSource venue's LP shares,
// with the teacher's keeper-over-owned-maps shape.
package keeper

import (
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/farming/types"
)

type acctKey struct {
	pool    uint32
	account adapters.AccountID
}

// Keeper owns every pool's bonus bookkeeping: how much of its configured
// bonus allocation has been deducted so far, and each account's unclaimed
// balance. It never touches a ShareSource's own state directly (spec §9).
type Keeper struct {
	mu sync.RWMutex

	source         types.ShareSource
	assets         adapters.Assets
	bonusAsset     adapters.AssetID
	bonusPool      adapters.AccountID
	ageDenominator sdk.Int

	bonusPoolTotal map[uint32]sdk.Int
	deducted       map[uint32]sdk.Int
	unclaimed      map[acctKey]sdk.Int
}

// NewKeeper wires a Keeper to the venue it observes (e.g. WeightedPool's
// keeper, which satisfies types.ShareSource), the incentive token it
// pays out, the account it draws that token from, and the block span
// over which bonus age ratio saturates to 1.0 (spec §4.5's
// bonus_denominator, grounded on the source pallet's
// BonusClaimAgeDenominator).
func NewKeeper(source types.ShareSource, assets adapters.Assets, bonusAsset adapters.AssetID, bonusPool adapters.AccountID, ageDenominator sdk.Int) *Keeper {
	return &Keeper{
		source:         source,
		assets:         assets,
		bonusAsset:     bonusAsset,
		bonusPool:      bonusPool,
		ageDenominator: ageDenominator,
		bonusPoolTotal: make(map[uint32]sdk.Int),
		deducted:       make(map[uint32]sdk.Int),
		unclaimed:      make(map[acctKey]sdk.Int),
	}
}

// SetBonusPoolTotal configures poolID's total bonus allocation (the
// source pallet's get_bonus_pool_balance, left as an unimplemented stub
// upstream and recovered here as an explicit settable parameter).
func (k *Keeper) SetBonusPoolTotal(poolID uint32, total sdk.Int) error {
	if total.IsNegative() {
		return types.ErrInvalidBonusPoolTotal
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bonusPoolTotal[poolID] = total
	return nil
}

// UnclaimedBonus reports account's currently accrued, unclaimed balance
// in poolID, without triggering a fresh accrual.
func (k *Keeper) UnclaimedBonus(poolID uint32, account adapters.AccountID) sdk.Int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	amount, ok := k.unclaimed[acctKey{poolID, account}]
	if !ok {
		return sdk.ZeroInt()
	}
	return amount
}

// DeductedBonus reports how much of poolID's total bonus allocation has
// been accrued to date, across every account (spec §4.5's
// deducted_bonus_amount).
func (k *Keeper) DeductedBonus(poolID uint32) sdk.Int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	amount, ok := k.deducted[poolID]
	if !ok {
		return sdk.ZeroInt()
	}
	return amount
}

func (k *Keeper) remainingBonusPoolLocked(poolID uint32) sdk.Int {
	total, ok := k.bonusPoolTotal[poolID]
	if !ok {
		total = types.DefaultBonusPoolTotal
	}
	deducted, ok := k.deducted[poolID]
	if !ok {
		deducted = sdk.ZeroInt()
	}
	remaining := total.Sub(deducted)
	if remaining.IsNegative() {
		return sdk.ZeroInt()
	}
	return remaining
}

// accrueLocked implements spec §4.5's formula: ratio = (user_shares /
// total_shares) · (blocks_since_last / bonus_denominator); delta = ratio
// · remaining_bonus_pool. Must be called with k.mu held. The age-ratio
// factor clamps at 1.0 when blocks_since_last exceeds the denominator,
// per the spec's resolution of that otherwise-unspecified case.
func (k *Keeper) accrueLocked(poolID uint32, account adapters.AccountID, userShares, totalShares sdk.Int, lastBlock, now int64) {
	age := now - lastBlock
	if age <= 0 {
		return
	}
	ageRatio, err := fixedmath.NewRatioFromFraction(sdk.NewInt(age), k.ageDenominator)
	if err != nil {
		ageRatio = fixedmath.RatioOne
	}
	shareRatio, err := fixedmath.NewRatioFromFraction(userShares, totalShares)
	if err != nil {
		return
	}
	ratio := ageRatio.Mul(shareRatio)
	delta := ratio.MulFloor(k.remainingBonusPoolLocked(poolID))
	if delta.IsZero() {
		return
	}

	key := acctKey{poolID, account}
	existing, ok := k.unclaimed[key]
	if !ok {
		existing = sdk.ZeroInt()
	}
	k.unclaimed[key] = existing.Add(delta)

	deducted, ok := k.deducted[poolID]
	if !ok {
		deducted = sdk.ZeroInt()
	}
	k.deducted[poolID] = deducted.Add(delta)
}

// OnShareChange implements weightedpool's types.ShareObserver: it is
// called with the pre-mutation share balances and the account's prior
// bonus age marker every time a deposit or withdrawal changes its share
// balance (spec §4.5's "on every share-balance change").
func (k *Keeper) OnShareChange(poolID uint32, account adapters.AccountID, oldUserShares, oldTotalShares sdk.Int, lastBonusBlock, now int64) {
	if !oldTotalShares.IsPositive() || !oldUserShares.IsPositive() {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.accrueLocked(poolID, account, oldUserShares, oldTotalShares, lastBonusBlock, now)
}
