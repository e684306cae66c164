package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
)

// ShareSource is the read-only contract a staking venue (WeightedPool,
// and potentially StableSwapPool) exposes so that LiquidityMiner can
// compute bonus accrual without ever calling that venue's own mutation
// methods (spec §9, "farming is a pure observer"). TotalShares and
// UserShares are the (user_shares, total_shares) terms of the accrual
// ratio (spec §4.5); BonusLastTouch/AdvanceBonusAge expose the same
// per-account age marker the venue's own share-changing operations
// advance internally, used only on the Claim path where no share
// change happens to advance it implicitly.
type ShareSource interface {
	TotalShares(poolID uint32) (sdk.Int, error)
	UserShares(poolID uint32, account adapters.AccountID) (sdk.Int, error)
	BonusLastTouch(poolID uint32, account adapters.AccountID) (int64, error)
	AdvanceBonusAge(poolID uint32, account adapters.AccountID, now int64) error
}

// DefaultBonusPoolTotal seeds a newly-observed pool's total bonus
// allocation when no explicit SetBonusPoolTotal call has been made yet.
// The source pallet never actually wired this figure to a real issuance
// schedule ("to get from other pallets. Not yet implemented" in the
// original get_bonus_pool_balance stub); 100_000_000 is carried over
// verbatim as the placeholder default, overridable per pool.
var DefaultBonusPoolTotal = sdk.NewInt(100_000_000)
