package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/fixedmath"
)

// MaxSupportedTokens bounds the number of distinct assets a pool may hold
// (spec §3.2).
const MaxSupportedTokens = 8

// MaxSwapInRatio is stored as a divisor-inverse: 2 means "at most one
// half of the pool's balance may be swapped in at once" (spec §4.2,
// glossary).
const MaxSwapInRatio = 2

// WeightPrecision is the fixed denominator backing normalized weights
// (spec §6): each Weight is an integer numerator over 10^8.
var WeightPrecision = sdk.NewInt(100_000_000)

// PoolAsset is one leg of a WeightedPool: its current balance and
// normalized weight (numerator over WeightPrecision).
type PoolAsset struct {
	Asset   adapters.AssetID
	Balance sdk.Int
	Weight  sdk.Int // numerator over WeightPrecision; Σ Weight == WeightPrecision
}

// UserBonus tracks the block at which an account's secondary-incentive
// age was last reset (spec §3.2, bonus_state): on every share-balance
// change. The accrued amount itself is x/farming's bookkeeping, not the
// pool's; the pool only ever hands farming this marker.
type UserBonus struct {
	LastBlock int64
}

// BonusState holds the per-account age markers backing a secondary
// incentive token layered on the pool's primary LP shares (spec §3.2).
// The accrual formula and payout ledger live in x/farming, which treats
// a Pool purely as a ShareSource and age-marker source (spec §9).
type BonusState struct {
	PerUser map[adapters.AccountID]*UserBonus
}

// ShareObserver receives a callback whenever a pool's share balances
// change, carrying the pre-mutation shares and the account's previous
// bonus age marker. x/farming implements this to compute its own bonus
// accrual without ever calling back into the pool's locked state (spec
// §9: farming is a pure observer, never the reverse).
type ShareObserver interface {
	OnShareChange(poolID uint32, account adapters.AccountID, oldUserShares, oldTotalShares sdk.Int, lastBonusBlock, now int64)
}

// Pool is the WeightedPool aggregate (spec §3.2).
type Pool struct {
	ID          uint32
	Owner       adapters.AccountID
	Active      bool
	SwapFee     fixedmath.Ratio
	Assets      []PoolAsset // ordered, length in [2, MaxSupportedTokens]
	TotalShares sdk.Int
	UserShares  map[adapters.AccountID]sdk.Int
	Bonus       BonusState
}

// Address is the pool's self-custody account, deterministically derived
// from its id (spec §9, "self-referential pool-account model"): every
// Assets.Transfer call the keeper makes looks identical whether it moves
// funds to/from a user or to/from the pool itself.
func (p *Pool) Address() adapters.AccountID {
	return PoolAddress(p.ID)
}

// PoolAddress derives a WeightedPool's custody account id from its pool
// id.
func PoolAddress(poolID uint32) adapters.AccountID {
	return adapters.AccountID("weightedpool/" + sdk.NewIntFromUint64(uint64(poolID)).String())
}

// GetAsset returns the PoolAsset for the given asset id, or
// ErrTokenNotExist.
func (p *Pool) GetAsset(asset adapters.AssetID) (*PoolAsset, error) {
	for i := range p.Assets {
		if p.Assets[i].Asset == asset {
			return &p.Assets[i], nil
		}
	}
	return nil, ErrTokenNotExist
}

// NormalizedWeight returns weight[asset] / Σweight as a Ratio (Σweight is
// always exactly WeightPrecision after construction, so this is just
// Weight/WeightPrecision, but the division is kept explicit per spec
// §3.2's invariant statement).
func (p *Pool) NormalizedWeight(asset adapters.AssetID) (fixedmath.Ratio, error) {
	pa, err := p.GetAsset(asset)
	if err != nil {
		return fixedmath.Ratio{}, err
	}
	return fixedmath.NewRatioFromFraction(pa.Weight, WeightPrecision)
}

// TotalWeight sums every asset's weight numerator; after construction
// this always equals WeightPrecision (invariant I-W1).
func (p *Pool) TotalWeight() sdk.Int {
	total := sdk.ZeroInt()
	for _, a := range p.Assets {
		total = total.Add(a.Weight)
	}
	return total
}
