// Package keeper implements the WeightedPool public contract (spec §4.2):
// an N-asset constant-weighted-product AMM supporting create/activate,
// all-asset and single-sided join/exit, and exact-in/exact-out swaps,
// with the teacher's keeper-over-owned-maps shape (x/gamm/keeper).
package keeper

import (
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/types"
)

// Keeper owns every WeightedPool, keyed by pool id, behind a single
// read/write lock (spec §5: per-object exclusivity is achieved here at
// keeper granularity, since no operation spans adapter calls that could
// block indefinitely).
type Keeper struct {
	mu       sync.RWMutex
	pools    map[uint32]*types.Pool
	nextID   uint32
	assets   adapters.Assets
	observer types.ShareObserver
}

// NewKeeper wires a fresh, empty WeightedPool store to its Assets
// adapter.
func NewKeeper(assets adapters.Assets) *Keeper {
	return &Keeper{
		pools:  make(map[uint32]*types.Pool),
		nextID: 1,
		assets: assets,
	}
}

// SetBonusObserver registers x/farming (or any other ShareObserver) to
// be notified of every share-balance change, once both modules exist
// (spec §9). Nil by default: a WeightedPool used without farming never
// calls it.
func (k *Keeper) SetBonusObserver(obs types.ShareObserver) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.observer = obs
}

// BonusLastTouch returns the block at which account's bonus age marker
// in poolID was last reset, the read half of the Claim-path contract
// (share-changing ops reach farming through the ShareObserver callback
// instead).
func (k *Keeper) BonusLastTouch(poolID uint32, account adapters.AccountID) (int64, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return 0, err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	ub, ok := pool.Bonus.PerUser[account]
	if !ok {
		return 0, nil
	}
	return ub.LastBlock, nil
}

// AdvanceBonusAge resets account's bonus age marker in poolID to now,
// the write half of the Claim-path contract: farming calls this after
// settling a claim, since no share change follows to do it implicitly.
func (k *Keeper) AdvanceBonusAge(poolID uint32, account adapters.AccountID, now int64) error {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	ub, ok := pool.Bonus.PerUser[account]
	if !ok {
		ub = &types.UserBonus{}
		pool.Bonus.PerUser[account] = ub
	}
	ub.LastBlock = now
	return nil
}

// GetPool returns a copy of the pool's exported fields is not taken here
// (the teacher's keeper also hands back live pointers within a single
// request); callers must not retain the pointer across keeper calls.
func (k *Keeper) GetPool(poolID uint32) (*types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pool, ok := k.pools[poolID]
	if !ok {
		return nil, types.ErrPoolNotExist
	}
	return pool, nil
}

// TotalShares implements farming's ShareSource contract.
func (k *Keeper) TotalShares(poolID uint32) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return pool.TotalShares, nil
}

// UserShares implements farming's ShareSource contract.
func (k *Keeper) UserShares(poolID uint32, account adapters.AccountID) (sdk.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return sdk.Int{}, err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	shares, ok := pool.UserShares[account]
	if !ok {
		return sdk.ZeroInt(), nil
	}
	return shares, nil
}

func (k *Keeper) requireActivePool(poolID uint32) (*types.Pool, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	if !pool.Active {
		return nil, types.ErrPoolNotActive
	}
	return pool, nil
}

func logPool(ctx corectx.Context, op string, poolID uint32) corectx.Context {
	return ctx.With("module", types.ModuleName, "op", op, "pool_id", poolID)
}
