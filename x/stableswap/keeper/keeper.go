// Package keeper implements the StableSwapPool public contract (spec
// §4.3): a Curve-style equal-value invariant pool with amplification A,
// Newton D/y solvers, mint/swap/redeem flows, and rebasing-yield
// collection, in the teacher's keeper-over-owned-maps shape.
package keeper

import (
	"sync"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/stableswap/types"
)

// Keeper owns every StableSwapPool, keyed by pool id, behind a single
// read/write lock (spec §5, same per-keeper granularity as weightedpool).
type Keeper struct {
	mu     sync.RWMutex
	pools  map[uint32]*types.Pool
	nextID uint32
	assets adapters.Assets
}

// NewKeeper wires a fresh, empty StableSwapPool store to its Assets
// adapter.
func NewKeeper(assets adapters.Assets) *Keeper {
	return &Keeper{
		pools:  make(map[uint32]*types.Pool),
		nextID: 1,
		assets: assets,
	}
}

// GetPool returns the live pool pointer; callers must not retain it across
// keeper calls (mirrors weightedpool.Keeper.GetPool).
func (k *Keeper) GetPool(poolID uint32) (*types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pool, ok := k.pools[poolID]
	if !ok {
		return nil, types.ErrPoolNotExist
	}
	return pool, nil
}

func logPool(ctx corectx.Context, op string, poolID uint32) corectx.Context {
	return ctx.With("module", types.ModuleName, "op", op, "pool_id", poolID)
}
