package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

func validateFactors(m *types.Market) error {
	for _, f := range []fixedmath.Ratio{m.CollateralFactor, m.LiquidationThreshold, m.ReserveFactor, m.CloseFactor, m.LiquidateIncentiveReservedFactor} {
		if f.Cmp(fixedmath.RatioOne) > 0 {
			return types.ErrInvalidFactor
		}
	}
	if m.LiquidateIncentive.LT(fixedmath.RateOne) {
		return types.ErrInvalidFactor
	}
	if m.SupplyCap.IsZero() || m.SupplyCap.IsNegative() {
		return types.ErrInvalidSupplyCap
	}
	if m.BorrowCap.IsNegative() {
		return types.ErrInvalidSupplyCap
	}
	return m.RateModel.Validate()
}

// AddMarket registers a new market for underlying, always starting in
// StatePending (spec §4.4.6). BorrowIndex and ExchangeRate both start at
// RateOne (spec §3.4).
func (k *Keeper) AddMarket(ctx corectx.Context, underlying, lendToken adapters.AssetID, m types.Market) error {
	if err := validateFactors(&m); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.markets[underlying]; exists {
		return types.ErrMarketAlreadyExists
	}

	m.UnderlyingAsset = underlying
	m.LendTokenAsset = lendToken
	m.State = types.StatePending
	m.TotalSupply = sdk.ZeroInt()
	m.TotalBorrows = sdk.ZeroInt()
	m.TotalReserves = sdk.ZeroInt()
	m.BorrowIndex = fixedmath.RateOne
	m.ExchangeRate = fixedmath.RateOne
	m.LastAccrualBlock = ctx.BlockHeight()
	k.markets[underlying] = &m

	k.logMarket(ctx, "add_market", underlying).Logger().Info("market added", "lend_token", lendToken)
	metrics().observeMarketAdded()
	return nil
}

// ActivateMarket transitions Pending->Active; Active->Active is
// idempotent (spec §4.4.6). Any other starting state is rejected.
func (k *Keeper) ActivateMarket(ctx corectx.Context, underlying adapters.AssetID) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.markets[underlying]
	if !ok {
		return types.ErrMarketDoesNotExist
	}
	switch m.State {
	case types.StatePending, types.StateActive:
		m.State = types.StateActive
	default:
		return types.ErrNewMarketMustBePending
	}
	k.logMarket(ctx, "activate_market", underlying).Logger().Info("market activated")
	return nil
}

// ForceUpdateMarket overwrites every mutable parameter of an existing
// market regardless of its current state (spec §4.4.6): identifiers,
// running totals, and lifecycle state are preserved from the stored
// market; every other field is taken from patch.
func (k *Keeper) ForceUpdateMarket(ctx corectx.Context, underlying adapters.AssetID, patch types.Market) error {
	if err := validateFactors(&patch); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.markets[underlying]
	if !ok {
		return types.ErrMarketDoesNotExist
	}

	m.RateModel = patch.RateModel
	m.CollateralFactor = patch.CollateralFactor
	m.LiquidationThreshold = patch.LiquidationThreshold
	m.ReserveFactor = patch.ReserveFactor
	m.CloseFactor = patch.CloseFactor
	m.LiquidateIncentiveReservedFactor = patch.LiquidateIncentiveReservedFactor
	m.LiquidateIncentive = patch.LiquidateIncentive
	m.SupplyCap = patch.SupplyCap
	m.BorrowCap = patch.BorrowCap
	m.IsLiquidationFree = patch.IsLiquidationFree

	k.logMarket(ctx, "force_update_market", underlying).Logger().Info("market parameters forced")
	return nil
}
