package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// cash returns the market's own underlying holding. Pending redemptions
// (spec §4.4.1's "cash = pool_holding − pending_redemptions") have no
// counterpart in this core: redemptions settle synchronously within a
// single operation (spec §5), so there is never an outstanding redemption
// to subtract.
func (k *Keeper) cash(m *types.Market) sdk.Int {
	return k.assets.BalanceOf(m.UnderlyingAsset, m.Address())
}

// accrueInterest applies spec §4.4.1 for m, idempotently: a Δt of zero
// (already touched this block) changes nothing. Callers must hold k.mu
// for writing; accrueInterest itself does not lock, since every keeper
// entry point that accrues reaches it through touch while already holding
// k.mu (mirroring stableswap's collectYield-at-the-head pattern).
func (k *Keeper) accrueInterest(ctx corectx.Context, m *types.Market) error {
	height := ctx.BlockHeight()
	deltaBlocks := height - m.LastAccrualBlock
	if deltaBlocks <= 0 {
		return nil
	}

	cash := k.cash(m)
	denom := cash.Add(m.TotalBorrows).Sub(m.TotalReserves)

	utilization := fixedmath.RatioZero
	if denom.IsPositive() && m.TotalBorrows.IsPositive() {
		u, err := fixedmath.NewRatioFromFraction(m.TotalBorrows, denom)
		if err != nil {
			return types.ErrInvalidExchangeRate
		}
		utilization = u
	}

	perBlock := m.RateModel.BorrowRate(utilization)
	borrowRateRaw := perBlock.Raw().Mul(sdk.NewInt(deltaBlocks))
	borrowRate, err := fixedmath.NewRateFromRaw(borrowRateRaw)
	if err != nil {
		return types.ErrInvalidRateModelParam
	}

	interestAccrued := borrowRate.MulInt(m.TotalBorrows)
	m.TotalBorrows = m.TotalBorrows.Add(interestAccrued)
	m.TotalReserves = m.TotalReserves.Add(m.ReserveFactor.MulFloor(interestAccrued))
	m.BorrowIndex = m.BorrowIndex.Add(m.BorrowIndex.Mul(borrowRate))
	m.LastAccrualBlock = height

	return k.updateExchangeRate(m, cash)
}

// updateExchangeRate recomputes spec §4.4.2's cToken exchange rate from
// current cash/borrows/reserves and clamps it into
// [MinExchangeRate, MaxExchangeRate].
func (k *Keeper) updateExchangeRate(m *types.Market, cash sdk.Int) error {
	if m.TotalSupply.IsZero() {
		m.ExchangeRate = fixedmath.RateOne
		return nil
	}
	numerator := cash.Add(m.TotalBorrows).Sub(m.TotalReserves)
	if numerator.IsNegative() {
		return types.ErrInvalidExchangeRate
	}
	rate, err := fixedmath.NewRateFromFraction(numerator, m.TotalSupply)
	if err != nil {
		return types.ErrInvalidExchangeRate
	}
	if rate.LT(types.MinExchangeRate) || rate.GT(types.MaxExchangeRate) {
		return types.ErrInvalidExchangeRate
	}
	m.ExchangeRate = rate
	return nil
}

func requireActive(m *types.Market) error {
	if m.State != types.StateActive {
		return types.ErrMarketNotActivated
	}
	return nil
}

// requireActiveOrSupervision allows repay/liquidate while a market is
// under Supervision (spec §4.4.6).
func requireActiveOrSupervision(m *types.Market) error {
	if m.State != types.StateActive && m.State != types.StateSupervision {
		return types.ErrMarketNotActivated
	}
	return nil
}
