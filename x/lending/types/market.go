package types

import (
	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/fixedmath"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ModuleName duplication avoided: see errors.go.

// MarketState is the lifecycle state machine named by spec §4.4.6.
type MarketState int

const (
	// StatePending markets accept no deposits, borrows, or repays; only
	// ActivateMarket can move a market out of this state.
	StatePending MarketState = iota
	// StateActive markets accept every operation.
	StateActive
	// StateSupervision markets accept repay and liquidate only (spec
	// §4.4.6, "frozen except repay/liquidate").
	StateSupervision
)

func (s MarketState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateSupervision:
		return "supervision"
	default:
		return "unknown"
	}
}

// Market holds the per-asset parameters and running totals of the lending
// engine (spec §3.4).
type Market struct {
	UnderlyingAsset adapters.AssetID
	LendTokenAsset  adapters.AssetID // the cToken-equivalent voucher asset
	State           MarketState

	RateModel RateModel

	CollateralFactor     fixedmath.Ratio // fraction of deposit value usable as collateral
	LiquidationThreshold fixedmath.Ratio
	ReserveFactor        fixedmath.Ratio // fraction of accrued interest routed to reserves
	CloseFactor          fixedmath.Ratio // max fraction of a borrow repayable in one liquidation
	LiquidateIncentiveReservedFactor fixedmath.Ratio // share of the liquidation bonus kept as reserves
	LiquidateIncentive   fixedmath.Rate  // >1.0, bonus collateral paid to the liquidator

	SupplyCap sdk.Int // 0 means uncapped is not allowed; caps are mandatory (spec §4.4.6)
	BorrowCap sdk.Int

	// IsLiquidationFree marks an asset as belonging to the liquidation-free
	// collateral class (spec §4.4, §4.4.3, §4.4.4): its collateral cannot
	// be seized by Liquidate, and it is tracked separately in the
	// liquidity check.
	IsLiquidationFree bool

	TotalSupply     sdk.Int // sum of all outstanding LendTokenAsset vouchers
	TotalBorrows    sdk.Int // sum of all AccountBorrow.Principal, indexed to BorrowIndex
	TotalReserves   sdk.Int
	BorrowIndex     fixedmath.Rate // cumulative borrow interest index, starts at RateOne
	ExchangeRate    fixedmath.Rate // underlying per voucher, starts at RateOne
	LastAccrualBlock int64
}

// Address is the market's self-custody account holding the underlying
// asset pool, following the same self-referential pool-account model
// weightedpool and stableswap use.
func (m *Market) Address() adapters.AccountID {
	return MarketAddress(m.UnderlyingAsset)
}

// MarketAddress derives a market's custody account id from its
// underlying asset.
func MarketAddress(underlying adapters.AssetID) adapters.AccountID {
	return adapters.AccountID("lending/" + string(underlying))
}

// MinExchangeRate and MaxExchangeRate bound ExchangeRate (spec §4.4.2).
// 0.02 and 2*10^5 mirror the wide, sanity-check-only bounds the pallet
// defaults to for a cToken starting at 1:1.
var (
	MinExchangeRate = mustRate("20000000000000000")     // 0.02
	MaxExchangeRate = mustRate("200000000000000000000000") // 200000
)

func mustRate(raw string) fixedmath.Rate {
	i, ok := sdk.NewIntFromString(raw)
	if !ok {
		panic("lending: bad exchange rate bound literal " + raw)
	}
	r, err := fixedmath.NewRateFromRaw(i)
	if err != nil {
		panic(err)
	}
	return r
}

// AccountDeposit tracks one account's voucher balance in one market and
// whether it currently counts toward that account's collateral (spec
// §3.4, §4.4.3).
type AccountDeposit struct {
	VoucherBalance sdk.Int
	IsCollateral   bool
}

// AccountBorrow tracks one account's outstanding principal in one market,
// recorded against the BorrowIndex in effect the last time it was touched
// (spec §4.4.1, "interest is never double-applied").
type AccountBorrow struct {
	Principal              sdk.Int
	BorrowIndexAtLastTouch fixedmath.Rate
}

// CurrentBorrowBalance returns the account's borrow balance inclusive of
// interest accrued since BorrowIndexAtLastTouch, per spec §4.4.1:
// balance = principal * current_index / index_at_last_touch.
func (b AccountBorrow) CurrentBorrowBalance(currentIndex fixedmath.Rate) sdk.Int {
	if b.Principal.IsZero() {
		return sdk.ZeroInt()
	}
	ratio, err := currentIndex.Div(b.BorrowIndexAtLastTouch)
	if err != nil {
		return b.Principal
	}
	return ratio.MulInt(b.Principal)
}
