package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/lending/keeper"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

const (
	alice  = adapters.AccountID("alice")
	bob    = adapters.AccountID("bob")
	dot    = adapters.AssetID("DOT")
	usdt   = adapters.AssetID("USDT")
	cDOT   = adapters.AssetID("cDOT")
	cUSDT  = adapters.AssetID("cUSDT")
	bncs   = adapters.AssetID("BNC")
	rwdPool = adapters.AccountID("reward-pool")
)

func ratio(pct int64) fixedmath.Ratio {
	r, err := fixedmath.NewRatioFromFraction(sdk.NewInt(pct), sdk.NewInt(100))
	if err != nil {
		panic(err)
	}
	return r
}

func rate(numPct int64) fixedmath.Rate {
	r, err := fixedmath.NewRateFromFraction(sdk.NewInt(numPct), sdk.NewInt(100))
	if err != nil {
		panic(err)
	}
	return r
}

func newFixture(t *testing.T) (*keeper.Keeper, *adapters.MemoryAssets, *adapters.MemoryOracle, *adapters.ManualClock, corectx.Context) {
	t.Helper()
	a := adapters.NewMemoryAssets(sdk.ZeroInt())
	o := adapters.NewMemoryOracle()
	o.SetPrice(dot, sdk.NewInt(5_000000000000000000), 1) // $5
	o.SetPrice(usdt, sdk.NewInt(1_000000000000000000), 1) // $1
	require.NoError(t, a.Deposit(dot, alice, sdk.NewInt(10_000)))
	require.NoError(t, a.Deposit(usdt, bob, sdk.NewInt(100_000)))
	require.NoError(t, a.Deposit(usdt, rwdPool, sdk.NewInt(1_000_000)))

	clock := adapters.NewManualClock(1, 1_000)
	ctx := corectx.New(tmlog.NewNopLogger(), clock, clock)
	k := keeper.NewKeeper(a, o, bncs, rwdPool)
	return k, a, o, clock, ctx
}

func addDotMarket(t *testing.T, k *keeper.Keeper, ctx corectx.Context) {
	t.Helper()
	require.NoError(t, k.AddMarket(ctx, dot, cDOT, types.Market{
		RateModel:            types.JumpRateModel{Base: rate(2), Jump: rate(10), Full: rate(100), Kink: ratio(80)},
		CollateralFactor:     ratio(70),
		LiquidationThreshold: ratio(75),
		ReserveFactor:        ratio(10),
		CloseFactor:          ratio(50),
		LiquidateIncentiveReservedFactor: ratio(5),
		LiquidateIncentive:   fixedmath.RateOne.Add(rate(10)),
		SupplyCap:            sdk.NewInt(1_000_000),
		BorrowCap:            sdk.NewInt(1_000_000),
	}))
	require.NoError(t, k.ActivateMarket(ctx, dot))
}

func addUsdtMarket(t *testing.T, k *keeper.Keeper, ctx corectx.Context) {
	t.Helper()
	require.NoError(t, k.AddMarket(ctx, usdt, cUSDT, types.Market{
		RateModel:            types.JumpRateModel{Base: rate(2), Jump: rate(10), Full: rate(100), Kink: ratio(80)},
		CollateralFactor:     ratio(70),
		LiquidationThreshold: ratio(75),
		ReserveFactor:        ratio(10),
		CloseFactor:          ratio(50),
		LiquidateIncentiveReservedFactor: ratio(5),
		LiquidateIncentive:   fixedmath.RateOne.Add(rate(10)),
		SupplyCap:            sdk.NewInt(1_000_000),
		BorrowCap:            sdk.NewInt(1_000_000),
	}))
	require.NoError(t, k.ActivateMarket(ctx, usdt))
}

func TestMintThenRedeemRoundTrip(t *testing.T) {
	k, a, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)

	vouchers, err := k.Mint(ctx, alice, dot, sdk.NewInt(1_000))
	require.NoError(t, err)
	require.True(t, vouchers.Equal(sdk.NewInt(1_000)), "exchange rate starts at 1:1")

	out, err := k.Redeem(ctx, alice, dot, vouchers)
	require.NoError(t, err)
	require.True(t, out.Equal(sdk.NewInt(1_000)))
	require.True(t, a.BalanceOf(dot, alice).Equal(sdk.NewInt(10_000)))
}

func TestMarketMustBeActiveForMint(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	require.NoError(t, k.AddMarket(ctx, dot, cDOT, types.Market{
		RateModel:        types.JumpRateModel{Base: rate(2), Jump: rate(10), Full: rate(100), Kink: ratio(80)},
		CollateralFactor: ratio(70),
		LiquidationThreshold: ratio(75),
		ReserveFactor:    ratio(10),
		CloseFactor:      ratio(50),
		LiquidateIncentiveReservedFactor: ratio(5),
		LiquidateIncentive: fixedmath.RateOne.Add(rate(10)),
		SupplyCap:         sdk.NewInt(1_000_000),
		BorrowCap:         sdk.NewInt(1_000_000),
	}))

	_, err := k.Mint(ctx, alice, dot, sdk.NewInt(100))
	require.ErrorIs(t, err, types.ErrMarketNotActivated)
}

func TestBorrowRequiresCollateral(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)
	addUsdtMarket(t, k, ctx)

	// alice deposits DOT but never marks it as collateral.
	_, err := k.Mint(ctx, alice, dot, sdk.NewInt(1_000))
	require.NoError(t, err)

	_, err = k.Mint(ctx, bob, usdt, sdk.NewInt(50_000))
	require.NoError(t, err)

	err = k.Borrow(ctx, alice, usdt, sdk.NewInt(100))
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	require.NoError(t, k.DepositAsCollateral(ctx, alice, dot, true))
	require.NoError(t, k.Borrow(ctx, alice, usdt, sdk.NewInt(100)))
}

func TestRepayAllClearsDebt(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)
	addUsdtMarket(t, k, ctx)

	_, err := k.Mint(ctx, alice, dot, sdk.NewInt(1_000))
	require.NoError(t, err)
	require.NoError(t, k.DepositAsCollateral(ctx, alice, dot, true))
	_, err = k.Mint(ctx, bob, usdt, sdk.NewInt(50_000))
	require.NoError(t, err)
	require.NoError(t, k.Borrow(ctx, alice, usdt, sdk.NewInt(1_000)))

	repaid, err := k.RepayAll(ctx, alice, usdt)
	require.NoError(t, err)
	require.True(t, repaid.GTE(sdk.NewInt(1_000)))

	_, err = k.RepayAll(ctx, alice, usdt)
	require.ErrorIs(t, err, types.ErrTooMuchRepay)
}

func TestLiquidateRejectsSelfLiquidation(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)
	addUsdtMarket(t, k, ctx)

	_, err := k.Liquidate(ctx, alice, alice, usdt, dot, sdk.NewInt(1), sdk.ZeroInt())
	require.ErrorIs(t, err, types.ErrLiquidatorIsBorrower)
}

func TestLiquidateRequiresShortfall(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)
	addUsdtMarket(t, k, ctx)

	_, err := k.Mint(ctx, alice, dot, sdk.NewInt(1_000))
	require.NoError(t, err)
	require.NoError(t, k.DepositAsCollateral(ctx, alice, dot, true))
	_, err = k.Mint(ctx, bob, usdt, sdk.NewInt(50_000))
	require.NoError(t, err)
	require.NoError(t, k.Borrow(ctx, alice, usdt, sdk.NewInt(1_000)))

	_, err = k.Liquidate(ctx, bob, alice, usdt, dot, sdk.NewInt(100), sdk.ZeroInt())
	require.ErrorIs(t, err, types.ErrInsufficientShortfall)
}

func TestActivateMarketIsIdempotent(t *testing.T) {
	k, _, _, _, ctx := newFixture(t)
	addDotMarket(t, k, ctx)
	require.NoError(t, k.ActivateMarket(ctx, dot), "Active->Active is idempotent")
}
