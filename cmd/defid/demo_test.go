package main

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/config"
	"github.com/bifrost-finance/defi-engine/corectx"
	lendingkeeper "github.com/bifrost-finance/defi-engine/x/lending/keeper"
	stableswapkeeper "github.com/bifrost-finance/defi-engine/x/stableswap/keeper"
	weightedpoolkeeper "github.com/bifrost-finance/defi-engine/x/weightedpool/keeper"
)

func testCtx() (corectx.Context, *adapters.ManualClock) {
	clock := adapters.NewManualClock(1_700_000_000, 1)
	return corectx.New(tmlog.NewNopLogger(), clock, clock), clock
}

func TestSeedWeightedPool(t *testing.T) {
	assets := adapters.NewMemoryAssets(sdk.ZeroInt())
	ctx, _ := testCtx()
	wp := weightedpoolkeeper.NewKeeper(assets)

	spec := config.WeightedPoolSpec{
		Owner:            "alice",
		SwapFeePercent:   "0.3",
		FirstShareAmount: "1000000000000",
		Tokens: []config.TokenSpec{
			{Asset: "ATOM", Balance: "1000000", Weight: "1"},
			{Asset: "USDC", Balance: "1000000", Weight: "1"},
		},
	}

	poolID, err := seedWeightedPool(ctx, assets, wp, spec)
	require.NoError(t, err)

	pool, err := wp.GetPool(poolID)
	require.NoError(t, err)
	require.True(t, pool.Active)
	require.Equal(t, adapters.AccountID("alice"), pool.Owner)
}

func TestSeedStablePoolWithSeedMint(t *testing.T) {
	assets := adapters.NewMemoryAssets(sdk.ZeroInt())
	ctx, _ := testCtx()
	ss := stableswapkeeper.NewKeeper(assets)

	spec := config.StablePoolSpec{
		Owner:    "alice",
		LPAsset:  "lpUSD",
		InitialA: "100",
		Assets: []config.StableAssetSpec{
			{Asset: "USDT", Precision: "1"},
			{Asset: "USDC", Precision: "1"},
		},
		SeedAmounts: []string{"1000000", "1000000"},
	}

	poolID, err := seedStablePool(ctx, assets, ss, spec)
	require.NoError(t, err)
	require.True(t, assets.BalanceOf("lpUSD", "alice").IsPositive())
	require.Equal(t, uint32(1), poolID)
}

func TestSeedMarketWithBorrowWalkthrough(t *testing.T) {
	assets := adapters.NewMemoryAssets(sdk.ZeroInt())
	oracle := adapters.NewMemoryOracle()
	ctx, _ := testCtx()
	lending := lendingkeeper.NewKeeper(assets, oracle, "BNC", "lending/reward-pool")

	spec := config.MarketSpec{
		Underlying:                        "ATOM",
		LendToken:                         "cATOM",
		CollateralFactorPercent:           "75",
		LiquidationThresholdPercent:       "80",
		ReserveFactorPercent:              "10",
		CloseFactorPercent:                "50",
		LiquidateIncentiveReservedPercent: "50",
		LiquidateIncentivePercent:         "108",
		SupplyCap:                         "1000000000",
		BorrowCap:                         "1000000000",
		OraclePrice:                       "1000000000000000000",
		RateModel: config.RateModelSpec{
			BasePercent: "2",
			JumpPercent: "10",
			FullPercent: "100",
			KinkPercent: "80",
		},
		DemoUser:         "bob",
		SeedSupplyAmount: "1000000",
		SeedBorrowAmount: "1000",
	}

	require.NoError(t, seedMarket(ctx, assets, oracle, lending, spec))
	require.True(t, assets.BalanceOf("ATOM", "bob").IsPositive())
}
