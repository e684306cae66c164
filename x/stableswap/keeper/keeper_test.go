package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/stableswap/keeper"
	"github.com/bifrost-finance/defi-engine/x/stableswap/types"
)

const (
	owner  = adapters.AccountID("owner")
	trader = adapters.AccountID("trader")
	usdc   = adapters.AssetID("USDC")
	dai    = adapters.AssetID("DAI")
	lpTok  = adapters.AssetID("lpUSDC-DAI")
	feeAcc = adapters.AccountID("fee")
	yldAcc = adapters.AccountID("yield")
)

func newFixture(t *testing.T) (*keeper.Keeper, *adapters.MemoryAssets, corectx.Context) {
	t.Helper()
	a := adapters.NewMemoryAssets(sdk.ZeroInt())
	require.NoError(t, a.Deposit(usdc, trader, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(dai, trader, sdk.NewInt(1_000_000)))
	clock := adapters.NewManualClock(1, 1_000)
	ctx := corectx.New(tmlog.NewNopLogger(), clock, clock)
	return keeper.NewKeeper(a), a, ctx
}

func createZeroFeePool(t *testing.T, k *keeper.Keeper, ctx corectx.Context) uint32 {
	t.Helper()
	poolID, err := k.CreatePool(ctx, owner, lpTok, []keeper.AssetSpec{
		{Asset: usdc, Precision: sdk.NewInt(1), TokenRateDenominator: sdk.ZeroInt()},
		{Asset: dai, Precision: sdk.NewInt(1), TokenRateDenominator: sdk.ZeroInt()},
	}, sdk.NewInt(1000), sdk.ZeroInt(), sdk.ZeroInt(), sdk.ZeroInt(), feeAcc, yldAcc)
	require.NoError(t, err)
	return poolID
}

func TestMintThenRedeemProportionRoundTrip(t *testing.T) {
	k, a, ctx := newFixture(t)
	poolID := createZeroFeePool(t, k, ctx)

	minted, err := k.Mint(ctx, trader, poolID, []sdk.Int{sdk.NewInt(100_000), sdk.NewInt(100_000)}, sdk.OneInt())
	require.NoError(t, err)
	require.True(t, minted.GT(sdk.ZeroInt()))

	lpBal := a.BalanceOf(lpTok, trader)
	require.True(t, lpBal.Equal(minted))

	amountsOut, err := k.RedeemProportion(ctx, trader, poolID, minted, []sdk.Int{sdk.ZeroInt(), sdk.ZeroInt()})
	require.NoError(t, err)
	require.Len(t, amountsOut, 2)
	require.True(t, amountsOut[0].Equal(sdk.NewInt(100_000)), "zero-fee proportional redeem must return exactly what was minted")
	require.True(t, amountsOut[1].Equal(sdk.NewInt(100_000)))

	require.True(t, a.BalanceOf(lpTok, trader).IsZero())
}

func TestSwapPreservesInvariantWithinOneUnit(t *testing.T) {
	k, _, ctx := newFixture(t)
	poolID := createZeroFeePool(t, k, ctx)

	_, err := k.Mint(ctx, trader, poolID, []sdk.Int{sdk.NewInt(1_000_000), sdk.NewInt(1_000_000)}, sdk.OneInt())
	require.NoError(t, err)

	pool, err := k.GetPool(poolID)
	require.NoError(t, err)
	dBefore, err := types.GetD(pool.Balances, pool.EffectiveA(ctx.BlockHeight()))
	require.NoError(t, err)

	dy, err := k.Swap(ctx, trader, poolID, usdc, dai, sdk.NewInt(1_000), sdk.OneInt())
	require.NoError(t, err)
	require.True(t, dy.GT(sdk.ZeroInt()))
	require.True(t, dy.LTE(sdk.NewInt(1_000)), "stableswap output must not exceed input at near-1:1 balances")

	pool, err = k.GetPool(poolID)
	require.NoError(t, err)
	dAfter, err := types.GetD(pool.Balances, pool.EffectiveA(ctx.BlockHeight()))
	require.NoError(t, err)
	diff := dAfter.Sub(dBefore)
	require.True(t, diff.Abs().LTE(sdk.OneInt()), "zero-fee swap must hold D within 1 unit")
}

func TestRampAInterpolatesLinearly(t *testing.T) {
	k, _, ctx := newFixture(t)
	poolID := createZeroFeePool(t, k, ctx)

	require.NoError(t, k.RampA(ctx, owner, poolID, sdk.NewInt(2000), 2000))
	pool, err := k.GetPool(poolID)
	require.NoError(t, err)

	mid := pool.EffectiveA(1500)
	require.True(t, mid.GT(sdk.NewInt(1000)))
	require.True(t, mid.LT(sdk.NewInt(2000)))

	end := pool.EffectiveA(2000)
	require.True(t, end.Equal(sdk.NewInt(2000)))
}

func TestOnlyOwnerCanModifyFees(t *testing.T) {
	k, _, ctx := newFixture(t)
	poolID := createZeroFeePool(t, k, ctx)

	err := k.ModifyFees(ctx, trader, poolID, sdk.NewInt(1), sdk.NewInt(1), sdk.NewInt(1))
	require.ErrorIs(t, err, types.ErrNotPoolOwner)

	require.NoError(t, k.ModifyFees(ctx, owner, poolID, sdk.NewInt(1), sdk.NewInt(1), sdk.NewInt(1)))
}
