package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/keeper"
	"github.com/bifrost-finance/defi-engine/x/weightedpool/types"
)

const (
	alice = adapters.AccountID("alice")
	bob   = adapters.AccountID("bob")
	atom  = adapters.AssetID("ATOM")
	usdc  = adapters.AssetID("USDC")
)

func newTestFixture(t *testing.T) (*keeper.Keeper, *adapters.MemoryAssets, corectx.Context) {
	t.Helper()
	a := adapters.NewMemoryAssets(sdk.ZeroInt())
	require.NoError(t, a.Deposit(atom, alice, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(usdc, alice, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(atom, bob, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(usdc, bob, sdk.NewInt(1_000_000)))

	clock := adapters.NewManualClock(1, 1_000)
	ctx := corectx.New(tmlog.NewNopLogger(), clock, clock)
	k := keeper.NewKeeper(a)
	return k, a, ctx
}

func createEqualWeightPool(t *testing.T, k *keeper.Keeper, ctx corectx.Context, swapFee fixedmath.Ratio) uint32 {
	t.Helper()
	poolID, err := k.CreatePool(ctx, alice, swapFee, []keeper.TokenSpec{
		{Asset: atom, Balance: sdk.NewInt(100_000), Weight: sdk.NewInt(1)},
		{Asset: usdc, Balance: sdk.NewInt(100_000), Weight: sdk.NewInt(1)},
	}, sdk.NewInt(100_000))
	require.NoError(t, err)
	require.NoError(t, k.ActivatePool(ctx, alice, poolID))
	return poolID
}

func TestCreatePoolNormalizesWeights(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)
	pool, err := k.GetPool(poolID)
	require.NoError(t, err)
	require.True(t, pool.TotalWeight().Equal(types.WeightPrecision))
	w, err := pool.NormalizedWeight(atom)
	require.NoError(t, err)
	half, err := fixedmath.NewRatioFromFraction(sdk.OneInt(), sdk.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, 0, w.Cmp(half))
}

func TestSwapExactAmountInRespectsSlippage(t *testing.T) {
	k, a, ctx := newTestFixture(t)
	fee, err := fixedmath.NewRatioFromFraction(sdk.NewInt(1), sdk.NewInt(1000))
	require.NoError(t, err)
	poolID := createEqualWeightPool(t, k, ctx, fee)

	out, err := k.SwapExactAmountIn(ctx, bob, poolID, atom, sdk.NewInt(1000), usdc, sdk.NewInt(1))
	require.NoError(t, err)
	require.True(t, out.IsPositive())
	require.True(t, out.LT(sdk.NewInt(1000)), "equal-weight pool with fee must return less than input")

	_, err = k.SwapExactAmountIn(ctx, bob, poolID, atom, sdk.NewInt(1000), usdc, out.Add(sdk.OneInt()))
	require.ErrorIs(t, err, types.ErrLessThanExpectedAmount)

	bal := a.BalanceOf(usdc, bob)
	require.True(t, bal.GT(sdk.NewInt(1_000_000)))
}

func TestSwapExactAmountInRejectsOversizedTrade(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)

	_, err := k.SwapExactAmountIn(ctx, bob, poolID, atom, sdk.NewInt(60_000), usdc, sdk.ZeroInt())
	require.ErrorIs(t, err, types.ErrExceedMaximumSwapInRatio)
}

func TestSingleSidedJoinAndExitRoundTrip(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)

	sharesOut, err := k.AddSingleLiquidityGivenAmountIn(ctx, bob, poolID, atom, sdk.NewInt(10_000), sdk.OneInt())
	require.NoError(t, err)
	require.True(t, sharesOut.IsPositive())

	got, err := k.UserShares(poolID, bob)
	require.NoError(t, err)
	require.True(t, got.Equal(sharesOut))

	amountOut, err := k.RemoveSingleAssetLiquidityGivenSharesIn(ctx, bob, poolID, atom, sharesOut, sdk.ZeroInt())
	require.NoError(t, err)
	require.True(t, amountOut.IsPositive())
	require.True(t, amountOut.LTE(sdk.NewInt(10_000)), "single-sided round trip must not create value")

	remaining, err := k.UserShares(poolID, bob)
	require.NoError(t, err)
	require.True(t, remaining.IsZero())
}

func TestAllAssetJoinIsProRata(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)

	err := k.AddLiquidityGivenSharesIn(ctx, bob, poolID, sdk.NewInt(10_000), sdk.NewInt(10_000))
	require.NoError(t, err)

	pool, err := k.GetPool(poolID)
	require.NoError(t, err)
	atomAsset, err := pool.GetAsset(atom)
	require.NoError(t, err)
	require.True(t, atomAsset.Balance.Equal(sdk.NewInt(110_000)))
}

func TestInactivePoolRejectsOperations(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)
	require.NoError(t, k.DeactivatePool(ctx, alice, poolID))

	_, err := k.SwapExactAmountIn(ctx, bob, poolID, atom, sdk.NewInt(100), usdc, sdk.ZeroInt())
	require.ErrorIs(t, err, types.ErrPoolNotActive)
}

func TestOnlyOwnerCanUpdateSwapFee(t *testing.T) {
	k, _, ctx := newTestFixture(t)
	poolID := createEqualWeightPool(t, k, ctx, fixedmath.RatioZero)

	newFee, err := fixedmath.NewRatioFromFraction(sdk.OneInt(), sdk.NewInt(100))
	require.NoError(t, err)
	err = k.UpdateSwapFee(ctx, bob, poolID, newFee)
	require.ErrorIs(t, err, types.ErrNotPoolOwner)

	require.NoError(t, k.UpdateSwapFee(ctx, alice, poolID, newFee))
	pool, err := k.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, 0, pool.SwapFee.Cmp(newFee))
}
