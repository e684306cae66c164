package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	farmkeeper "github.com/bifrost-finance/defi-engine/x/farming/keeper"
	farmtypes "github.com/bifrost-finance/defi-engine/x/farming/types"
	wpkeeper "github.com/bifrost-finance/defi-engine/x/weightedpool/keeper"
)

const (
	alice     = adapters.AccountID("alice")
	bob       = adapters.AccountID("bob")
	atom      = adapters.AssetID("ATOM")
	usdc      = adapters.AssetID("USDC")
	bnc       = adapters.AssetID("BNC")
	bonusPool = adapters.AccountID("farming/bonus-pool")
)

func newFixture(t *testing.T) (*wpkeeper.Keeper, *farmkeeper.Keeper, *adapters.MemoryAssets, *adapters.ManualClock, corectx.Context) {
	t.Helper()
	a := adapters.NewMemoryAssets(sdk.ZeroInt())
	require.NoError(t, a.Deposit(atom, alice, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(usdc, alice, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(atom, bob, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(usdc, bob, sdk.NewInt(1_000_000)))
	require.NoError(t, a.Deposit(bnc, bonusPool, sdk.NewInt(1_000_000)))

	clock := adapters.NewManualClock(1, 1_000)
	ctx := corectx.New(tmlog.NewNopLogger(), clock, clock)

	wp := wpkeeper.NewKeeper(a)
	fk := farmkeeper.NewKeeper(wp, a, bnc, bonusPool, sdk.NewInt(100))
	wp.SetBonusObserver(fk)
	return wp, fk, a, clock, ctx
}

func createPool(t *testing.T, wp *wpkeeper.Keeper, ctx corectx.Context) uint32 {
	t.Helper()
	poolID, err := wp.CreatePool(ctx, alice, fixedmath.RatioZero, []wpkeeper.TokenSpec{
		{Asset: atom, Balance: sdk.NewInt(100_000), Weight: sdk.NewInt(1)},
		{Asset: usdc, Balance: sdk.NewInt(100_000), Weight: sdk.NewInt(1)},
	}, sdk.NewInt(100_000))
	require.NoError(t, err)
	require.NoError(t, wp.ActivatePool(ctx, alice, poolID))
	return poolID
}

func TestClaimAccruesAgeWeightedShare(t *testing.T) {
	wp, fk, _, clock, ctx := newFixture(t)
	poolID := createPool(t, wp, ctx)
	require.NoError(t, fk.SetBonusPoolTotal(poolID, sdk.NewInt(10_000)))

	// bob joins alongside alice so the pool has two equal stakers; this
	// is itself a share-changing operation, and the observer fires only
	// for bob (whose prior balance is zero), leaving alice's age intact.
	require.NoError(t, wp.AddLiquidityGivenSharesIn(ctx, bob, poolID, sdk.NewInt(100_000), sdk.NewInt(100_000)))

	clock.AdvanceBlocks(100) // one full age_denominator span

	claimed, err := fk.Claim(ctx, alice, poolID)
	require.NoError(t, err)
	// alice holds half the shares; age ratio saturates at 1.0 after 100
	// blocks; delta = 0.5 * 1.0 * 10_000 = 5_000.
	require.True(t, claimed.Equal(sdk.NewInt(5_000)), "got %s", claimed)

	_, err = fk.Claim(ctx, alice, poolID)
	require.ErrorIs(t, err, farmtypes.ErrNothingToClaim)
}

func TestClaimAgeRatioClampsAtOne(t *testing.T) {
	wp, fk, _, clock, ctx := newFixture(t)
	poolID := createPool(t, wp, ctx)
	require.NoError(t, fk.SetBonusPoolTotal(poolID, sdk.NewInt(10_000)))

	clock.AdvanceBlocks(500) // 5x the age denominator

	claimed, err := fk.Claim(ctx, alice, poolID)
	require.NoError(t, err)
	// alice alone holds 100% of shares; ratio clamps at 1.0 regardless
	// of how far past the denominator the age has grown.
	require.True(t, claimed.Equal(sdk.NewInt(10_000)), "got %s", claimed)
}

func TestShareChangeAccruesBeforeResettingAge(t *testing.T) {
	wp, fk, a, clock, ctx := newFixture(t)
	poolID := createPool(t, wp, ctx)
	require.NoError(t, fk.SetBonusPoolTotal(poolID, sdk.NewInt(10_000)))

	clock.AdvanceBlocks(50)
	// alice adds more liquidity; the observer must accrue her first 50
	// blocks at 100% share before the new, larger total dilutes her.
	require.NoError(t, wp.AddLiquidityGivenSharesIn(ctx, alice, poolID, sdk.NewInt(100_000), sdk.NewInt(0)))

	before := a.BalanceOf(bnc, alice)
	claimed, err := fk.Claim(ctx, alice, poolID)
	require.NoError(t, err)
	require.True(t, claimed.IsPositive())
	after := a.BalanceOf(bnc, alice)
	require.True(t, after.Sub(before).Equal(claimed))
}
