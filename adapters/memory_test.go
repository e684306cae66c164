package adapters

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestMemoryAssetsTransferKeepAlive(t *testing.T) {
	ledger := NewMemoryAssets(sdk.NewInt(10))
	require.NoError(t, ledger.Deposit("USDC", "alice", sdk.NewInt(100)))

	err := ledger.Transfer("USDC", "alice", "bob", sdk.NewInt(95), true)
	require.ErrorIs(t, err, ErrAccountBelowExistentialDeposit)

	require.NoError(t, ledger.Transfer("USDC", "alice", "bob", sdk.NewInt(90), true))
	require.True(t, ledger.BalanceOf("USDC", "alice").Equal(sdk.NewInt(10)))
	require.True(t, ledger.BalanceOf("USDC", "bob").Equal(sdk.NewInt(90)))
}

func TestMemoryOracleZeroPrice(t *testing.T) {
	oracle := NewMemoryOracle()
	oracle.SetPrice("DOT", sdk.ZeroInt(), 100)
	_, err := oracle.Price("DOT")
	require.ErrorIs(t, err, ErrPriceIsZero)
}

func TestMemoryOracleNotReady(t *testing.T) {
	oracle := NewMemoryOracle()
	_, err := oracle.Price("DOT")
	require.ErrorIs(t, err, ErrPriceOracleNotReady)
}

func TestManualClockMonotone(t *testing.T) {
	clock := NewManualClock(1000, 10)
	clock.AdvanceTime(5)
	clock.AdvanceBlocks(1)
	require.Equal(t, int64(1005), clock.UnixTime())
	require.Equal(t, int64(11), clock.BlockHeight())
}

func TestAssetRegistryRoundTrip(t *testing.T) {
	reg := NewMemoryAssetRegistry()
	vtoken, err := reg.RegisterVToken("DOT")
	require.NoError(t, err)
	got, ok := reg.VTokenOf("DOT")
	require.True(t, ok)
	require.Equal(t, vtoken, got)
	back, ok := reg.TokenOf(vtoken)
	require.True(t, ok)
	require.Equal(t, AssetID("DOT"), back)
}
