package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/bifrost-finance/defi-engine/config"
)

func TestParsePercent(t *testing.T) {
	half, err := config.ParsePercent("50")
	require.NoError(t, err)
	whole, err := config.ParsePercent("100")
	require.NoError(t, err)
	require.True(t, half.Cmp(whole) < 0)
	require.Equal(t, sdk.NewInt(500_000_000_000_000_000), half.Raw())
}

func TestParsePercentBlank(t *testing.T) {
	r, err := config.ParsePercent("")
	require.NoError(t, err)
	require.True(t, r.IsZero())
}

func TestParseRatePercentAboveOneHundred(t *testing.T) {
	rate, err := config.ParseRatePercent("108")
	require.NoError(t, err)
	require.Equal(t, sdk.NewInt(1_080_000_000_000_000_000), rate.Raw())
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	const body = `
weighted_pools:
  - owner: alice
    swap_fee_percent: "0.3"
    first_share_amount: "1000000000000"
    tokens:
      - asset: ATOM
        balance: "1000000"
        weight: "1"
      - asset: USDC
        balance: "1000000"
        weight: "1"
markets:
  - underlying: ATOM
    lend_token: cATOM
    collateral_factor_percent: "75"
    liquidation_threshold_percent: "80"
    reserve_factor_percent: "10"
    close_factor_percent: "50"
    liquidate_incentive_reserved_percent: "50"
    liquidate_incentive_percent: "108"
    supply_cap: "1000000000"
    borrow_cap: "1000000000"
    rate_model:
      base_percent: "2"
      jump_percent: "10"
      full_percent: "100"
      kink_percent: "80"
farming:
  bonus_asset: BNC
  bonus_pool: bonus-pool
  age_denominator: "100000"
  pools:
    "0":
      bonus_pool_total: "50000000"
`
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0o600))
	defer os.Remove(path)

	s, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, s.WeightedPools, 1)
	require.Len(t, s.Markets, 1)
	require.Equal(t, "ATOM", s.Markets[0].Underlying)
	require.Equal(t, "50000000", s.Farming.Pools["0"].BonusPoolTotal)
}

func TestParseIntBlank(t *testing.T) {
	v, err := config.ParseInt("")
	require.NoError(t, err)
	require.True(t, v.IsZero())
}

func TestParseIntInvalid(t *testing.T) {
	_, err := config.ParseInt("not-a-number")
	require.Error(t, err)
}
