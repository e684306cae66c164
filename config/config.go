// Package config loads the genesis-style scenario a cmd/defid run seeds
// its four engines from: markets, pools, and rate models described as
// plain decimals in a yaml file rather than wired up one flag at a time.
// yaml.v2 is used directly rather than viper, since viper here is only
// an indirect dependency pulled in transitively by cosmos-sdk.
package config

import (
	"fmt"
	"io/ioutil"

	sdk "github.com/cosmos/cosmos-sdk/types"
	yaml "gopkg.in/yaml.v2"

	"github.com/bifrost-finance/defi-engine/fixedmath"
)

// Scenario is the top-level shape of a defid genesis file.
type Scenario struct {
	WeightedPools []WeightedPoolSpec `yaml:"weighted_pools"`
	StablePools   []StablePoolSpec   `yaml:"stable_pools"`
	Markets       []MarketSpec       `yaml:"markets"`
	Farming       FarmingSpec        `yaml:"farming"`
}

// TokenSpec is one (asset, balance, weight) entry of a weighted pool.
type TokenSpec struct {
	Asset   string `yaml:"asset"`
	Balance string `yaml:"balance"`
	Weight  string `yaml:"weight"`
}

// WeightedPoolSpec configures one WeightedPool.CreatePool call.
type WeightedPoolSpec struct {
	Owner            string      `yaml:"owner"`
	SwapFeePercent   string      `yaml:"swap_fee_percent"`
	Tokens           []TokenSpec `yaml:"tokens"`
	FirstShareAmount string      `yaml:"first_share_amount"`
}

// StableAssetSpec is one (asset, precision) entry of a stable pool.
type StableAssetSpec struct {
	Asset     string `yaml:"asset"`
	Precision string `yaml:"precision"`
}

// StablePoolSpec configures one StableSwapPool.CreatePool call.
type StablePoolSpec struct {
	Owner           string            `yaml:"owner"`
	LPAsset         string            `yaml:"lp_asset"`
	Assets          []StableAssetSpec `yaml:"assets"`
	InitialA        string            `yaml:"initial_a"`
	MintFeeBps      string            `yaml:"mint_fee_bps"`
	SwapFeeBps      string            `yaml:"swap_fee_bps"`
	RedeemFeeBps    string            `yaml:"redeem_fee_bps"`
	FeeRecipient    string            `yaml:"fee_recipient"`
	YieldRecipient  string            `yaml:"yield_recipient"`
	// SeedAmounts, if set, is minted into the pool immediately after
	// creation via one Mint call funded from Owner (one amount per
	// entry in Assets, same order).
	SeedAmounts []string `yaml:"seed_amounts"`
}

// RateModelSpec describes a JumpRateModel in percent-per-block terms.
type RateModelSpec struct {
	BasePercent string `yaml:"base_percent"`
	JumpPercent string `yaml:"jump_percent"`
	FullPercent string `yaml:"full_percent"`
	KinkPercent string `yaml:"kink_percent"`
}

// MarketSpec configures one LendingEngine.AddMarket call.
type MarketSpec struct {
	Underlying                       string        `yaml:"underlying"`
	LendToken                        string        `yaml:"lend_token"`
	RateModel                        RateModelSpec `yaml:"rate_model"`
	CollateralFactorPercent          string        `yaml:"collateral_factor_percent"`
	LiquidationThresholdPercent      string        `yaml:"liquidation_threshold_percent"`
	ReserveFactorPercent             string        `yaml:"reserve_factor_percent"`
	CloseFactorPercent               string        `yaml:"close_factor_percent"`
	LiquidateIncentiveReservedPercent string       `yaml:"liquidate_incentive_reserved_percent"`
	LiquidateIncentivePercent        string        `yaml:"liquidate_incentive_percent"`
	SupplyCap                        string        `yaml:"supply_cap"`
	BorrowCap                        string        `yaml:"borrow_cap"`
	IsLiquidationFree                bool          `yaml:"is_liquidation_free"`
	// OraclePrice seeds the MemoryOracle with this market's price so the
	// demo's borrow/liquidate walkthrough has something to value against.
	OraclePrice string `yaml:"oracle_price"`
	// DemoUser, SeedSupplyAmount, and SeedBorrowAmount, if all set,
	// drive one scripted Mint+DepositAsCollateral(+Borrow) sequence
	// against this market after it activates.
	DemoUser         string `yaml:"demo_user"`
	SeedSupplyAmount string `yaml:"seed_supply_amount"`
	SeedBorrowAmount string `yaml:"seed_borrow_amount"`
}

// FarmingPoolSpec seeds one pool's total bonus allocation for
// LiquidityMiner (spec §4.5). FarmingSpec.Pools keys each entry by the
// zero-based position of its weighted pool in WeightedPools, since the
// pool id is only known once CreatePool has run; the caller maps that
// position to the assigned id.
type FarmingPoolSpec struct {
	BonusPoolTotal string `yaml:"bonus_pool_total"`
}

// FarmingSpec configures the LiquidityMiner.
type FarmingSpec struct {
	BonusAsset     string                     `yaml:"bonus_asset"`
	BonusPool      string                     `yaml:"bonus_pool"`
	AgeDenominator string                     `yaml:"age_denominator"`
	Pools          map[string]FarmingPoolSpec `yaml:"pools"`
}

// Load reads and parses a scenario file from path.
func Load(path string) (*Scenario, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &s, nil
}

// ParseInt parses a base-10 sdk.Int literal, defaulting blank to zero.
func ParseInt(s string) (sdk.Int, error) {
	if s == "" {
		return sdk.ZeroInt(), nil
	}
	v, ok := sdk.NewIntFromString(s)
	if !ok {
		return sdk.Int{}, fmt.Errorf("config: invalid integer %q", s)
	}
	return v, nil
}

// ParsePercent turns a decimal percent string ("87.5") into a Ratio in
// [0,1] by reading it as a fraction over 10000 basis points.
func ParsePercent(s string) (fixedmath.Ratio, error) {
	bps, err := parseBasisPoints(s)
	if err != nil {
		return fixedmath.Ratio{}, err
	}
	return fixedmath.NewRatioFromFraction(bps, sdk.NewInt(10000))
}

// ParseRatePercent is ParsePercent's Rate-typed counterpart, for
// unbounded-above quantities like liquidate_incentive (>100%).
func ParseRatePercent(s string) (fixedmath.Rate, error) {
	bps, err := parseBasisPoints(s)
	if err != nil {
		return fixedmath.Rate{}, err
	}
	return fixedmath.NewRateFromFraction(bps, sdk.NewInt(10000))
}

// parseBasisPoints converts a decimal percent string to an integer
// number of basis points (1% = 100bps), since sdk.Int carries no
// fractional literal parser of its own.
func parseBasisPoints(s string) (sdk.Int, error) {
	if s == "" {
		return sdk.ZeroInt(), nil
	}
	var whole, frac string
	for i, c := range s {
		if c == '.' {
			whole, frac = s[:i], s[i+1:]
			break
		}
	}
	if frac == "" && whole == "" {
		whole = s
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	wholeVal, ok := sdk.NewIntFromString(defaultZero(whole))
	if !ok {
		return sdk.Int{}, fmt.Errorf("config: invalid percent %q", s)
	}
	fracVal, ok := sdk.NewIntFromString(defaultZero(frac))
	if !ok {
		return sdk.Int{}, fmt.Errorf("config: invalid percent %q", s)
	}
	return wholeVal.MulRaw(100).Add(fracVal), nil
}

func defaultZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// Parse materializes a RateModelSpec into the fixedmath-backed base, jump,
// full and kink parameters of a JumpRateModel; the caller builds the
// concrete type since config does not import x/lending/types (kept
// dependency-free of the engines it configures).
func (s RateModelSpec) Parse() (base, jump, full fixedmath.Rate, kink fixedmath.Ratio, err error) {
	if base, err = ParseRatePercent(s.BasePercent); err != nil {
		return
	}
	if jump, err = ParseRatePercent(s.JumpPercent); err != nil {
		return
	}
	if full, err = ParseRatePercent(s.FullPercent); err != nil {
		return
	}
	kink, err = ParsePercent(s.KinkPercent)
	return
}
