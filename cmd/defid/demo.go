package main

import (
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/config"
	"github.com/bifrost-finance/defi-engine/corectx"
	farmingkeeper "github.com/bifrost-finance/defi-engine/x/farming/keeper"
	lendingkeeper "github.com/bifrost-finance/defi-engine/x/lending/keeper"
	lendingtypes "github.com/bifrost-finance/defi-engine/x/lending/types"
	stableswapkeeper "github.com/bifrost-finance/defi-engine/x/stableswap/keeper"
	weightedpoolkeeper "github.com/bifrost-finance/defi-engine/x/weightedpool/keeper"
)

func createDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed all four engines from --config and run a scripted walkthrough",
		RunE:  runDemo,
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	if flagConfig == "" {
		return fmt.Errorf("--config is required")
	}
	logger, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}
	scenario, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		go func() {
			if err := serveMetrics(flagMetricsAddr); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		logger.Info("serving metrics", "addr", flagMetricsAddr)
	}

	assets := adapters.NewMemoryAssets(sdk.ZeroInt())
	oracle := adapters.NewMemoryOracle()
	clock := adapters.NewManualClock(1_700_000_000, 1)
	ctx := corectx.New(logger, clock, clock)

	bonusAsset := adapters.AssetID(orDefault(scenario.Farming.BonusAsset, "BNC"))
	bonusPool := adapters.AccountID(orDefault(scenario.Farming.BonusPool, "farming/bonus-pool"))
	rewardPool := adapters.AccountID("lending/reward-pool")

	wp := weightedpoolkeeper.NewKeeper(assets)
	ss := stableswapkeeper.NewKeeper(assets)
	lending := lendingkeeper.NewKeeper(assets, oracle, bonusAsset, rewardPool)

	ageDenominator, err := config.ParseInt(scenario.Farming.AgeDenominator)
	if err != nil {
		return fmt.Errorf("farming.age_denominator: %w", err)
	}
	if ageDenominator.IsZero() {
		ageDenominator = sdk.NewInt(100_000)
	}
	farming := farmingkeeper.NewKeeper(wp, assets, bonusAsset, bonusPool, ageDenominator)
	wp.SetBonusObserver(farming)

	logger.Info("seeding weighted pools", "count", len(scenario.WeightedPools))
	for i, spec := range scenario.WeightedPools {
		poolID, err := seedWeightedPool(ctx, assets, wp, spec)
		if err != nil {
			return fmt.Errorf("weighted pool %d: %w", i, err)
		}
		if fp, ok := scenario.Farming.Pools[strconv.Itoa(i)]; ok {
			total, err := config.ParseInt(fp.BonusPoolTotal)
			if err != nil {
				return fmt.Errorf("farming.pools[%d]: %w", i, err)
			}
			if err := assets.Deposit(bonusAsset, bonusPool, total); err != nil {
				return err
			}
			if err := farming.SetBonusPoolTotal(poolID, total); err != nil {
				return fmt.Errorf("farming.pools[%d]: %w", i, err)
			}
		}
	}

	logger.Info("seeding stable pools", "count", len(scenario.StablePools))
	for i, spec := range scenario.StablePools {
		if _, err := seedStablePool(ctx, assets, ss, spec); err != nil {
			return fmt.Errorf("stable pool %d: %w", i, err)
		}
	}

	logger.Info("seeding markets", "count", len(scenario.Markets))
	for i, spec := range scenario.Markets {
		if err := seedMarket(ctx, assets, oracle, lending, spec); err != nil {
			return fmt.Errorf("market %d (%s): %w", i, spec.Underlying, err)
		}
	}

	logger.Info("scenario seeded",
		"weighted_pools", len(scenario.WeightedPools),
		"stable_pools", len(scenario.StablePools),
		"markets", len(scenario.Markets))
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func seedWeightedPool(ctx corectx.Context, assets adapters.Assets, wp *weightedpoolkeeper.Keeper, spec config.WeightedPoolSpec) (uint32, error) {
	owner := adapters.AccountID(spec.Owner)
	tokens := make([]weightedpoolkeeper.TokenSpec, len(spec.Tokens))
	for i, t := range spec.Tokens {
		balance, err := config.ParseInt(t.Balance)
		if err != nil {
			return 0, fmt.Errorf("tokens[%d].balance: %w", i, err)
		}
		weight, err := config.ParseInt(t.Weight)
		if err != nil {
			return 0, fmt.Errorf("tokens[%d].weight: %w", i, err)
		}
		asset := adapters.AssetID(t.Asset)
		if err := assets.Deposit(asset, owner, balance); err != nil {
			return 0, err
		}
		tokens[i] = weightedpoolkeeper.TokenSpec{Asset: asset, Balance: balance, Weight: weight}
	}
	swapFee, err := config.ParsePercent(spec.SwapFeePercent)
	if err != nil {
		return 0, fmt.Errorf("swap_fee_percent: %w", err)
	}
	firstShares, err := config.ParseInt(spec.FirstShareAmount)
	if err != nil {
		return 0, fmt.Errorf("first_share_amount: %w", err)
	}
	poolID, err := wp.CreatePool(ctx, owner, swapFee, tokens, firstShares)
	if err != nil {
		return 0, err
	}
	if err := wp.ActivatePool(ctx, owner, poolID); err != nil {
		return 0, err
	}
	return poolID, nil
}

func seedStablePool(ctx corectx.Context, assets adapters.Assets, ss *stableswapkeeper.Keeper, spec config.StablePoolSpec) (uint32, error) {
	owner := adapters.AccountID(spec.Owner)
	lpAsset := adapters.AssetID(spec.LPAsset)
	specs := make([]stableswapkeeper.AssetSpec, len(spec.Assets))
	for i, a := range spec.Assets {
		precision, err := config.ParseInt(a.Precision)
		if err != nil {
			return 0, fmt.Errorf("assets[%d].precision: %w", i, err)
		}
		specs[i] = stableswapkeeper.AssetSpec{
			Asset:                adapters.AssetID(a.Asset),
			Precision:            precision,
			TokenRateNumerator:   sdk.OneInt(),
			TokenRateDenominator: sdk.OneInt(),
		}
	}
	initialA, err := config.ParseInt(spec.InitialA)
	if err != nil {
		return 0, fmt.Errorf("initial_a: %w", err)
	}
	mintFee, err := config.ParseInt(spec.MintFeeBps)
	if err != nil {
		return 0, fmt.Errorf("mint_fee_bps: %w", err)
	}
	swapFee, err := config.ParseInt(spec.SwapFeeBps)
	if err != nil {
		return 0, fmt.Errorf("swap_fee_bps: %w", err)
	}
	redeemFee, err := config.ParseInt(spec.RedeemFeeBps)
	if err != nil {
		return 0, fmt.Errorf("redeem_fee_bps: %w", err)
	}
	// CreatePool takes fees as numerators over FeePrecision (10^10), so one
	// basis point is 10^6.
	mintFee, swapFee, redeemFee = mintFee.MulRaw(1_000_000), swapFee.MulRaw(1_000_000), redeemFee.MulRaw(1_000_000)
	feeRecipient := adapters.AccountID(orDefault(spec.FeeRecipient, string(owner)))
	yieldRecipient := adapters.AccountID(orDefault(spec.YieldRecipient, string(owner)))

	poolID, err := ss.CreatePool(ctx, owner, lpAsset, specs, initialA, mintFee, swapFee, redeemFee, feeRecipient, yieldRecipient)
	if err != nil {
		return 0, err
	}

	if len(spec.SeedAmounts) == 0 {
		return poolID, nil
	}
	if len(spec.SeedAmounts) != len(specs) {
		return 0, fmt.Errorf("seed_amounts has %d entries, want %d", len(spec.SeedAmounts), len(specs))
	}
	amounts := make([]sdk.Int, len(specs))
	for i, raw := range spec.SeedAmounts {
		amt, err := config.ParseInt(raw)
		if err != nil {
			return 0, fmt.Errorf("seed_amounts[%d]: %w", i, err)
		}
		if err := assets.Deposit(specs[i].Asset, owner, amt); err != nil {
			return 0, err
		}
		amounts[i] = amt
	}
	if _, err := ss.Mint(ctx, owner, poolID, amounts, sdk.ZeroInt()); err != nil {
		return 0, fmt.Errorf("seed mint: %w", err)
	}
	return poolID, nil
}

func seedMarket(ctx corectx.Context, assets adapters.Assets, oracle *adapters.MemoryOracle, lending *lendingkeeper.Keeper, spec config.MarketSpec) error {
	underlying := adapters.AssetID(spec.Underlying)
	lendToken := adapters.AssetID(spec.LendToken)

	base, jump, full, kink, err := spec.RateModel.Parse()
	if err != nil {
		return fmt.Errorf("rate_model: %w", err)
	}
	collateralFactor, err := config.ParsePercent(spec.CollateralFactorPercent)
	if err != nil {
		return fmt.Errorf("collateral_factor_percent: %w", err)
	}
	liquidationThreshold, err := config.ParsePercent(spec.LiquidationThresholdPercent)
	if err != nil {
		return fmt.Errorf("liquidation_threshold_percent: %w", err)
	}
	reserveFactor, err := config.ParsePercent(spec.ReserveFactorPercent)
	if err != nil {
		return fmt.Errorf("reserve_factor_percent: %w", err)
	}
	closeFactor, err := config.ParsePercent(spec.CloseFactorPercent)
	if err != nil {
		return fmt.Errorf("close_factor_percent: %w", err)
	}
	liquidateIncentiveReserved, err := config.ParsePercent(spec.LiquidateIncentiveReservedPercent)
	if err != nil {
		return fmt.Errorf("liquidate_incentive_reserved_percent: %w", err)
	}
	liquidateIncentive, err := config.ParseRatePercent(spec.LiquidateIncentivePercent)
	if err != nil {
		return fmt.Errorf("liquidate_incentive_percent: %w", err)
	}
	supplyCap, err := config.ParseInt(spec.SupplyCap)
	if err != nil {
		return fmt.Errorf("supply_cap: %w", err)
	}
	borrowCap, err := config.ParseInt(spec.BorrowCap)
	if err != nil {
		return fmt.Errorf("borrow_cap: %w", err)
	}

	m := lendingtypes.Market{
		RateModel:                        lendingtypes.JumpRateModel{Base: base, Jump: jump, Full: full, Kink: kink},
		CollateralFactor:                 collateralFactor,
		LiquidationThreshold:             liquidationThreshold,
		ReserveFactor:                    reserveFactor,
		CloseFactor:                      closeFactor,
		LiquidateIncentiveReservedFactor: liquidateIncentiveReserved,
		LiquidateIncentive:               liquidateIncentive,
		SupplyCap:                        supplyCap,
		BorrowCap:                        borrowCap,
		IsLiquidationFree:                spec.IsLiquidationFree,
	}
	if err := lending.AddMarket(ctx, underlying, lendToken, m); err != nil {
		return err
	}
	if err := lending.ActivateMarket(ctx, underlying); err != nil {
		return err
	}

	if spec.OraclePrice != "" {
		price, err := config.ParseInt(spec.OraclePrice)
		if err != nil {
			return fmt.Errorf("oracle_price: %w", err)
		}
		oracle.SetPrice(underlying, price, ctx.UnixTime())
	}

	if spec.DemoUser == "" || spec.SeedSupplyAmount == "" {
		return nil
	}
	user := adapters.AccountID(spec.DemoUser)
	supplyAmount, err := config.ParseInt(spec.SeedSupplyAmount)
	if err != nil {
		return fmt.Errorf("seed_supply_amount: %w", err)
	}
	if err := assets.Deposit(underlying, user, supplyAmount); err != nil {
		return err
	}
	if _, err := lending.Mint(ctx, user, underlying, supplyAmount); err != nil {
		return fmt.Errorf("seed mint: %w", err)
	}
	if err := lending.DepositAsCollateral(ctx, user, underlying, true); err != nil {
		return fmt.Errorf("seed deposit_as_collateral: %w", err)
	}

	if spec.SeedBorrowAmount == "" {
		return nil
	}
	borrowAmount, err := config.ParseInt(spec.SeedBorrowAmount)
	if err != nil {
		return fmt.Errorf("seed_borrow_amount: %w", err)
	}
	if err := lending.Borrow(ctx, user, underlying, borrowAmount); err != nil {
		return fmt.Errorf("seed borrow: %w", err)
	}
	return nil
}
