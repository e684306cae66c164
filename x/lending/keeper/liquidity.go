package keeper

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/fixedmath"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// priceRate resolves an asset's oracle price as a fixedmath.Rate, so that
// value = price.MulInt(balance) implements spec §6's "value = price ·
// balance / 10^18" directly.
func (k *Keeper) priceRate(asset adapters.AssetID) (fixedmath.Rate, error) {
	pp, err := k.oracle.Price(asset)
	if errors.Is(err, adapters.ErrPriceIsZero) {
		return fixedmath.Rate{}, types.ErrPriceIsZero
	}
	if err != nil {
		return fixedmath.Rate{}, types.ErrPriceOracleNotReady
	}
	if pp.Price.IsZero() {
		return fixedmath.Rate{}, types.ErrPriceIsZero
	}
	return fixedmath.NewRateFromRaw(pp.Price)
}

// collateralContribution values one market's deposit toward an account's
// collateral_value (spec §4.4.3): mul_ceil(underlying_equivalent(vouchers),
// collateral_factor) · price.
func (k *Keeper) collateralContribution(m *types.Market, vouchers sdk.Int) (sdk.Int, error) {
	if vouchers.IsZero() {
		return sdk.ZeroInt(), nil
	}
	underlying := m.ExchangeRate.MulInt(vouchers)
	ceiled := m.CollateralFactor.MulCeil(underlying)
	price, err := k.priceRate(m.UnderlyingAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	return price.MulInt(ceiled), nil
}

// borrowContribution values one market's outstanding borrow.
func (k *Keeper) borrowContribution(m *types.Market, account adapters.AccountID) (sdk.Int, error) {
	b, ok := k.borrows[acctKey{m.UnderlyingAsset, account}]
	if !ok || b.Principal.IsZero() {
		return sdk.ZeroInt(), nil
	}
	balance := b.CurrentBorrowBalance(m.BorrowIndex)
	price, err := k.priceRate(m.UnderlyingAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	return price.MulInt(balance), nil
}

// accountLiquidity returns an account's total collateral_value,
// borrow_value, and the same pair restricted to liquidation-free markets
// (spec §4.4.3, §4.4.4). Must be called with k.mu held.
func (k *Keeper) accountLiquidity(account adapters.AccountID) (collateralValue, borrowValue, lfCollateralValue, lfBorrowValue sdk.Int, err error) {
	collateralValue, borrowValue = sdk.ZeroInt(), sdk.ZeroInt()
	lfCollateralValue, lfBorrowValue = sdk.ZeroInt(), sdk.ZeroInt()

	for asset, m := range k.markets {
		if dep, ok := k.deposits[acctKey{asset, account}]; ok && dep.IsCollateral && dep.VoucherBalance.IsPositive() {
			v, cerr := k.collateralContribution(m, dep.VoucherBalance)
			if cerr != nil {
				return sdk.Int{}, sdk.Int{}, sdk.Int{}, sdk.Int{}, cerr
			}
			collateralValue = collateralValue.Add(v)
			if m.IsLiquidationFree {
				lfCollateralValue = lfCollateralValue.Add(v)
			}
		}
		v, berr := k.borrowContribution(m, account)
		if berr != nil {
			return sdk.Int{}, sdk.Int{}, sdk.Int{}, sdk.Int{}, berr
		}
		borrowValue = borrowValue.Add(v)
		if m.IsLiquidationFree {
			lfBorrowValue = lfBorrowValue.Add(v)
		}
	}
	return collateralValue, borrowValue, lfCollateralValue, lfBorrowValue, nil
}

// checkLiquidityReduction enforces spec §4.4.3's reduce_amount rule: a
// pending reduction of reduceValue in market m is allowed iff
// total_liquidity ≥ total_liquidation_free_liquidity + reduce_amount for a
// non-LF asset, or iff max(total_liquidity, lf_liquidity) ≥ reduce_amount
// for an LF asset. Must be called with k.mu held, before the state change
// it is guarding takes effect.
func (k *Keeper) checkLiquidityReduction(account adapters.AccountID, m *types.Market, reduceValue sdk.Int) error {
	if reduceValue.IsZero() || reduceValue.IsNegative() {
		return nil
	}
	collateralValue, borrowValue, lfCollateralValue, lfBorrowValue, err := k.accountLiquidity(account)
	if err != nil {
		return err
	}
	totalLiquidity := collateralValue.Sub(borrowValue)
	lfLiquidity := lfCollateralValue.Sub(lfBorrowValue)

	if m.IsLiquidationFree {
		maxLiquidity := totalLiquidity
		if lfLiquidity.GT(maxLiquidity) {
			maxLiquidity = lfLiquidity
		}
		if maxLiquidity.LT(reduceValue) {
			return types.ErrInsufficientLiquidity
		}
		return nil
	}
	if totalLiquidity.LT(lfLiquidity.Add(reduceValue)) {
		return types.ErrInsufficientLiquidity
	}
	return nil
}

// checkWithdrawLiquidity guards Redeem: the collateral value a redemption
// of voucherAmount would remove must not push the account underwater.
// Must be called with k.mu held.
func (k *Keeper) checkWithdrawLiquidity(m *types.Market, account adapters.AccountID, underlying adapters.AssetID, voucherAmount sdk.Int) error {
	dep, ok := k.deposits[acctKey{underlying, account}]
	if !ok || !dep.IsCollateral {
		return nil
	}
	reduceValue, err := k.collateralContribution(m, voucherAmount)
	if err != nil {
		return err
	}
	return k.checkLiquidityReduction(account, m, reduceValue)
}

// thresholdValue values one market's deposit against its liquidation
// threshold rather than its collateral factor (spec §4.4.4).
func (k *Keeper) thresholdValue(m *types.Market, vouchers sdk.Int) (sdk.Int, error) {
	if vouchers.IsZero() {
		return sdk.ZeroInt(), nil
	}
	underlying := m.ExchangeRate.MulInt(vouchers)
	ceiled := m.LiquidationThreshold.MulCeil(underlying)
	price, err := k.priceRate(m.UnderlyingAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	return price.MulInt(ceiled), nil
}

// accountShortfall reports whether account is liquidatable (spec
// §4.4.4): total_borrow_value exceeds total_liquidation_threshold_value,
// or the same comparison restricted to liquidation-free markets shows a
// shortfall. Must be called with k.mu held.
func (k *Keeper) accountShortfall(account adapters.AccountID) (bool, error) {
	borrowValue, lfBorrowValue := sdk.ZeroInt(), sdk.ZeroInt()
	thresholdTotal, lfThresholdTotal := sdk.ZeroInt(), sdk.ZeroInt()

	for asset, m := range k.markets {
		if dep, ok := k.deposits[acctKey{asset, account}]; ok && dep.IsCollateral && dep.VoucherBalance.IsPositive() {
			v, err := k.thresholdValue(m, dep.VoucherBalance)
			if err != nil {
				return false, err
			}
			thresholdTotal = thresholdTotal.Add(v)
			if m.IsLiquidationFree {
				lfThresholdTotal = lfThresholdTotal.Add(v)
			}
		}
		v, err := k.borrowContribution(m, account)
		if err != nil {
			return false, err
		}
		borrowValue = borrowValue.Add(v)
		if m.IsLiquidationFree {
			lfBorrowValue = lfBorrowValue.Add(v)
		}
	}

	if borrowValue.GT(thresholdTotal) {
		return true, nil
	}
	if lfBorrowValue.GT(lfThresholdTotal) {
		return true, nil
	}
	return false, nil
}

// checkBorrowLiquidity guards Borrow: the new debt's value must not push
// the account underwater. Must be called with k.mu held.
func (k *Keeper) checkBorrowLiquidity(m *types.Market, account adapters.AccountID, borrowAmount sdk.Int) error {
	price, err := k.priceRate(m.UnderlyingAsset)
	if err != nil {
		return err
	}
	return k.checkLiquidityReduction(account, m, price.MulInt(borrowAmount))
}
