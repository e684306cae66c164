package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// Liquidate repays repayAmount of borrower's debt in debtAsset on
// liquidator's behalf and seizes the equivalent collateral (plus
// liquidate_incentive) from borrower's collateralAsset deposit (spec
// §4.4.4). lfBasePosition is the account's liquidation-free base
// position offsetting debtAsset's borrow value when debtAsset belongs to
// the liquidation-free class; pass sdk.ZeroInt() for accounts with none.
func (k *Keeper) Liquidate(ctx corectx.Context, liquidator, borrower adapters.AccountID, debtAsset, collateralAsset adapters.AssetID, repayAmount sdk.Int, lfBasePosition sdk.Int) (sdk.Int, error) {
	if liquidator == borrower {
		return sdk.Int{}, types.ErrLiquidatorIsBorrower
	}
	if !repayAmount.IsPositive() {
		return sdk.Int{}, types.ErrInvalidAmount
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	debtMarket, err := k.touch(ctx, debtAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	if err := requireActiveOrSupervision(debtMarket); err != nil {
		return sdk.Int{}, err
	}
	collateralMarket, err := k.touch(ctx, collateralAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	if collateralMarket.IsLiquidationFree {
		return sdk.Int{}, types.ErrCollateralReserved
	}

	dep, ok := k.deposits[acctKey{collateralAsset, borrower}]
	if !ok || !dep.IsCollateral {
		return sdk.Int{}, types.ErrDepositsAreNotCollateral
	}

	shortfall, err := k.accountShortfall(borrower)
	if err != nil {
		return sdk.Int{}, err
	}
	if !shortfall {
		return sdk.Int{}, types.ErrInsufficientShortfall
	}

	b, ok := k.borrows[acctKey{debtAsset, borrower}]
	if !ok || b.Principal.IsZero() {
		return sdk.Int{}, types.ErrTooMuchRepay
	}
	currentDebt := b.CurrentBorrowBalance(debtMarket.BorrowIndex)

	debtValue, err := k.borrowContribution(debtMarket, borrower)
	if err != nil {
		return sdk.Int{}, err
	}
	effectiveBorrowValue := debtValue
	if debtMarket.IsLiquidationFree {
		effectiveBorrowValue = debtValue.Sub(lfBasePosition)
		if effectiveBorrowValue.IsNegative() {
			effectiveBorrowValue = sdk.ZeroInt()
		}
	}
	priceDebt, err := k.priceRate(debtAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	maxRepayValue := debtMarket.CloseFactor.MulFloor(effectiveBorrowValue)
	maxRepayAmount, err := priceDebt.DivInt(maxRepayValue)
	if err != nil {
		return sdk.Int{}, err
	}
	if repayAmount.GT(maxRepayAmount) || repayAmount.GT(currentDebt) {
		return sdk.Int{}, types.ErrTooMuchRepay
	}

	priceCollateral, err := k.priceRate(collateralAsset)
	if err != nil {
		return sdk.Int{}, err
	}
	seizeValue := collateralMarket.LiquidateIncentive.MulInt(priceDebt.MulInt(repayAmount))
	seizeUnderlying, err := priceCollateral.DivInt(seizeValue)
	if err != nil {
		return sdk.Int{}, err
	}
	seizeVouchers, err := collateralMarket.ExchangeRate.DivInt(seizeUnderlying)
	if err != nil {
		return sdk.Int{}, err
	}
	if dep.VoucherBalance.LT(seizeVouchers) {
		return sdk.Int{}, types.ErrInsufficientCollateral
	}

	reservedVouchers := collateralMarket.LiquidateIncentiveReservedFactor.MulFloor(seizeVouchers)
	liquidatorVouchers := seizeVouchers.Sub(reservedVouchers)

	if err := k.commitRepay(debtMarket, liquidator, b, currentDebt, repayAmount); err != nil {
		return sdk.Int{}, err
	}

	dep.VoucherBalance = dep.VoucherBalance.Sub(seizeVouchers)
	liquidatorDep := k.deposit(collateralAsset, liquidator)
	liquidatorDep.VoucherBalance = liquidatorDep.VoucherBalance.Add(liquidatorVouchers)
	reserved, ok := k.incentiveReserveVouchers[collateralAsset]
	if !ok {
		reserved = sdk.ZeroInt()
	}
	k.incentiveReserveVouchers[collateralAsset] = reserved.Add(reservedVouchers)

	k.logMarket(ctx, "liquidate", debtAsset).Logger().Info("liquidated", "liquidator", liquidator, "borrower", borrower, "repay_amount", repayAmount, "seized_vouchers", seizeVouchers)
	metrics().observeLiquidation(debtAsset)
	return seizeVouchers, nil
}
