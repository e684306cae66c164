package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// touch accrues interest and reward indices for a market and returns it
// ready to mutate. Mint, Redeem, Borrow, Repay, RepayAll, Liquidate,
// AddReserves and ReduceReserves call touch first (spec §5, "invoked at
// the head of every market-touching operation"); market administration,
// DepositAsCollateral and ClaimReward do not accrue.
func (k *Keeper) touch(ctx corectx.Context, underlying adapters.AssetID) (*types.Market, error) {
	m, ok := k.markets[underlying]
	if !ok {
		return nil, types.ErrMarketDoesNotExist
	}
	deltaBlocks := ctx.BlockHeight() - m.LastAccrualBlock
	k.advanceRewardIndex(m, deltaBlocks)
	if err := k.accrueInterest(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Mint converts amount of underlying to amount/exchange_rate cTokens
// (spec §4.4.2).
func (k *Keeper) Mint(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID, amount sdk.Int) (sdk.Int, error) {
	if !amount.IsPositive() {
		return sdk.Int{}, types.ErrInvalidAmount
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	m, err := k.touch(ctx, underlying)
	if err != nil {
		return sdk.Int{}, err
	}
	if err := requireActive(m); err != nil {
		return sdk.Int{}, err
	}
	if m.TotalSupply.Add(amount).GT(m.SupplyCap) {
		return sdk.Int{}, types.ErrSupplyCapacityExceeded
	}

	voucherAmount, err := m.ExchangeRate.DivInt(amount)
	if err != nil || !voucherAmount.IsPositive() {
		return sdk.Int{}, types.ErrInvalidAmount
	}

	dep := k.deposit(underlying, who)
	k.touchAccountReward(underlying, who, dep.VoucherBalance, k.borrow(underlying, who).Principal)

	if err := k.assets.Transfer(underlying, who, m.Address(), amount, false); err != nil {
		return sdk.Int{}, err
	}
	dep.VoucherBalance = dep.VoucherBalance.Add(voucherAmount)
	m.TotalSupply = m.TotalSupply.Add(voucherAmount)

	k.logMarket(ctx, "mint", underlying).Logger().Info("minted", "who", who, "amount", amount, "vouchers", voucherAmount)
	return voucherAmount, nil
}

// Redeem burns voucherAmount of cTokens and returns the underlying owed,
// rounding the underlying DOWN (spec §4.4.2).
func (k *Keeper) Redeem(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID, voucherAmount sdk.Int) (sdk.Int, error) {
	if !voucherAmount.IsPositive() {
		return sdk.Int{}, types.ErrInvalidAmount
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	m, err := k.touch(ctx, underlying)
	if err != nil {
		return sdk.Int{}, err
	}
	if err := requireActive(m); err != nil {
		return sdk.Int{}, err
	}

	dep := k.deposit(underlying, who)
	if dep.VoucherBalance.LT(voucherAmount) {
		return sdk.Int{}, types.ErrNoDeposit
	}

	if err := k.checkWithdrawLiquidity(m, who, underlying, voucherAmount); err != nil {
		return sdk.Int{}, err
	}

	underlyingAmount := m.ExchangeRate.MulInt(voucherAmount)
	if underlyingAmount.IsZero() {
		return sdk.Int{}, types.ErrInvalidAmount
	}
	if k.cash(m).LT(underlyingAmount) {
		return sdk.Int{}, types.ErrInsufficientCash
	}

	k.touchAccountReward(underlying, who, dep.VoucherBalance, k.borrow(underlying, who).Principal)

	if err := k.assets.Transfer(underlying, m.Address(), who, underlyingAmount, false); err != nil {
		return sdk.Int{}, err
	}
	dep.VoucherBalance = dep.VoucherBalance.Sub(voucherAmount)
	m.TotalSupply = m.TotalSupply.Sub(voucherAmount)

	k.logMarket(ctx, "redeem", underlying).Logger().Info("redeemed", "who", who, "vouchers", voucherAmount, "underlying", underlyingAmount)
	return underlyingAmount, nil
}

// RedeemAll redeems an account's full voucher balance in a market.
func (k *Keeper) RedeemAll(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID) (sdk.Int, error) {
	k.mu.RLock()
	dep, ok := k.deposits[acctKey{underlying, who}]
	k.mu.RUnlock()
	if !ok || dep.VoucherBalance.IsZero() {
		return sdk.ZeroInt(), types.ErrNoDeposit
	}
	return k.Redeem(ctx, who, underlying, dep.VoucherBalance)
}

// DepositAsCollateral flips an account's collateral flag for a market
// (spec §3.4).
func (k *Keeper) DepositAsCollateral(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID, enable bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.markets[underlying]; !ok {
		return types.ErrMarketDoesNotExist
	}
	dep := k.deposit(underlying, who)
	if dep.IsCollateral == enable {
		return types.ErrDuplicateOperation
	}
	dep.IsCollateral = enable
	k.logMarket(ctx, "set_collateral", underlying).Logger().Info("collateral flag set", "who", who, "enabled", enable)
	return nil
}
