package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
	"github.com/bifrost-finance/defi-engine/corectx"
	"github.com/bifrost-finance/defi-engine/x/lending/types"
)

// Borrow draws borrowAmount of underlying against the caller's
// collateral (spec §4.4.3).
func (k *Keeper) Borrow(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID, borrowAmount sdk.Int) error {
	if !borrowAmount.IsPositive() {
		return types.ErrInvalidAmount
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	m, err := k.touch(ctx, underlying)
	if err != nil {
		return err
	}
	if err := requireActive(m); err != nil {
		return err
	}
	if m.TotalBorrows.Add(borrowAmount).GT(m.BorrowCap) {
		return types.ErrBorrowCapacityExceeded
	}
	if k.cash(m).LT(borrowAmount) {
		return types.ErrInsufficientCash
	}
	if err := k.checkBorrowLiquidity(m, who, borrowAmount); err != nil {
		return err
	}

	b := k.borrow(underlying, who)
	current := b.CurrentBorrowBalance(m.BorrowIndex)
	k.touchAccountReward(underlying, who, k.deposit(underlying, who).VoucherBalance, current)

	if err := k.assets.Transfer(underlying, m.Address(), who, borrowAmount, false); err != nil {
		return err
	}
	b.Principal = current.Add(borrowAmount)
	b.BorrowIndexAtLastTouch = m.BorrowIndex
	m.TotalBorrows = m.TotalBorrows.Add(borrowAmount)

	k.logMarket(ctx, "borrow", underlying).Logger().Info("borrowed", "who", who, "amount", borrowAmount)
	metrics().observeBorrow(underlying, intToFloat(m.TotalBorrows))
	return nil
}

// commitRepay moves repayAmount from who to m's pool account, then
// records it against the account's principal. Transfer happens before
// any state mutation so a transfer failure leaves the ledger untouched.
// Must be called with k.mu held.
func (k *Keeper) commitRepay(m *types.Market, who adapters.AccountID, b *types.AccountBorrow, current, repayAmount sdk.Int) error {
	if err := k.assets.Transfer(m.UnderlyingAsset, who, m.Address(), repayAmount, false); err != nil {
		return err
	}
	b.Principal = current.Sub(repayAmount)
	b.BorrowIndexAtLastTouch = m.BorrowIndex
	m.TotalBorrows = m.TotalBorrows.Sub(repayAmount)
	return nil
}

// Repay pays down repayAmount of the caller's own debt; Repay and
// Liquidate are the two operations allowed while a market is under
// Supervision (spec §4.4.6).
func (k *Keeper) Repay(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID, repayAmount sdk.Int) error {
	if !repayAmount.IsPositive() {
		return types.ErrInvalidAmount
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	m, err := k.touch(ctx, underlying)
	if err != nil {
		return err
	}
	if err := requireActiveOrSupervision(m); err != nil {
		return err
	}

	b, ok := k.borrows[acctKey{underlying, who}]
	if !ok || b.Principal.IsZero() {
		return types.ErrTooMuchRepay
	}
	current := b.CurrentBorrowBalance(m.BorrowIndex)
	if repayAmount.GT(current) {
		return types.ErrTooMuchRepay
	}
	k.touchAccountReward(underlying, who, k.deposit(underlying, who).VoucherBalance, current)

	if err := k.commitRepay(m, who, b, current, repayAmount); err != nil {
		return err
	}

	k.logMarket(ctx, "repay", underlying).Logger().Info("repaid", "who", who, "amount", repayAmount)
	return nil
}

// RepayAll repays an account's full current borrow balance, accruing
// interest first so the amount repaid reflects this block's index.
func (k *Keeper) RepayAll(ctx corectx.Context, who adapters.AccountID, underlying adapters.AssetID) (sdk.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, err := k.touch(ctx, underlying)
	if err != nil {
		return sdk.Int{}, err
	}
	if err := requireActiveOrSupervision(m); err != nil {
		return sdk.Int{}, err
	}
	b, ok := k.borrows[acctKey{underlying, who}]
	if !ok || b.Principal.IsZero() {
		return sdk.Int{}, types.ErrTooMuchRepay
	}
	current := b.CurrentBorrowBalance(m.BorrowIndex)
	k.touchAccountReward(underlying, who, k.deposit(underlying, who).VoucherBalance, current)

	if err := k.commitRepay(m, who, b, current, current); err != nil {
		return sdk.Int{}, err
	}

	k.logMarket(ctx, "repay_all", underlying).Logger().Info("repaid in full", "who", who, "amount", current)
	return current, nil
}
