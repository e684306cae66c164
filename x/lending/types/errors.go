package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

// ModuleName is the lending codespace.
const ModuleName = "lending"

// Error catalogue matching spec §4.4.7 plus the supervisory/lifecycle
// failures original_source/pallets/lend-market/src/lib.rs's Error<T> also
// names, since every failure category the pallet surfaces is fair game
// for a complete re-implementation.
var (
	ErrInsufficientLiquidity     = sdkerrors.Register(ModuleName, 2, "insufficient liquidity")
	ErrInsufficientCash          = sdkerrors.Register(ModuleName, 3, "insufficient cash in the pool")
	ErrInsufficientReserves      = sdkerrors.Register(ModuleName, 4, "insufficient reserves")
	ErrInsufficientCollateral    = sdkerrors.Register(ModuleName, 5, "insufficient collateral")
	ErrInsufficientShortfall     = sdkerrors.Register(ModuleName, 6, "insufficient shortfall to liquidate")
	ErrTooMuchRepay              = sdkerrors.Register(ModuleName, 7, "repay amount greater than allowed")
	ErrInvalidFactor             = sdkerrors.Register(ModuleName, 8, "factor must be in (0, 1)")
	ErrInvalidRateModelParam     = sdkerrors.Register(ModuleName, 9, "invalid rate model parameters")
	ErrSupplyCapacityExceeded    = sdkerrors.Register(ModuleName, 10, "supply capacity exceeded")
	ErrBorrowCapacityExceeded    = sdkerrors.Register(ModuleName, 11, "borrow capacity exceeded")
	ErrPriceIsZero               = sdkerrors.Register(ModuleName, 12, "price is zero")
	ErrPriceOracleNotReady       = sdkerrors.Register(ModuleName, 13, "price oracle not ready")
	ErrMarketNotActivated        = sdkerrors.Register(ModuleName, 14, "market not activated")
	ErrCollateralReserved        = sdkerrors.Register(ModuleName, 15, "collateral is reserved and cannot be liquidated")
	ErrLiquidatorIsBorrower      = sdkerrors.Register(ModuleName, 16, "liquidator is the borrower")
	ErrDepositsAreNotCollateral  = sdkerrors.Register(ModuleName, 17, "deposits are not marked as collateral")
	ErrMarketDoesNotExist        = sdkerrors.Register(ModuleName, 18, "market does not exist")
	ErrMarketAlreadyExists       = sdkerrors.Register(ModuleName, 19, "market already exists")
	ErrNewMarketMustBePending    = sdkerrors.Register(ModuleName, 20, "new markets must have a pending state")
	ErrInvalidAmount             = sdkerrors.Register(ModuleName, 21, "amount must be positive")
	ErrInvalidExchangeRate       = sdkerrors.Register(ModuleName, 22, "exchange rate out of bounds")
	ErrInvalidSupplyCap          = sdkerrors.Register(ModuleName, 23, "supply cap cannot be zero")
	ErrNoDeposit                 = sdkerrors.Register(ModuleName, 24, "no deposit for this asset")
	ErrDuplicateOperation        = sdkerrors.Register(ModuleName, 25, "collateral flag already set to the requested value")
)
