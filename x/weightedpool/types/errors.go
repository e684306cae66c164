package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

// ModuleName is the weightedpool codespace, following the cosmos-sdk
// "one Register'd error table per module" idiom the teacher's
// x/gamm/types package uses (ErrPoolLocked, ErrInvalidMathApprox, ...).
const ModuleName = "weightedpool"

var (
	ErrPoolNotExist                   = sdkerrors.Register(ModuleName, 2, "pool does not exist")
	ErrPoolNotActive                  = sdkerrors.Register(ModuleName, 3, "pool is not active")
	ErrAmountShouldBiggerThanZero     = sdkerrors.Register(ModuleName, 4, "amount should be bigger than zero")
	ErrExceedMaximumSwapInRatio       = sdkerrors.Register(ModuleName, 5, "swap in amount exceeds maximum swap-in ratio")
	ErrLessThanMinimumAddedShares     = sdkerrors.Register(ModuleName, 6, "less than minimum added pool token shares")
	ErrLessThanExpectedAmount         = sdkerrors.Register(ModuleName, 7, "less than expected amount (slippage)")
	ErrBiggerThanExpectedAmount       = sdkerrors.Register(ModuleName, 8, "bigger than expected amount (slippage)")
	ErrInvalidFactor                  = sdkerrors.Register(ModuleName, 9, "invalid factor")
	ErrTokenNotExist                  = sdkerrors.Register(ModuleName, 10, "token not in pool")
	ErrUserNotInThePool               = sdkerrors.Register(ModuleName, 11, "user holds no shares in this pool")
	ErrTooManyTokens                  = sdkerrors.Register(ModuleName, 12, "pool supports at most MaxSupportedTokens assets")
	ErrDuplicateAsset                 = sdkerrors.Register(ModuleName, 13, "duplicate asset id in pool creation")
	ErrNotPoolOwner                   = sdkerrors.Register(ModuleName, 14, "caller is not the pool owner")
	ErrMathApprox                     = sdkerrors.Register(ModuleName, 15, "invalid math approximation")
)
