package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

// ModuleName is the farming codespace.
const ModuleName = "farming"

var (
	ErrNothingToClaim        = sdkerrors.Register(ModuleName, 2, "no bonus accrued to claim")
	ErrInvalidBonusPoolTotal = sdkerrors.Register(ModuleName, 3, "bonus pool total must be non-negative")
)
