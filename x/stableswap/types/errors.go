package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

// ModuleName is the stableswap codespace.
const ModuleName = "stableswap"

var (
	ErrPoolNotExist       = sdkerrors.Register(ModuleName, 2, "pool does not exist")
	ErrArgumentsMismatch  = sdkerrors.Register(ModuleName, 3, "arguments length does not match pool asset count")
	ErrArgumentsError     = sdkerrors.Register(ModuleName, 4, "invalid arguments")
	ErrMath               = sdkerrors.Register(ModuleName, 5, "invariant math failed to converge or overflowed")
	ErrMintUnderMin       = sdkerrors.Register(ModuleName, 6, "mint amount below minimum")
	ErrSwapUnderMin       = sdkerrors.Register(ModuleName, 7, "swap output below minimum")
	ErrRedeemUnderMin     = sdkerrors.Register(ModuleName, 8, "redeem output below minimum")
	ErrRedeemOverMax      = sdkerrors.Register(ModuleName, 9, "redeem amount would burn more than max")
	ErrInvalidPoolValue   = sdkerrors.Register(ModuleName, 10, "invariant D decreased across yield collection")
	ErrInvalidPoolAsset   = sdkerrors.Register(ModuleName, 11, "asset not part of this pool")
	ErrTooManyAssets      = sdkerrors.Register(ModuleName, 12, "pool supports between 2 and MaxPoolAssets assets")
	ErrNotPoolOwner       = sdkerrors.Register(ModuleName, 13, "caller is not the pool owner")
	ErrInvalidFeeValue    = sdkerrors.Register(ModuleName, 14, "fee must be below FeePrecision")
)
