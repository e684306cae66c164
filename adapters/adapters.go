// Package adapters declares the five external capabilities the core
// engines consume (spec §6): a multi-currency ledger (Assets), a price
// oracle, the vtoken/token asset registry, and the two temporal sources
// (TimeSource, BlockSource). The core never reaches past these
// interfaces into runtime, governance, or cross-chain transport — those
// stay out of scope (spec §1) and are modeled here only as the narrow
// capability surface the engines actually call.
package adapters

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetID is an opaque asset identifier (a parachain currency id in the
// original system; here just a comparable token).
type AssetID string

// AccountID is an opaque account identifier.
type AccountID string

// ErrAccountBelowExistentialDeposit is returned by Transfer in keep-alive
// mode when the sender's remaining balance would fall below the
// existential deposit (spec §6, Assets.transfer).
var ErrAccountBelowExistentialDeposit = errors.New("adapters: transfer would drop sender below existential deposit")

// ErrPriceIsZero / ErrPriceOracleNotReady mirror the lending engine's
// named oracle failures (spec §7).
var (
	ErrPriceIsZero        = errors.New("adapters: price is zero")
	ErrPriceOracleNotReady = errors.New("adapters: price oracle not ready")
)

// Assets is the multi-currency ledger capability (spec §6).
type Assets interface {
	BalanceOf(asset AssetID, account AccountID) sdk.Int
	TotalIssuance(asset AssetID) sdk.Int
	// Transfer moves amount of asset from one account to another,
	// atomically. When keepAlive is true, the transfer is rejected (with
	// ErrAccountBelowExistentialDeposit) if it would leave from's balance
	// below the existential deposit.
	Transfer(asset AssetID, from, to AccountID, amount sdk.Int, keepAlive bool) error
	Deposit(asset AssetID, to AccountID, amount sdk.Int) error
	Withdraw(asset AssetID, from AccountID, amount sdk.Int) error
}

// PricePoint is an oracle reading: value = Price * balance / 10^18 at
// Timestamp (spec §6).
type PricePoint struct {
	Price     sdk.Int // 18-decimal fixed point
	Timestamp int64
}

// Oracle resolves a live price for an asset (spec §6). A zero price is a
// hard error the caller must surface as ErrPriceIsZero; an absent
// reading is ErrPriceOracleNotReady.
type Oracle interface {
	Price(asset AssetID) (PricePoint, error)
}

// AssetRegistry resolves the vtoken<->underlying mapping consumed by the
// liquid-staking and cross-chain-staking surfaces (spec §6). The mint/
// redeem policy itself is out of scope; only the id mapping is needed by
// the core engines under study.
type AssetRegistry interface {
	VTokenOf(token AssetID) (AssetID, bool)
	TokenOf(vtoken AssetID) (AssetID, bool)
	RegisterVToken(token AssetID) (AssetID, error)
}

// TimeSource exposes a monotone non-decreasing unix-seconds clock (spec
// §6).
type TimeSource interface {
	UnixTime() int64
}

// BlockSource exposes the current, monotone strictly-increasing block
// height (spec §6).
type BlockSource interface {
	BlockHeight() int64
}
