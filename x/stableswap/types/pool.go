package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bifrost-finance/defi-engine/adapters"
)

// MaxPoolAssets bounds a StableSwapPool to the Curve-style 2-5 asset range
// (spec §3.3).
const MaxPoolAssets = 5

// APrecision is the fixed-point denominator backing the amplification
// coefficient A (the pallet's configurable APrecision, fixed here at the
// value the Bifrost runtime wires it to).
var APrecision = sdk.NewInt(100)

// FeePrecision is the denominator backing mint_fee/swap_fee/redeem_fee
// (spec §3.3: "fee_precision = 10^10").
var FeePrecision = sdk.NewIntWithDecimal(1, 10)

// NumberOfIterationsToConverge bounds the D/y Newton solvers (spec §4.3).
const NumberOfIterationsToConverge = 255

// PoolAsset is one leg of a StableSwapPool: the raw underlying asset, its
// normalizing precision multiplier, and an optional rebasing token-rate
// (spec §3.3, token_rate[i]).
type PoolAsset struct {
	Asset               adapters.AssetID
	Precision           sdk.Int // raw units * Precision = normalized 18-decimal units
	TokenRateNumerator   sdk.Int // optional; both zero means "no rebasing"
	TokenRateDenominator sdk.Int
}

// Rebase applies the optional token-rate on top of Precision, matching
// spec §3.3's "raw · precision · optional token-rate".
func (a PoolAsset) Rebase(raw sdk.Int) sdk.Int {
	normalized := raw.Mul(a.Precision)
	if a.TokenRateDenominator.IsNil() || a.TokenRateDenominator.IsZero() {
		return normalized
	}
	return normalized.Mul(a.TokenRateNumerator).Quo(a.TokenRateDenominator)
}

// Pool is the StableSwapPool aggregate (spec §3.3). Unlike WeightedPool's
// plain-map LP shares, lp_asset is a real asset id routed through the
// Assets adapter (ported from the pallet's pool_asset, which the runtime
// mints/burns via T::Assets::deposit/withdraw).
type Pool struct {
	ID             uint32
	Owner          adapters.AccountID
	LPAsset        adapters.AssetID
	Assets         []PoolAsset // ordered, length in [2, MaxPoolAssets]
	Balances       []sdk.Int   // normalized, parallel to Assets
	A              sdk.Int
	ABlock         int64
	FutureA        sdk.Int
	FutureABlock   int64
	MintFee        sdk.Int // numerator over FeePrecision
	SwapFee        sdk.Int
	RedeemFee      sdk.Int
	TotalSupply    sdk.Int
	FeeRecipient   adapters.AccountID
	YieldRecipient adapters.AccountID
}

// Address is the pool's underlying-asset custody account.
func (p *Pool) Address() adapters.AccountID {
	return PoolAddress(p.ID)
}

// PoolAddress derives a StableSwapPool's custody account id from its id.
func PoolAddress(poolID uint32) adapters.AccountID {
	return adapters.AccountID("stableswap/" + sdk.NewIntFromUint64(uint64(poolID)).String())
}

// AssetIndex returns the position of asset within the pool, or
// ErrInvalidPoolAsset.
func (p *Pool) AssetIndex(asset adapters.AssetID) (int, error) {
	for i, a := range p.Assets {
		if a.Asset == asset {
			return i, nil
		}
	}
	return 0, ErrInvalidPoolAsset
}

// EffectiveA linearly interpolates the amplification coefficient across
// the ramp window [a_block, future_a_block] (spec §4.3, "Effective A").
func (p *Pool) EffectiveA(currentBlock int64) sdk.Int {
	if currentBlock >= p.FutureABlock {
		return p.FutureA
	}
	elapsed := sdk.NewInt(currentBlock - p.ABlock)
	window := sdk.NewInt(p.FutureABlock - p.ABlock)
	if p.FutureA.GT(p.A) {
		diff := p.FutureA.Sub(p.A)
		return p.A.Add(diff.Mul(elapsed).Quo(window))
	}
	diff := p.A.Sub(p.FutureA)
	return p.A.Sub(diff.Mul(elapsed).Quo(window))
}
