package adapters

import (
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MemoryAssets is an in-memory Assets ledger used by tests and by the
// cmd/defid demo CLI; it is the adapter-shaped analogue of the teacher's
// injected bankKeeper.
type MemoryAssets struct {
	mu               sync.Mutex
	balances         map[AssetID]map[AccountID]sdk.Int
	issuance         map[AssetID]sdk.Int
	existentialDeposit sdk.Int
}

// NewMemoryAssets builds an empty ledger. existentialDeposit may be
// sdk.ZeroInt() to disable the keep-alive check entirely.
func NewMemoryAssets(existentialDeposit sdk.Int) *MemoryAssets {
	return &MemoryAssets{
		balances:           make(map[AssetID]map[AccountID]sdk.Int),
		issuance:           make(map[AssetID]sdk.Int),
		existentialDeposit: existentialDeposit,
	}
}

func (m *MemoryAssets) ensure(asset AssetID) map[AccountID]sdk.Int {
	byAcct, ok := m.balances[asset]
	if !ok {
		byAcct = make(map[AccountID]sdk.Int)
		m.balances[asset] = byAcct
	}
	return byAcct
}

func (m *MemoryAssets) BalanceOf(asset AssetID, account AccountID) sdk.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAcct := m.ensure(asset)
	bal, ok := byAcct[account]
	if !ok {
		return sdk.ZeroInt()
	}
	return bal
}

func (m *MemoryAssets) TotalIssuance(asset AssetID) sdk.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	iss, ok := m.issuance[asset]
	if !ok {
		return sdk.ZeroInt()
	}
	return iss
}

func (m *MemoryAssets) Transfer(asset AssetID, from, to AccountID, amount sdk.Int, keepAlive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAcct := m.ensure(asset)
	fromBal, ok := byAcct[from]
	if !ok {
		fromBal = sdk.ZeroInt()
	}
	remaining := fromBal.Sub(amount)
	if remaining.IsNegative() {
		return ErrAccountBelowExistentialDeposit
	}
	if keepAlive && remaining.LT(m.existentialDeposit) {
		return ErrAccountBelowExistentialDeposit
	}
	toBal, ok := byAcct[to]
	if !ok {
		toBal = sdk.ZeroInt()
	}
	byAcct[from] = remaining
	byAcct[to] = toBal.Add(amount)
	return nil
}

func (m *MemoryAssets) Deposit(asset AssetID, to AccountID, amount sdk.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAcct := m.ensure(asset)
	bal, ok := byAcct[to]
	if !ok {
		bal = sdk.ZeroInt()
	}
	byAcct[to] = bal.Add(amount)
	iss, ok := m.issuance[asset]
	if !ok {
		iss = sdk.ZeroInt()
	}
	m.issuance[asset] = iss.Add(amount)
	return nil
}

func (m *MemoryAssets) Withdraw(asset AssetID, from AccountID, amount sdk.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAcct := m.ensure(asset)
	bal, ok := byAcct[from]
	if !ok {
		bal = sdk.ZeroInt()
	}
	if bal.LT(amount) {
		return ErrAccountBelowExistentialDeposit
	}
	byAcct[from] = bal.Sub(amount)
	iss, ok := m.issuance[asset]
	if !ok {
		iss = sdk.ZeroInt()
	}
	m.issuance[asset] = iss.Sub(amount)
	return nil
}

// MemoryOracle is a mutable in-memory price table for tests.
type MemoryOracle struct {
	mu     sync.Mutex
	prices map[AssetID]PricePoint
}

func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{prices: make(map[AssetID]PricePoint)}
}

func (o *MemoryOracle) SetPrice(asset AssetID, price sdk.Int, timestamp int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[asset] = PricePoint{Price: price, Timestamp: timestamp}
}

func (o *MemoryOracle) Price(asset AssetID) (PricePoint, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.prices[asset]
	if !ok {
		return PricePoint{}, ErrPriceOracleNotReady
	}
	if p.Price.IsZero() {
		return PricePoint{}, ErrPriceIsZero
	}
	return p, nil
}

// MemoryAssetRegistry is an in-memory vtoken<->token mapping.
type MemoryAssetRegistry struct {
	mu          sync.Mutex
	vtokenOf    map[AssetID]AssetID
	tokenOf     map[AssetID]AssetID
	nextCounter int
}

func NewMemoryAssetRegistry() *MemoryAssetRegistry {
	return &MemoryAssetRegistry{
		vtokenOf: make(map[AssetID]AssetID),
		tokenOf:  make(map[AssetID]AssetID),
	}
}

func (r *MemoryAssetRegistry) VTokenOf(token AssetID) (AssetID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vtokenOf[token]
	return v, ok
}

func (r *MemoryAssetRegistry) TokenOf(vtoken AssetID) (AssetID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokenOf[vtoken]
	return t, ok
}

func (r *MemoryAssetRegistry) RegisterVToken(token AssetID) (AssetID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vtokenOf[token]; ok {
		return v, nil
	}
	r.nextCounter++
	vtoken := AssetID("v" + token)
	r.vtokenOf[token] = vtoken
	r.tokenOf[vtoken] = token
	return vtoken, nil
}

// ManualClock is a settable TimeSource/BlockSource pair for deterministic
// tests; Advance enforces the monotonicity spec §6 requires of each.
type ManualClock struct {
	mu     sync.Mutex
	unix   int64
	height int64
}

func NewManualClock(unix, height int64) *ManualClock {
	return &ManualClock{unix: unix, height: height}
}

func (c *ManualClock) UnixTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unix
}

func (c *ManualClock) BlockHeight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// AdvanceTime moves the clock forward by deltaSeconds (must be >= 0).
func (c *ManualClock) AdvanceTime(deltaSeconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if deltaSeconds < 0 {
		return
	}
	c.unix += deltaSeconds
}

// AdvanceBlocks moves the block height forward by n (must be > 0).
func (c *ManualClock) AdvanceBlocks(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		return
	}
	c.height += n
}
