package blockchain

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"sync"
	"time"
)

// AddressRegex is the Ethereum-style address shape enforced at every
// boundary: oracle input, audit rows and profile bindings.
var AddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

var ErrInvalidAddress = errors.New("invalid ethereum address")

const (
	// Probability that a first-seen address holds a balance.
	balanceProbability = 0.1
	// Upper bound for randomly assigned balances.
	maxRandomBalance = 10.0
)

// BalanceStore is the oracle's memo table. Once an address has an entry its
// balance is fixed for all later lookups.
type BalanceStore interface {
	Get(address string) (float64, bool)
	Set(address string, balance float64)
}

// MemoryBalanceStore is a mutex-guarded in-process BalanceStore.
type MemoryBalanceStore struct {
	mu       sync.RWMutex
	balances map[string]float64
}

// NewMemoryBalanceStore copies seed so callers cannot mutate the table behind
// the store's back. A nil seed yields an empty table.
func NewMemoryBalanceStore(seed map[string]float64) *MemoryBalanceStore {
	balances := make(map[string]float64, len(seed))
	for addr, bal := range seed {
		balances[addr] = bal
	}
	return &MemoryBalanceStore{balances: balances}
}

func (s *MemoryBalanceStore) Get(address string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bal, ok := s.balances[address]
	return bal, ok
}

func (s *MemoryBalanceStore) Set(address string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[address] = balance
}

// KnownBalances returns the demo seed table. Stands in for actual chain state.
func KnownBalances() map[string]float64 {
	return map[string]float64{
		"0x742d35Cc6634C0532925a3b844Bc9e7595f8e8E0": 2.5,
		"0x1234567890123456789012345678901234567890": 1.8,
		"0x0987654321098765432109876543210987654321": 0.0,
		"0x2468135792468135792468135792468135792468": 5.2,
		"0x1357924681357924681357924681357924681357": 3.1,
	}
}

// Oracle maps an address to a balance, standing in for a real blockchain
// query. Lookups block for a simulated network delay.
type Oracle struct {
	store  BalanceStore
	delay  time.Duration
	mu     sync.Mutex
	randFn func() float64
}

func NewOracle(store BalanceStore, delay time.Duration) *Oracle {
	return &Oracle{store: store, delay: delay, randFn: rand.Float64}
}

// NewOracleWithRand injects the random source, for deterministic tests of the
// first-seen rule.
func NewOracleWithRand(store BalanceStore, delay time.Duration, randFn func() float64) *Oracle {
	return &Oracle{store: store, delay: delay, randFn: randFn}
}

// LookupBalance resolves the balance for address. First-seen addresses are
// assigned a balance (zero with probability 0.9, random positive otherwise)
// and memoized, so repeated lookups always agree.
func (o *Oracle) LookupBalance(ctx context.Context, address string) (float64, error) {
	if !AddressRegex.MatchString(address) {
		return 0, ErrInvalidAddress
	}

	// Simulated network delay.
	if o.delay > 0 {
		timer := time.NewTimer(o.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	if bal, ok := o.store.Get(address); ok {
		return bal, nil
	}

	// The roll and the Set must be one atomic step: two concurrent first
	// lookups of the same address must agree on its verdict.
	o.mu.Lock()
	defer o.mu.Unlock()
	if bal, ok := o.store.Get(address); ok {
		return bal, nil
	}

	roll := o.randFn()
	value := o.randFn()

	bal := 0.0
	if roll < balanceProbability {
		bal = value * maxRandomBalance
	}
	o.store.Set(address, bal)
	return bal, nil
}
