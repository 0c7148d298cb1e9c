// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"math/big"
	"sync"

	"github.com/luxfi/ids"
)

// Bank tracks native value balances. Auction deposits, stake sales,
// loans and lottery jackpots all settle through it. Value enters via
// Credit and only moves between accounts afterwards.
type Bank struct {
	mu       sync.RWMutex
	balances map[ids.ShortID]*big.Int
}

func NewBank() *Bank {
	return &Bank{
		balances: make(map[ids.ShortID]*big.Int),
	}
}

// Credit deposits [amount] of external value into [to].
func (b *Bank) Credit(to ids.ShortID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.credit(to, amount)
	return nil
}

// Transfer moves [amount] of value from [from] to [to].
func (b *Bank) Transfer(from, to ids.ShortID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok := b.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)
	b.credit(to, amount)
	return nil
}

func (b *Bank) credit(to ids.ShortID, amount *big.Int) {
	balance, ok := b.balances[to]
	if !ok {
		balance = new(big.Int)
		b.balances[to] = balance
	}
	balance.Add(balance, amount)
}

// BalanceOf returns a copy of the value balance of [addr].
func (b *Bank) BalanceOf(addr ids.ShortID) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if balance, ok := b.balances[addr]; ok {
		return new(big.Int).Set(balance)
	}
	return new(big.Int)
}

// Balances returns a copy of every non-zero balance.
func (b *Bank) Balances() map[ids.ShortID]*big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[ids.ShortID]*big.Int, len(b.balances))
	for addr, balance := range b.balances {
		if balance.Sign() > 0 {
			out[addr] = new(big.Int).Set(balance)
		}
	}
	return out
}

// Restore replaces the bank contents with a snapshot.
func (b *Bank) Restore(balances map[ids.ShortID]*big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances = make(map[ids.ShortID]*big.Int, len(balances))
	for addr, balance := range balances {
		b.balances[addr] = new(big.Int).Set(balance)
	}
}
