// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger implements the token ledger and the native value bank
// of the auction economy.
package ledger

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/ids"
)

const (
	TokenName         = "Auric"
	TokenSymbol       = "AUC"
	TokenDenomination = 18
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrZeroAmount          = errors.New("amount must be positive")
)

// TokenLedger tracks token balances and total supply. Tokens are minted
// by daily auction settlement and by claim bonuses, and burn never
// occurs, so supply is monotonically non-decreasing.
type TokenLedger struct {
	mu       sync.RWMutex
	balances map[ids.ShortID]*big.Int
	supply   *big.Int
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances: make(map[ids.ShortID]*big.Int),
		supply:   new(big.Int),
	}
}

// Mint creates [amount] new tokens and credits them to [to].
func (l *TokenLedger) Mint(to ids.ShortID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.credit(to, amount)
	l.supply.Add(l.supply, amount)
	return nil
}

// Transfer moves [amount] tokens from [from] to [to].
func (l *TokenLedger) Transfer(from, to ids.ShortID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)
	l.credit(to, amount)
	return nil
}

func (l *TokenLedger) credit(to ids.ShortID, amount *big.Int) {
	balance, ok := l.balances[to]
	if !ok {
		balance = new(big.Int)
		l.balances[to] = balance
	}
	balance.Add(balance, amount)
}

// BalanceOf returns a copy of the token balance of [addr].
func (l *TokenLedger) BalanceOf(addr ids.ShortID) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if balance, ok := l.balances[addr]; ok {
		return new(big.Int).Set(balance)
	}
	return new(big.Int)
}

// TotalSupply returns a copy of the total token supply.
func (l *TokenLedger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return new(big.Int).Set(l.supply)
}

// Balances returns a copy of every non-zero balance.
func (l *TokenLedger) Balances() map[ids.ShortID]*big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[ids.ShortID]*big.Int, len(l.balances))
	for addr, balance := range l.balances {
		if balance.Sign() > 0 {
			out[addr] = new(big.Int).Set(balance)
		}
	}
	return out
}

// Restore replaces the ledger contents with a snapshot.
func (l *TokenLedger) Restore(balances map[ids.ShortID]*big.Int, supply *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[ids.ShortID]*big.Int, len(balances))
	for addr, balance := range balances {
		l.balances[addr] = new(big.Int).Set(balance)
	}
	l.supply = new(big.Int).Set(supply)
}
