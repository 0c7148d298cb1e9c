// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auction tracks daily auction entries, the shrinking mint
// schedule, and pro-rata claims against settled days.
package auction

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/fees"
)

var (
	ErrDayNotSettled    = errors.New("auction day has not been settled")
	ErrAlreadySettled   = errors.New("auction day already settled")
	ErrNothingToCollect = errors.New("nothing to collect")
	ErrZeroDeposit      = errors.New("deposit must be positive")
)

// Entry is one auction deposit. An account may enter the same day more
// than once; each deposit is a separate entry.
type Entry struct {
	Account   ids.ShortID `json:"account"`
	Day       uint64      `json:"day"`
	Deposit   *big.Int    `json:"deposit"`
	Referrer  ids.ShortID `json:"referrer"`
	Collected bool        `json:"collected"`
}

// DayState is the per-day auction pool.
type DayState struct {
	Deposited *big.Int `json:"deposited"`
	Minted    *big.Int `json:"minted"`
	Settled   bool     `json:"settled"`
}

// EntryShare is the settled payout of one entry, paired with its
// referrer so the caller can mint bonuses.
type EntryShare struct {
	Referrer ids.ShortID
	Amount   *big.Int
}

// Ledger is the auction state machine.
type Ledger struct {
	mu                sync.RWMutex
	days              map[uint64]*DayState
	entries           map[ids.ShortID][]*Entry
	lastAuctionTokens *big.Int
}

func NewLedger() *Ledger {
	return &Ledger{
		days:              make(map[uint64]*DayState),
		entries:           make(map[ids.ShortID][]*Entry),
		lastAuctionTokens: config.StartingSupply(),
	}
}

// Deposit records an auction entry for [account] on [day].
func (l *Ledger) Deposit(account, referrer ids.ShortID, amount *big.Int, day uint64) error {
	if amount.Sign() <= 0 {
		return ErrZeroDeposit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.day(day)
	state.Deposited.Add(state.Deposited, amount)
	l.entries[account] = append(l.entries[account], &Entry{
		Account:  account,
		Day:      day,
		Deposit:  new(big.Int).Set(amount),
		Referrer: referrer,
	})
	return nil
}

func (l *Ledger) day(day uint64) *DayState {
	state, ok := l.days[day]
	if !ok {
		state = &DayState{
			Deposited: new(big.Int),
			Minted:    new(big.Int),
		}
		l.days[day] = state
	}
	return state
}

// SettleDay closes [day] and returns the tokens minted for it. Funded
// days mint the previous day's mint reduced by the daily rate; days
// with no deposits mint nothing and leave the schedule untouched.
func (l *Ledger) SettleDay(day uint64) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.day(day)
	if state.Settled {
		return nil, ErrAlreadySettled
	}
	state.Settled = true

	if state.Deposited.Sign() == 0 {
		return new(big.Int), nil
	}

	minted := new(big.Int).Sub(
		l.lastAuctionTokens,
		fees.Percent(l.lastAuctionTokens, config.DailyReductionPercent),
	)
	l.lastAuctionTokens.Set(minted)
	state.Minted.Set(minted)
	return new(big.Int).Set(minted), nil
}

// Claim marks every uncollected entry of [account] on [day] as
// collected and returns the total payout plus the per-entry shares.
// The day must be settled first.
func (l *Ledger) Claim(account ids.ShortID, day uint64) (*big.Int, []EntryShare, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.days[day]
	if !ok || !state.Settled {
		return nil, nil, ErrDayNotSettled
	}

	total := new(big.Int)
	var (
		shares  []EntryShare
		claimed []*Entry
	)
	for _, entry := range l.entries[account] {
		if entry.Day != day || entry.Collected {
			continue
		}
		claimed = append(claimed, entry)
		amount := l.entryValue(state, entry)
		if amount.Sign() == 0 {
			continue
		}
		total.Add(total, amount)
		shares = append(shares, EntryShare{
			Referrer: entry.Referrer,
			Amount:   amount,
		})
	}
	if len(shares) == 0 {
		return nil, nil, ErrNothingToCollect
	}

	// Entries are only consumed once the claim is known to pay out.
	for _, entry := range claimed {
		entry.Collected = true
	}
	return total, shares, nil
}

// entryValue is the pro-rata token value of one entry:
// minted * deposit / totalDeposited, rounded down.
func (l *Ledger) entryValue(state *DayState, entry *Entry) *big.Int {
	if state.Deposited.Sign() == 0 {
		return new(big.Int)
	}
	value := new(big.Int).Mul(state.Minted, entry.Deposit)
	return value.Div(value, state.Deposited)
}

// ClaimableValue returns the uncollected token value of [account] on
// [day] without mutating anything. Unsettled days report zero.
func (l *Ledger) ClaimableValue(account ids.ShortID, day uint64) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := new(big.Int)
	state, ok := l.days[day]
	if !ok || !state.Settled {
		return total
	}
	for _, entry := range l.entries[account] {
		if entry.Day != day || entry.Collected {
			continue
		}
		total.Add(total, l.entryValue(state, entry))
	}
	return total
}

// TotalDeposited returns a copy of the deposits pooled on [day].
func (l *Ledger) TotalDeposited(day uint64) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if state, ok := l.days[day]; ok {
		return new(big.Int).Set(state.Deposited)
	}
	return new(big.Int)
}

// TokensMinted returns a copy of the tokens minted for [day].
func (l *Ledger) TokensMinted(day uint64) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if state, ok := l.days[day]; ok {
		return new(big.Int).Set(state.Minted)
	}
	return new(big.Int)
}

// Settled reports whether [day] has been settled.
func (l *Ledger) Settled(day uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state, ok := l.days[day]
	return ok && state.Settled
}

// Entries returns copies of every entry recorded for [account].
func (l *Ledger) Entries(account ids.ShortID) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[account]
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[i] = *entry
		out[i].Deposit = new(big.Int).Set(entry.Deposit)
	}
	return out
}

// LastAuctionTokens returns a copy of the current mint-schedule value.
func (l *Ledger) LastAuctionTokens() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return new(big.Int).Set(l.lastAuctionTokens)
}

// Snapshot returns deep copies of the full auction state.
func (l *Ledger) Snapshot() (map[uint64]*DayState, map[ids.ShortID][]*Entry, *big.Int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	days := make(map[uint64]*DayState, len(l.days))
	for day, state := range l.days {
		days[day] = &DayState{
			Deposited: new(big.Int).Set(state.Deposited),
			Minted:    new(big.Int).Set(state.Minted),
			Settled:   state.Settled,
		}
	}
	entries := make(map[ids.ShortID][]*Entry, len(l.entries))
	for account, list := range l.entries {
		copied := make([]*Entry, len(list))
		for i, entry := range list {
			e := *entry
			e.Deposit = new(big.Int).Set(entry.Deposit)
			copied[i] = &e
		}
		entries[account] = copied
	}
	return days, entries, new(big.Int).Set(l.lastAuctionTokens)
}

// Restore replaces the ledger contents with a snapshot.
func (l *Ledger) Restore(days map[uint64]*DayState, entries map[ids.ShortID][]*Entry, last *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.days = days
	l.entries = entries
	l.lastAuctionTokens = new(big.Int).Set(last)
}
