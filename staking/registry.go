// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package staking implements token stakes, their dividend accounting,
// the stake secondary market, and dividend-collateralized loans.
package staking

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/ids"
)

var (
	ErrUnauthorized       = errors.New("caller does not own the stake")
	ErrStakeNotFound      = errors.New("stake not found")
	ErrStakeNotEnded      = errors.New("stake has not ended")
	ErrStakeEnded         = errors.New("stake has ended")
	ErrAlreadyCollected   = errors.New("stake already collected")
	ErrUnpaidLoan         = errors.New("stake has an outstanding loan")
	ErrDurationOutOfRange = errors.New("stake duration out of range")
	ErrZeroTokens         = errors.New("stake must hold tokens")
)

// DividendPool supplies per-day dividend revenue to share accounting.
type DividendPool interface {
	PoolFor(day uint64) *big.Int
}

// Stake is a locked token position earning a share of each day's
// dividend pool while active.
type Stake struct {
	ID       uint64      `json:"id"`
	Owner    ids.ShortID `json:"owner"`
	Tokens   *big.Int    `json:"tokens"`
	StartDay uint64      `json:"startDay"`
	EndDay   uint64      `json:"endDay"`

	// SalePrice is non-nil while the stake is listed on the market.
	SalePrice *big.Int `json:"salePrice,omitempty"`

	// LoanRepayments is the dividend value already spent repaying
	// loans against this stake.
	LoanRepayments *big.Int `json:"loanRepayments"`

	Collected bool `json:"collected"`
}

func (s *Stake) ended(currentDay uint64) bool {
	return currentDay >= s.EndDay
}

// Registry holds all stakes, their loans, and the per-day total of
// tokens locked in active stakes.
type Registry struct {
	mu           sync.RWMutex
	pools        DividendPool
	stakes       map[uint64]*Stake
	loans        map[uint64]*Loan
	activeTokens map[uint64]*big.Int
	nextID       uint64
	maxStakeDays uint64
	devFees      *big.Int
}

func NewRegistry(pools DividendPool, maxStakeDays uint64) *Registry {
	return &Registry{
		pools:        pools,
		stakes:       make(map[uint64]*Stake),
		loans:        make(map[uint64]*Loan),
		activeTokens: make(map[uint64]*big.Int),
		nextID:       1,
		maxStakeDays: maxStakeDays,
		devFees:      new(big.Int),
	}
}

// Open creates a stake of [tokens] for [days] days, where
// 1 < days <= the duration cap. The stake is active from the next day:
// it earns on days [currentDay+1, currentDay+days].
func (r *Registry) Open(owner ids.ShortID, tokens *big.Int, days, currentDay uint64) (*Stake, error) {
	if tokens.Sign() <= 0 {
		return nil, ErrZeroTokens
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if days <= 1 || days > r.maxStakeDays {
		return nil, ErrDurationOutOfRange
	}

	stake := &Stake{
		ID:             r.nextID,
		Owner:          owner,
		Tokens:         new(big.Int).Set(tokens),
		StartDay:       currentDay + 1,
		EndDay:         currentDay + 1 + days,
		LoanRepayments: new(big.Int),
	}
	r.nextID++
	r.stakes[stake.ID] = stake

	for day := stake.StartDay; day < stake.EndDay; day++ {
		r.addActiveTokens(day, tokens)
	}
	return r.copyStake(stake), nil
}

func (r *Registry) addActiveTokens(day uint64, tokens *big.Int) {
	total, ok := r.activeTokens[day]
	if !ok {
		total = new(big.Int)
		r.activeTokens[day] = total
	}
	total.Add(total, tokens)
}

// shareForDay is the stake's cut of one day's dividend pool:
// pool(day) * tokens / tokensInActiveStake(day), rounded down.
func (r *Registry) shareForDay(stake *Stake, day uint64) *big.Int {
	active, ok := r.activeTokens[day]
	if !ok || active.Sign() == 0 {
		return new(big.Int)
	}
	share := new(big.Int).Mul(r.pools.PoolFor(day), stake.Tokens)
	return share.Div(share, active)
}

// claimable sums the stake's dividend shares over the days it was both
// active and already elapsed, net of loan repayments.
func (r *Registry) claimable(stake *Stake, throughDay uint64) *big.Int {
	last := stake.EndDay - 1
	if throughDay < last {
		last = throughDay
	}
	total := new(big.Int)
	for day := stake.StartDay; day <= last; day++ {
		total.Add(total, r.shareForDay(stake, day))
	}
	total.Sub(total, stake.LoanRepayments)
	if total.Sign() < 0 {
		total.SetInt64(0)
	}
	return total
}

// Claimable returns the dividends the stake has earned through
// [currentDay], net of loan repayments. Days from the current day
// onward are not yet earned.
func (r *Registry) Claimable(stakeID, currentDay uint64) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return nil, ErrStakeNotFound
	}
	if currentDay == 0 {
		return new(big.Int), nil
	}
	return r.claimable(stake, currentDay-1), nil
}

// Collect closes an ended stake: the full dividend payout and the
// staked tokens are released back to the owner. A stake with any loan
// entry, filled or pending, must clear it first.
func (r *Registry) Collect(stakeID uint64, caller ids.ShortID, currentDay uint64) (payout, tokens *big.Int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return nil, nil, ErrStakeNotFound
	}
	if stake.Owner != caller {
		return nil, nil, ErrUnauthorized
	}
	if !stake.ended(currentDay) {
		return nil, nil, ErrStakeNotEnded
	}
	if stake.Collected {
		return nil, nil, ErrAlreadyCollected
	}
	if _, hasLoan := r.loans[stakeID]; hasLoan {
		return nil, nil, ErrUnpaidLoan
	}

	stake.Collected = true
	stake.SalePrice = nil
	payout = r.claimable(stake, stake.EndDay-1)
	return payout, new(big.Int).Set(stake.Tokens), nil
}

// AddDevFees accrues market and loan fees owed to the dev account.
// They are flushed at the next daily settlement.
func (r *Registry) AddDevFees(amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.devFees.Add(r.devFees, amount)
}

// TakeDevFees drains the accrued dev fees.
func (r *Registry) TakeDevFees() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.devFees
	r.devFees = new(big.Int)
	return out
}

// TokensInActiveStake returns a copy of the tokens staked on [day].
func (r *Registry) TokensInActiveStake(day uint64) *big.Int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if total, ok := r.activeTokens[day]; ok {
		return new(big.Int).Set(total)
	}
	return new(big.Int)
}

// GetStake returns a copy of the stake, if it exists.
func (r *Registry) GetStake(stakeID uint64) (*Stake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return nil, ErrStakeNotFound
	}
	return r.copyStake(stake), nil
}

func (r *Registry) copyStake(stake *Stake) *Stake {
	out := *stake
	out.Tokens = new(big.Int).Set(stake.Tokens)
	out.LoanRepayments = new(big.Int).Set(stake.LoanRepayments)
	if stake.SalePrice != nil {
		out.SalePrice = new(big.Int).Set(stake.SalePrice)
	}
	return &out
}

// StakesOf returns copies of every stake owned by [owner].
func (r *Registry) StakesOf(owner ids.ShortID) []*Stake {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Stake
	for _, stake := range r.stakes {
		if stake.Owner == owner {
			out = append(out, r.copyStake(stake))
		}
	}
	return out
}

// MaxStakeDays returns the current duration cap.
func (r *Registry) MaxStakeDays() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.maxStakeDays
}

// SetMaxStakeDays updates the duration cap. The caller is responsible
// for bounds checking.
func (r *Registry) SetMaxStakeDays(days uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maxStakeDays = days
}

// Snapshot is a deep copy of the registry's full state.
type Snapshot struct {
	Stakes       map[uint64]*Stake   `json:"stakes"`
	Loans        map[uint64]*Loan    `json:"loans"`
	ActiveTokens map[uint64]*big.Int `json:"activeTokens"`
	NextID       uint64              `json:"nextId"`
	MaxStakeDays uint64              `json:"maxStakeDays"`
	DevFees      *big.Int            `json:"devFees"`
}

// TakeSnapshot returns a deep copy of the registry state.
func (r *Registry) TakeSnapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &Snapshot{
		Stakes:       make(map[uint64]*Stake, len(r.stakes)),
		Loans:        make(map[uint64]*Loan, len(r.loans)),
		ActiveTokens: make(map[uint64]*big.Int, len(r.activeTokens)),
		NextID:       r.nextID,
		MaxStakeDays: r.maxStakeDays,
		DevFees:      new(big.Int).Set(r.devFees),
	}
	for id, stake := range r.stakes {
		snap.Stakes[id] = r.copyStake(stake)
	}
	for id, loan := range r.loans {
		snap.Loans[id] = r.copyLoan(loan)
	}
	for day, total := range r.activeTokens {
		snap.ActiveTokens[day] = new(big.Int).Set(total)
	}
	return snap
}

// Restore replaces the registry contents with a snapshot.
func (r *Registry) Restore(snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stakes = snap.Stakes
	r.loans = snap.Loans
	r.activeTokens = snap.ActiveTokens
	r.nextID = snap.NextID
	r.maxStakeDays = snap.MaxStakeDays
	r.devFees = new(big.Int).Set(snap.DevFees)
}
