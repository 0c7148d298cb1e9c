// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lottery implements the biggest-buy competition: the largest
// qualifying auction deposit of each day wins a share of the jackpot at
// settlement.
package lottery

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	"github.com/luxfi/auctionvm/fees"
)

var (
	ErrAlreadyStarted  = errors.New("lottery already started")
	ErrExclusionFrozen = errors.New("exclusions are frozen once the lottery starts")
)

// Outcome is the result of settling one lottery day.
type Outcome struct {
	HasWinner     bool
	Winner        ids.ShortID
	WinnerAmount  *big.Int
	DevAmount     *big.Int
	RewardsAmount *big.Int
}

// Lottery tracks the day's biggest qualifying deposit and the all-time
// record it must beat.
type Lottery struct {
	mu       sync.RWMutex
	started  bool
	excluded set.Set[ids.ShortID]

	// topBuy is the standing record. It decays on winnerless days so
	// the competition never stalls behind an old high-water mark.
	topBuy       *big.Int
	todayAmount  *big.Int
	todayAccount ids.ShortID

	winnerPercent  uint64
	devPercent     uint64
	rewardsPercent uint64
	decayPermille  uint64
}

func New(winnerPercent, devPercent, rewardsPercent, decayPermille uint64) *Lottery {
	return &Lottery{
		excluded:       set.NewSet[ids.ShortID](4),
		topBuy:         new(big.Int),
		todayAmount:    new(big.Int),
		winnerPercent:  winnerPercent,
		devPercent:     devPercent,
		rewardsPercent: rewardsPercent,
		decayPermille:  decayPermille,
	}
}

// Start opens the competition. Deposits recorded before Start never
// qualify.
func (l *Lottery) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true
	return nil
}

// Started reports whether the competition is running.
func (l *Lottery) Started() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.started
}

// SetExcluded bars [addr] from winning, or lifts an earlier bar. Team
// and pot accounts are excluded before launch; the set is frozen once
// the lottery starts.
func (l *Lottery) SetExcluded(addr ids.ShortID, excluded bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return ErrExclusionFrozen
	}
	if excluded {
		l.excluded.Add(addr)
	} else {
		l.excluded.Remove(addr)
	}
	return nil
}

// RecordDeposit considers [amount] for today's biggest buy. To qualify
// it must beat both today's leader and the decaying all-time record.
// It reports whether the deposit took the lead.
func (l *Lottery) RecordDeposit(addr ids.ShortID, amount *big.Int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started || l.excluded.Contains(addr) {
		return false
	}
	if amount.Cmp(l.todayAmount) <= 0 || amount.Cmp(l.topBuy) <= 0 {
		return false
	}
	l.todayAmount.Set(amount)
	l.todayAccount = addr
	return true
}

// Settle closes the lottery day against [jackpot], the pot balance. A
// winning day pays winner, dev and rewards their percentages of the
// jackpot and raises the record to the winning deposit; the rest of the
// pot rolls over. A winnerless day decays the record.
func (l *Lottery) Settle(jackpot *big.Int) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return Outcome{}
	}

	if l.todayAmount.Sign() == 0 {
		l.topBuy.Sub(l.topBuy, fees.Permille(l.topBuy, l.decayPermille))
		return Outcome{}
	}

	out := Outcome{
		HasWinner:     true,
		Winner:        l.todayAccount,
		WinnerAmount:  fees.Percent(jackpot, l.winnerPercent),
		DevAmount:     fees.Percent(jackpot, l.devPercent),
		RewardsAmount: fees.Percent(jackpot, l.rewardsPercent),
	}
	l.topBuy.Set(l.todayAmount)
	l.todayAmount.SetInt64(0)
	l.todayAccount = ids.ShortEmpty
	return out
}

// TopBuy returns a copy of the standing record.
func (l *Lottery) TopBuy() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return new(big.Int).Set(l.topBuy)
}

// TodayLeader returns today's leading account and deposit.
func (l *Lottery) TodayLeader() (ids.ShortID, *big.Int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.todayAccount, new(big.Int).Set(l.todayAmount)
}

// SetSplit updates the jackpot distribution percentages. The caller is
// responsible for bounds checking.
func (l *Lottery) SetSplit(winner, dev, rewards uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.winnerPercent = winner
	l.devPercent = dev
	l.rewardsPercent = rewards
}

// SetDecay updates the winnerless-day record decay rate. The caller is
// responsible for bounds checking.
func (l *Lottery) SetDecay(permille uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.decayPermille = permille
}

// Snapshot is a copy of the lottery's mutable state.
type Snapshot struct {
	Started        bool          `json:"started"`
	Excluded       []ids.ShortID `json:"excluded"`
	TopBuy         *big.Int      `json:"topBuy"`
	TodayAmount    *big.Int      `json:"todayAmount"`
	TodayAccount   ids.ShortID   `json:"todayAccount"`
	WinnerPercent  uint64        `json:"winnerPercent"`
	DevPercent     uint64        `json:"devPercent"`
	RewardsPercent uint64        `json:"rewardsPercent"`
	DecayPermille  uint64        `json:"decayPermille"`
}

// TakeSnapshot returns a copy of the lottery state.
func (l *Lottery) TakeSnapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Snapshot{
		Started:        l.started,
		Excluded:       l.excluded.List(),
		TopBuy:         new(big.Int).Set(l.topBuy),
		TodayAmount:    new(big.Int).Set(l.todayAmount),
		TodayAccount:   l.todayAccount,
		WinnerPercent:  l.winnerPercent,
		DevPercent:     l.devPercent,
		RewardsPercent: l.rewardsPercent,
		DecayPermille:  l.decayPermille,
	}
}

// Restore replaces the lottery state with a snapshot.
func (l *Lottery) Restore(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.started = snap.Started
	l.excluded = set.NewSet[ids.ShortID](len(snap.Excluded))
	l.excluded.Add(snap.Excluded...)
	l.topBuy = new(big.Int).Set(snap.TopBuy)
	l.todayAmount = new(big.Int).Set(snap.TodayAmount)
	l.todayAccount = snap.TodayAccount
	l.winnerPercent = snap.WinnerPercent
	l.devPercent = snap.DevPercent
	l.rewardsPercent = snap.RewardsPercent
	l.decayPermille = snap.DecayPermille
}
