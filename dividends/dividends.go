// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dividends accumulates per-day dividend pools. Settlement
// revenue is smoothed forward over a window of future days; market and
// loan fees land on a single day.
package dividends

import (
	"math/big"
	"sync"
)

// Distributor holds the per-day dividend pools. Pools are sparse: days
// with no revenue have no entry.
type Distributor struct {
	mu            sync.RWMutex
	pools         map[uint64]*big.Int
	total         *big.Int
	maxRewardDays uint64
}

func New(maxRewardDays uint64) *Distributor {
	return &Distributor{
		pools:         make(map[uint64]*big.Int),
		total:         new(big.Int),
		maxRewardDays: maxRewardDays,
	}
}

// Smooth spreads [amount] of settlement revenue from day [fromDay]
// across the next k days, where k = min(fromDay, maxRewardDays). Each
// of days fromDay+1 .. fromDay+k receives floor(amount/k); the division
// remainder is dropped. Day 0 revenue is never smoothed.
func (d *Distributor) Smooth(amount *big.Int, fromDay uint64) {
	if amount.Sign() <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	k := fromDay
	if k > d.maxRewardDays {
		k = d.maxRewardDays
	}
	if k == 0 {
		return
	}

	per := new(big.Int).Div(amount, new(big.Int).SetUint64(k))
	if per.Sign() == 0 {
		return
	}
	for day := fromDay + 1; day <= fromDay+k; day++ {
		d.credit(day, per)
	}
}

// CreditDay adds [amount] straight to the pool of [day]. Stake sale and
// loan fees use this path.
func (d *Distributor) CreditDay(day uint64, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.credit(day, amount)
}

func (d *Distributor) credit(day uint64, amount *big.Int) {
	pool, ok := d.pools[day]
	if !ok {
		pool = new(big.Int)
		d.pools[day] = pool
	}
	pool.Add(pool, amount)
	d.total.Add(d.total, amount)
}

// PoolFor returns a copy of the dividend pool of [day].
func (d *Distributor) PoolFor(day uint64) *big.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if pool, ok := d.pools[day]; ok {
		return new(big.Int).Set(pool)
	}
	return new(big.Int)
}

// Total returns a copy of all dividends ever pooled.
func (d *Distributor) Total() *big.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return new(big.Int).Set(d.total)
}

// MaxRewardDays returns the current smoothing window cap.
func (d *Distributor) MaxRewardDays() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.maxRewardDays
}

// SetMaxRewardDays updates the smoothing window cap. The caller is
// responsible for bounds checking.
func (d *Distributor) SetMaxRewardDays(days uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.maxRewardDays = days
}

// Pools returns a copy of every non-empty pool.
func (d *Distributor) Pools() map[uint64]*big.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[uint64]*big.Int, len(d.pools))
	for day, pool := range d.pools {
		out[day] = new(big.Int).Set(pool)
	}
	return out
}

// Restore replaces the distributor contents with a snapshot.
func (d *Distributor) Restore(pools map[uint64]*big.Int, total *big.Int, maxRewardDays uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pools = make(map[uint64]*big.Int, len(pools))
	for day, pool := range pools {
		d.pools[day] = new(big.Int).Set(pool)
	}
	d.total = new(big.Int).Set(total)
	d.maxRewardDays = maxRewardDays
}
