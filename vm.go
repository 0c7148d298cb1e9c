// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auctionvm implements a day-epoch economic engine: a daily
// token auction with a shrinking mint schedule, revenue-sharing stakes,
// dividend-collateralized peer loans, a stake secondary market, and a
// biggest-buy lottery. All state transitions settle the elapsed day
// before the requested operation runs.
package auctionvm

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/pubsub"

	"github.com/luxfi/auctionvm/api"
	"github.com/luxfi/auctionvm/auction"
	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/dividends"
	"github.com/luxfi/auctionvm/epoch"
	"github.com/luxfi/auctionvm/fees"
	"github.com/luxfi/auctionvm/ledger"
	"github.com/luxfi/auctionvm/lottery"
	"github.com/luxfi/auctionvm/metrics"
	"github.com/luxfi/auctionvm/staking"
	"github.com/luxfi/auctionvm/state"
)

const Version = "1.0.0"

var (
	ErrNotAdmin = errors.New("caller is not the admin")

	// Pot accounts. Value held by the engine between operations lives
	// in one of these.
	auctionPot = ids.ShortID{'a', 'u', 'c', 't', 'i', 'o', 'n', ' ', 'p', 'o', 't'}
	stakingPot = ids.ShortID{'s', 't', 'a', 'k', 'i', 'n', 'g', ' ', 'p', 'o', 't'}
	lotteryPot = ids.ShortID{'l', 'o', 't', 't', 'e', 'r', 'y', ' ', 'p', 'o', 't'}
)

// VM is the auction economy engine. The host serializes operations;
// the lock only guards API reads against mutating calls.
type VM struct {
	config.Config

	lock  sync.RWMutex
	log   log.Logger
	store *state.Store

	clock     *epoch.Clock
	tokens    *ledger.TokenLedger
	bank      *ledger.Bank
	auction   *auction.Ledger
	dividends *dividends.Distributor
	stakes    *staking.Registry
	lottery   *lottery.Lottery

	pubsub     *pubsub.Server
	registerer metric.Registry
	metrics    metrics.Metrics

	admin      ids.ShortID
	dests      fees.Destinations
	currentDay uint64
}

// New builds a VM from [cfg] with [admin] as the privileged account.
// If [db] holds a snapshot the VM resumes from it and [admin] and
// [dests] are ignored in favor of the persisted values.
func New(cfg config.Config, db database.Database, logger log.Logger, admin ids.ShortID, dests fees.Destinations) (*VM, error) {
	vm := &VM{
		Config:    cfg,
		log:       logger,
		store:     state.New(db),
		clock:     epoch.New(),
		tokens:    ledger.NewTokenLedger(),
		bank:      ledger.NewBank(),
		auction:   auction.NewLedger(),
		dividends: dividends.New(cfg.MaxDividendRewardDays),
		lottery: lottery.New(
			cfg.LotteryWinnerPercent,
			cfg.LotteryDevPercent,
			cfg.LotteryRewardsPercent,
			cfg.LotteryDecayPermille,
		),
		admin: admin,
		dests: normalizeDests(dests, admin),
	}
	vm.stakes = staking.NewRegistry(vm.dividends, cfg.MaxStakeDays)
	vm.pubsub = pubsub.New(logger)

	vm.registerer = metric.NewRegistry()
	m, err := metrics.New(vm.registerer)
	if err != nil {
		return nil, err
	}
	vm.metrics = m

	snap, err := vm.store.Get()
	switch {
	case err == nil:
		if err := vm.restore(snap); err != nil {
			return nil, err
		}
		vm.log.Info("resumed from snapshot",
			"currentDay", vm.currentDay,
			"supply", vm.tokens.TotalSupply(),
		)
	case errors.Is(err, state.ErrNoSnapshot):
		vm.excludeHouseAccounts()
	default:
		return nil, err
	}
	return vm, nil
}

// normalizeDests fills unset fee destinations with the admin account.
// The lottery destination is always the jackpot pot.
func normalizeDests(dests fees.Destinations, admin ids.ShortID) fees.Destinations {
	if dests.Dev == ids.ShortEmpty {
		dests.Dev = admin
	}
	if dests.Marketing == ids.ShortEmpty {
		dests.Marketing = admin
	}
	if dests.Buyback == ids.ShortEmpty {
		dests.Buyback = admin
	}
	if dests.Rewards == ids.ShortEmpty {
		dests.Rewards = admin
	}
	dests.Lottery = lotteryPot
	return dests
}

// excludeHouseAccounts bars the team and pot accounts from the lottery.
func (vm *VM) excludeHouseAccounts() {
	for _, addr := range []ids.ShortID{
		vm.admin, vm.dests.Dev, vm.dests.Marketing, vm.dests.Buyback,
		vm.dests.Rewards, auctionPot, stakingPot, lotteryPot,
	} {
		if err := vm.lottery.SetExcluded(addr, true); err != nil {
			vm.log.Warn("failed to exclude account from lottery", "err", err)
		}
	}
}

// Clock returns the epoch clock. Tests fake time through it.
func (vm *VM) Clock() *epoch.Clock {
	return vm.clock
}

// Fund credits external native value to [addr]. The host calls this
// when value enters the engine's domain.
func (vm *VM) Fund(addr ids.ShortID, amount *big.Int) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.bank.Credit(addr, amount)
}

// TransferTokens sends [amount] of [caller]'s tokens to [to].
func (vm *VM) TransferTokens(caller, to ids.ShortID, amount *big.Int) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.tokens.Transfer(caller, to, amount); err != nil {
		return err
	}

	vm.metrics.IncTokenTransfers()
	vm.emit(&Event{
		Type:      EventTokensTransferred,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller, to},
		Tokens:    amount,
	})
	return vm.commit()
}

// StartAuction launches the economy: day 0 begins and the starting
// supply is minted to the admin.
func (vm *VM) StartAuction(caller ids.ShortID) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := vm.clock.Start(); err != nil {
		return err
	}
	vm.currentDay = 0
	if err := vm.tokens.Mint(vm.admin, config.StartingSupply()); err != nil {
		return err
	}

	vm.log.Info("auction started",
		"admin", vm.admin,
		"supply", vm.tokens.TotalSupply(),
	)
	vm.emit(&Event{
		Type:      EventAuctionStarted,
		Addresses: []ids.ShortID{vm.admin},
		Tokens:    vm.tokens.TotalSupply(),
	})
	return vm.commit()
}

// EnterAuction deposits [amount] of [caller]'s value into today's
// auction pool. Day-0 deposits route straight to the dev account but
// still create a claimable entry.
func (vm *VM) EnterAuction(caller ids.ShortID, amount *big.Int, referrer ids.ShortID) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	recipient := auctionPot
	if vm.currentDay == 0 {
		recipient = vm.dests.Dev
	}
	if err := vm.bank.Transfer(caller, recipient, amount); err != nil {
		return err
	}
	if err := vm.auction.Deposit(caller, referrer, amount, vm.currentDay); err != nil {
		return err
	}

	if vm.lottery.RecordDeposit(caller, amount) {
		vm.log.Debug("new biggest buy",
			"account", caller,
			"amount", amount,
			"day", vm.currentDay,
		)
	}

	vm.metrics.IncAuctionEntries()
	vm.emit(&Event{
		Type:      EventAuctionEntered,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller},
		Amount:    amount,
	})
	return vm.commit()
}

// CollectAuctionTokens pays out [caller]'s entries for a settled [day]
// and mints any referral bonuses on top.
func (vm *VM) CollectAuctionTokens(caller ids.ShortID, day uint64) (*big.Int, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return nil, err
	}

	payout, shares, err := vm.auction.Claim(caller, day)
	if err != nil {
		return nil, err
	}
	if err := vm.tokens.Transfer(auctionPot, caller, payout); err != nil {
		return nil, err
	}

	total := new(big.Int).Set(payout)
	for _, share := range shares {
		if share.Referrer == ids.ShortEmpty {
			continue
		}
		referrerBonus := fees.Permille(share.Amount, vm.ReferrerBonusPermille)
		if referrerBonus.Sign() > 0 {
			if err := vm.tokens.Mint(share.Referrer, referrerBonus); err != nil {
				return nil, err
			}
			vm.emit(&Event{
				Type:      EventReferralBonus,
				Day:       day,
				Addresses: []ids.ShortID{share.Referrer, caller},
				Tokens:    referrerBonus,
			})
		}
		referreeBonus := fees.Permille(share.Amount, vm.ReferreeBonusPermille)
		if referreeBonus.Sign() > 0 {
			if err := vm.tokens.Mint(caller, referreeBonus); err != nil {
				return nil, err
			}
			total.Add(total, referreeBonus)
		}
	}

	vm.metrics.IncAuctionClaims()
	vm.emit(&Event{
		Type:      EventAuctionCollected,
		Day:       day,
		Addresses: []ids.ShortID{caller},
		Tokens:    total,
	})
	if err := vm.commit(); err != nil {
		return nil, err
	}
	return total, nil
}

// AdvanceEpoch performs any due settlement. Anyone may call it; it is
// a no-op when the stored day is current.
func (vm *VM) AdvanceEpoch() error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	return vm.commit()
}

// advanceEpoch settles the most recently elapsed day if the stored day
// is behind the clock. Only one settlement runs per call even when
// multiple days have elapsed.
func (vm *VM) advanceEpoch() error {
	day, err := vm.clock.CurrentDay()
	if err != nil {
		return err
	}
	if day <= vm.currentDay {
		return nil
	}
	if err := vm.settle(day - 1); err != nil {
		return err
	}
	vm.currentDay = day
	return nil
}

// settle closes [day]: mint its auction tokens, route the pooled
// deposits, flush accrued dev fees, and run the lottery day. All state
// is updated before any value leaves a pot.
func (vm *VM) settle(day uint64) error {
	minted, err := vm.auction.SettleDay(day)
	if err != nil {
		if errors.Is(err, auction.ErrAlreadySettled) {
			return nil
		}
		return err
	}
	if minted.Sign() > 0 {
		if err := vm.tokens.Mint(auctionPot, minted); err != nil {
			return err
		}
	}

	// Route everything the auction pot holds. Deposits from days that
	// were skipped without settling are flushed here too.
	deposited := vm.bank.BalanceOf(auctionPot)
	if deposited.Sign() > 0 {
		routed := fees.RouteDeposits(deposited, fees.DepositTaxes{
			Dev:       vm.DevPercent,
			Marketing: vm.MarketingPercent,
			Buyback:   vm.BuybackPercent,
			Rewards:   vm.RewardsPercent,
			Lottery:   vm.LotteryPercent,
		}, vm.dests)

		vm.dividends.Smooth(routed.Dividends, day)
		for _, transfer := range routed.Transfers {
			if err := vm.bank.Transfer(auctionPot, transfer.To, transfer.Amount); err != nil {
				return err
			}
		}
		if routed.Dividends.Sign() > 0 {
			if err := vm.bank.Transfer(auctionPot, stakingPot, routed.Dividends); err != nil {
				return err
			}
		}
	}

	if devFees := vm.stakes.TakeDevFees(); devFees.Sign() > 0 {
		if err := vm.bank.Transfer(stakingPot, vm.dests.Dev, devFees); err != nil {
			return err
		}
	}

	if err := vm.settleLottery(day); err != nil {
		return err
	}

	vm.metrics.IncDaysSettled()
	vm.log.Info("day settled",
		"day", day,
		"deposited", deposited,
		"minted", minted,
	)
	vm.emit(&Event{
		Type:   EventDayEnded,
		Day:    day,
		Amount: deposited,
		Tokens: minted,
	})
	return nil
}

func (vm *VM) settleLottery(day uint64) error {
	out := vm.lottery.Settle(vm.bank.BalanceOf(lotteryPot))
	if !out.HasWinner {
		return nil
	}

	payouts := []struct {
		to     ids.ShortID
		amount *big.Int
	}{
		{out.Winner, out.WinnerAmount},
		{vm.dests.Dev, out.DevAmount},
		{vm.dests.Rewards, out.RewardsAmount},
	}
	for _, p := range payouts {
		if p.amount.Sign() == 0 {
			continue
		}
		if err := vm.bank.Transfer(lotteryPot, p.to, p.amount); err != nil {
			return err
		}
	}

	vm.metrics.IncLotteryWins()
	vm.emit(&Event{
		Type:      EventLotteryWon,
		Day:       day,
		Addresses: []ids.ShortID{out.Winner},
		Amount:    out.WinnerAmount,
	})
	return nil
}

// emit publishes an event to subscribers. The timestamp is stamped
// here so callers only fill in what they know.
func (vm *VM) emit(ev *Event) {
	ev.Timestamp = vm.clock.Time().Unix()
	vm.pubsub.Publish(NewEventFilterer(ev))
}

// commit persists a snapshot of the full engine state.
func (vm *VM) commit() error {
	return vm.store.Put(vm.snapshot())
}

func (vm *VM) snapshot() *state.Snapshot {
	days, entriesByAccount, last := vm.auction.Snapshot()
	var entries []auction.Entry
	for _, list := range entriesByAccount {
		for _, entry := range list {
			entries = append(entries, *entry)
		}
	}

	var tokenBalances, bankBalances []state.BalanceEntry
	for addr, balance := range vm.tokens.Balances() {
		tokenBalances = append(tokenBalances, state.BalanceEntry{Address: addr, Amount: balance})
	}
	for addr, balance := range vm.bank.Balances() {
		bankBalances = append(bankBalances, state.BalanceEntry{Address: addr, Amount: balance})
	}

	var launch int64
	if vm.clock.Started() {
		launch = vm.clock.LaunchTime().Unix()
	}

	return &state.Snapshot{
		Clock: state.ClockSection{
			LaunchUnix: launch,
			CurrentDay: vm.currentDay,
			Admin:      vm.admin,
		},
		Ledger: state.LedgerSection{
			TokenSupply:   vm.tokens.TotalSupply(),
			TokenBalances: tokenBalances,
			BankBalances:  bankBalances,
		},
		Auction: state.AuctionSection{
			Days:              days,
			Entries:           entries,
			LastAuctionTokens: last,
		},
		Dividends: state.DividendsSection{
			Pools:         vm.dividends.Pools(),
			Total:         vm.dividends.Total(),
			MaxRewardDays: vm.dividends.MaxRewardDays(),
		},
		Staking: vm.stakes.TakeSnapshot(),
		Lottery: vm.lottery.TakeSnapshot(),
		Config: state.ConfigSection{
			Config:    vm.Config,
			Dev:       vm.dests.Dev,
			Marketing: vm.dests.Marketing,
			Buyback:   vm.dests.Buyback,
			Rewards:   vm.dests.Rewards,
		},
	}
}

func (vm *VM) restore(snap *state.Snapshot) error {
	if snap.Clock.LaunchUnix != 0 {
		vm.clock.Restore(time.Unix(snap.Clock.LaunchUnix, 0))
	}
	vm.currentDay = snap.Clock.CurrentDay
	vm.admin = snap.Clock.Admin

	tokenBalances := make(map[ids.ShortID]*big.Int, len(snap.Ledger.TokenBalances))
	for _, entry := range snap.Ledger.TokenBalances {
		tokenBalances[entry.Address] = entry.Amount
	}
	vm.tokens.Restore(tokenBalances, snap.Ledger.TokenSupply)

	bankBalances := make(map[ids.ShortID]*big.Int, len(snap.Ledger.BankBalances))
	for _, entry := range snap.Ledger.BankBalances {
		bankBalances[entry.Address] = entry.Amount
	}
	vm.bank.Restore(bankBalances)

	entries := make(map[ids.ShortID][]*auction.Entry)
	for i := range snap.Auction.Entries {
		entry := snap.Auction.Entries[i]
		entries[entry.Account] = append(entries[entry.Account], &entry)
	}
	vm.auction.Restore(snap.Auction.Days, entries, snap.Auction.LastAuctionTokens)

	vm.dividends.Restore(snap.Dividends.Pools, snap.Dividends.Total, snap.Dividends.MaxRewardDays)
	vm.stakes.Restore(snap.Staking)
	vm.lottery.Restore(snap.Lottery)

	vm.Config = snap.Config.Config
	vm.dests = normalizeDests(fees.Destinations{
		Dev:       snap.Config.Dev,
		Marketing: snap.Config.Marketing,
		Buyback:   snap.Config.Buyback,
		Rewards:   snap.Config.Rewards,
	}, vm.admin)
	return nil
}

// CreateHandlers returns the HTTP handlers this VM exposes: the
// JSON-RPC service and the event stream.
func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	server.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")

	if err := server.RegisterService(api.NewService(vm), "auction"); err != nil {
		return nil, err
	}

	return map[string]http.Handler{
		"":        server,
		"/events": vm.pubsub,
	}, nil
}

// HealthCheck reports engine liveness and headline state.
func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return map[string]interface{}{
		"healthy":     true,
		"started":     vm.clock.Started(),
		"currentDay":  vm.currentDay,
		"totalSupply": vm.tokens.TotalSupply().String(),
	}, nil
}
