// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"math/big"

	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/fees"
	"github.com/luxfi/auctionvm/ledger"
)

// RequestLoan opens a loan request against [caller]'s stake. The
// repayment must already be covered by dividends the stake has earned.
func (vm *VM) RequestLoan(caller ids.ShortID, stakeID uint64, principal, interest *big.Int, duration uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.stakes.RequestLoan(stakeID, caller, principal, interest, duration, vm.currentDay); err != nil {
		return err
	}

	vm.emit(&Event{
		Type:      EventLoanRequested,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller},
		Amount:    principal,
		StakeID:   stakeID,
	})
	return vm.commit()
}

// CancelLoanRequest withdraws an unfilled loan request.
func (vm *VM) CancelLoanRequest(caller ids.ShortID, stakeID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.stakes.CancelLoanRequest(stakeID, caller); err != nil {
		return err
	}
	return vm.commit()
}

// FillLoan funds a pending loan request. The borrower receives the
// principal net of the origination fee, split between the current
// day's dividend pool and the dev fee accumulator.
func (vm *VM) FillLoan(caller ids.ShortID, stakeID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	pending, err := vm.stakes.GetLoan(stakeID)
	if err != nil {
		return err
	}
	if vm.bank.BalanceOf(caller).Cmp(pending.Principal) < 0 {
		return ledger.ErrInsufficientBalance
	}

	loan, err := vm.stakes.FillLoan(stakeID, caller, vm.currentDay)
	if err != nil {
		return err
	}
	if err := vm.bank.Transfer(caller, stakingPot, loan.Principal); err != nil {
		return err
	}

	dividendCut := fees.Percent(loan.Principal, vm.LoanDividendPercent)
	devCut := fees.Percent(loan.Principal, vm.LoanDevPercent)
	vm.dividends.CreditDay(vm.currentDay, dividendCut)
	vm.stakes.AddDevFees(devCut)

	net := new(big.Int).Sub(loan.Principal, dividendCut)
	net.Sub(net, devCut)
	if net.Sign() > 0 {
		if err := vm.bank.Transfer(stakingPot, loan.RequestedBy, net); err != nil {
			return err
		}
	}

	vm.metrics.IncLoansFilled()
	vm.emit(&Event{
		Type:      EventLoanFilled,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller, loan.RequestedBy},
		Amount:    loan.Principal,
		StakeID:   stakeID,
	})
	return vm.commit()
}

// RepayLoan settles a matured loan out of the stake's earned
// dividends. Anyone may trigger it once the loan is due.
func (vm *VM) RepayLoan(stakeID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	lender, repayment, err := vm.stakes.RepayLoan(stakeID, vm.currentDay)
	if err != nil {
		return err
	}
	if err := vm.bank.Transfer(stakingPot, lender, repayment); err != nil {
		return err
	}

	vm.metrics.IncLoansRepaid()
	vm.emit(&Event{
		Type:      EventLoanRepaid,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{lender},
		Amount:    repayment,
		StakeID:   stakeID,
	})
	return vm.commit()
}
