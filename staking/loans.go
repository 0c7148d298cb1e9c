// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"errors"
	"math/big"

	"github.com/luxfi/ids"
)

var (
	ErrNoLoan                 = errors.New("no loan on stake")
	ErrLoanExists             = errors.New("stake already has a loan")
	ErrLoanAlreadyFilled      = errors.New("loan already filled")
	ErrLoanNotFilled          = errors.New("loan has not been filled")
	ErrLoanNotDue             = errors.New("loan duration not met")
	ErrLoanOutlivesStake      = errors.New("loan must expire before stake end")
	ErrInsufficientCollateral = errors.New("loan exceeds dividends earned so far")
	ErrZeroLoanAmount         = errors.New("loan principal must be positive")
)

// Loan is a peer loan collateralized by a stake's future dividends.
// Until filled, only RequestedBy and the terms are set.
type Loan struct {
	StakeID     uint64      `json:"stakeId"`
	RequestedBy ids.ShortID `json:"requestedBy"`
	FilledBy    ids.ShortID `json:"filledBy"`
	Principal   *big.Int    `json:"principal"`
	Interest    *big.Int    `json:"interest"`
	Duration    uint64      `json:"duration"`
	StartDay    uint64      `json:"startDay"`
	EndDay      uint64      `json:"endDay"`
	Filled      bool        `json:"filled"`
}

// RequestLoan opens a loan request against a stake. The repayment
// (principal plus interest) must already be covered by dividends the
// stake has earned, and the loan must expire before the stake does.
func (r *Registry) RequestLoan(stakeID uint64, caller ids.ShortID, principal, interest *big.Int, duration, currentDay uint64) error {
	if principal.Sign() <= 0 {
		return ErrZeroLoanAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return ErrStakeNotFound
	}
	if stake.Owner != caller {
		return ErrUnauthorized
	}
	if stake.ended(currentDay) {
		return ErrStakeEnded
	}
	if _, exists := r.loans[stakeID]; exists {
		return ErrLoanExists
	}
	if duration == 0 || currentDay+duration >= stake.EndDay {
		return ErrLoanOutlivesStake
	}

	repayment := new(big.Int).Add(principal, interest)
	earned := new(big.Int)
	if currentDay > 0 {
		earned = r.claimable(stake, currentDay-1)
	}
	if repayment.Cmp(earned) > 0 {
		return ErrInsufficientCollateral
	}

	r.loans[stakeID] = &Loan{
		StakeID:     stakeID,
		RequestedBy: caller,
		Principal:   new(big.Int).Set(principal),
		Interest:    new(big.Int).Set(interest),
		Duration:    duration,
	}
	return nil
}

// CancelLoanRequest withdraws an unfilled loan request.
func (r *Registry) CancelLoanRequest(stakeID uint64, caller ids.ShortID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[stakeID]
	if !ok {
		return ErrNoLoan
	}
	if loan.RequestedBy != caller {
		return ErrUnauthorized
	}
	if loan.Filled {
		return ErrLoanAlreadyFilled
	}

	delete(r.loans, stakeID)
	return nil
}

// FillLoan records [lender] as the loan's counterparty and starts its
// term. It returns the loan so the caller can move the principal.
func (r *Registry) FillLoan(stakeID uint64, lender ids.ShortID, currentDay uint64) (*Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[stakeID]
	if !ok {
		return nil, ErrNoLoan
	}
	if loan.Filled {
		return nil, ErrLoanAlreadyFilled
	}
	stake := r.stakes[stakeID]
	if stake.ended(currentDay) {
		return nil, ErrStakeEnded
	}

	loan.Filled = true
	loan.FilledBy = lender
	loan.StartDay = currentDay
	loan.EndDay = currentDay + loan.Duration
	return r.copyLoan(loan), nil
}

// RepayLoan clears a matured loan. The repayment comes out of the
// stake's earned dividends and is returned for the caller to pay the
// lender. Anyone may trigger repayment once the loan is due.
func (r *Registry) RepayLoan(stakeID, currentDay uint64) (lender ids.ShortID, repayment *big.Int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[stakeID]
	if !ok {
		return ids.ShortEmpty, nil, ErrNoLoan
	}
	if !loan.Filled {
		return ids.ShortEmpty, nil, ErrLoanNotFilled
	}
	if currentDay < loan.EndDay {
		return ids.ShortEmpty, nil, ErrLoanNotDue
	}

	stake := r.stakes[stakeID]
	repayment = new(big.Int).Add(loan.Principal, loan.Interest)
	stake.LoanRepayments.Add(stake.LoanRepayments, repayment)
	lender = loan.FilledBy
	delete(r.loans, stakeID)
	return lender, repayment, nil
}

// GetLoan returns a copy of the loan on [stakeID], if one exists.
func (r *Registry) GetLoan(stakeID uint64) (*Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[stakeID]
	if !ok {
		return nil, ErrNoLoan
	}
	return r.copyLoan(loan), nil
}

func (r *Registry) copyLoan(loan *Loan) *Loan {
	out := *loan
	out.Principal = new(big.Int).Set(loan.Principal)
	out.Interest = new(big.Int).Set(loan.Interest)
	return &out
}
