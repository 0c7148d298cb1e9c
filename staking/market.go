// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"errors"
	"math/big"

	"github.com/luxfi/ids"
)

var (
	ErrNotForSale  = errors.New("stake not for sale")
	ErrOwnStake    = errors.New("cannot buy own stake")
	ErrPriceTooLow = errors.New("offered value below sale price")
	ErrZeroPrice   = errors.New("sale price must be positive")
)

// ListForSale puts a stake on the secondary market at [price]. Listing
// an already listed stake replaces the price.
func (r *Registry) ListForSale(stakeID uint64, caller ids.ShortID, price *big.Int, currentDay uint64) error {
	if price.Sign() <= 0 {
		return ErrZeroPrice
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
	if stake.ended(currentDay) || stake.Collected {
		return ErrStakeEnded
	}
	if _, hasLoan := r.loans[stakeID]; hasLoan {
		return ErrUnpaidLoan
	}

	stake.SalePrice = new(big.Int).Set(price)
	return nil
}

// CancelListing removes a stake from the market.
func (r *Registry) CancelListing(stakeID uint64, caller ids.ShortID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return ErrStakeNotFound
	}
	if stake.Owner != caller {
		return ErrUnauthorized
	}
	if stake.SalePrice == nil {
		return ErrNotForSale
	}

	stake.SalePrice = nil
	return nil
}

// Buy transfers a listed stake to [buyer] and returns the sale price
// and the previous owner. The buyer takes over the stake's full
// dividend history, including days before the purchase.
func (r *Registry) Buy(stakeID uint64, buyer ids.ShortID, offered *big.Int, currentDay uint64) (price *big.Int, seller ids.ShortID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stake, ok := r.stakes[stakeID]
	if !ok {
		return nil, ids.ShortEmpty, ErrStakeNotFound
	}
	if stake.SalePrice == nil {
		return nil, ids.ShortEmpty, ErrNotForSale
	}
	if stake.Owner == buyer {
		return nil, ids.ShortEmpty, ErrOwnStake
	}
	if stake.ended(currentDay) {
		return nil, ids.ShortEmpty, ErrStakeEnded
	}
	if offered.Cmp(stake.SalePrice) < 0 {
		return nil, ids.ShortEmpty, ErrPriceTooLow
	}

	price = stake.SalePrice
	seller = stake.Owner
	stake.Owner = buyer
	stake.SalePrice = nil
	return price, seller, nil
}
