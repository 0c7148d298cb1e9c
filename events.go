// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"math/big"

	"github.com/luxfi/ids"
	"github.com/luxfi/pubsub"
)

// EventType names an event published on the VM's event stream.
type EventType string

const (
	EventAuctionStarted    EventType = "auctionStarted"
	EventTokensTransferred EventType = "tokensTransferred"
	EventAuctionEntered    EventType = "auctionEntered"
	EventDayEnded          EventType = "dayEnded"
	EventAuctionCollected  EventType = "auctionCollected"
	EventReferralBonus     EventType = "referralBonus"
	EventStakeOpened       EventType = "stakeOpened"
	EventStakeCollected    EventType = "stakeCollected"
	EventStakeListed       EventType = "stakeListed"
	EventStakeSold         EventType = "stakeSold"
	EventLoanRequested     EventType = "loanRequested"
	EventLoanFilled        EventType = "loanFilled"
	EventLoanRepaid        EventType = "loanRepaid"
	EventLotteryStarted    EventType = "lotteryStarted"
	EventLotteryWon        EventType = "lotteryWon"
)

// Event is published to subscribers after the state change it describes
// has been finalized.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Day       uint64        `json:"day"`
	Addresses []ids.ShortID `json:"addresses,omitempty"`
	Amount    *big.Int      `json:"amount,omitempty"`
	Tokens    *big.Int      `json:"tokens,omitempty"`
	StakeID   uint64        `json:"stakeId,omitempty"`
}

type eventFilterer struct {
	ev *Event
}

// NewEventFilterer wraps an event for publication: a subscription
// matches if any of its address filters match an address the event
// touches.
func NewEventFilterer(ev *Event) pubsub.Filterer {
	return &eventFilterer{ev: ev}
}

func (f *eventFilterer) Filter(filters []pubsub.Filter) ([]bool, interface{}) {
	resp := make([]bool, len(filters))
	for i, filter := range filters {
		for _, addr := range f.ev.Addresses {
			if filter.Check(addr[:]) {
				resp[i] = true
				break
			}
		}
	}
	return resp, f.ev
}
