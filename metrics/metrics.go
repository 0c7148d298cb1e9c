// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"

	"github.com/luxfi/metric"
)

var _ Metrics = (*metricsImpl)(nil)

type Metrics interface {
	metric.APIInterceptor

	IncTokenTransfers()
	IncAuctionEntries()
	IncAuctionClaims()
	IncDaysSettled()
	IncStakesOpened()
	IncStakesCollected()
	IncStakesSold()
	IncLoansFilled()
	IncLoansRepaid()
	IncLotteryWins()
}

type metricsImpl struct {
	numTokenTransfers,
	numAuctionEntries,
	numAuctionClaims,
	numDaysSettled,
	numStakesOpened,
	numStakesCollected,
	numStakesSold,
	numLoansFilled,
	numLoansRepaid,
	numLotteryWins metric.Counter

	metric.APIInterceptor
}

func (m *metricsImpl) IncTokenTransfers()  { m.numTokenTransfers.Inc() }
func (m *metricsImpl) IncAuctionEntries()  { m.numAuctionEntries.Inc() }
func (m *metricsImpl) IncAuctionClaims()   { m.numAuctionClaims.Inc() }
func (m *metricsImpl) IncDaysSettled()     { m.numDaysSettled.Inc() }
func (m *metricsImpl) IncStakesOpened()    { m.numStakesOpened.Inc() }
func (m *metricsImpl) IncStakesCollected() { m.numStakesCollected.Inc() }
func (m *metricsImpl) IncStakesSold()      { m.numStakesSold.Inc() }
func (m *metricsImpl) IncLoansFilled()     { m.numLoansFilled.Inc() }
func (m *metricsImpl) IncLoansRepaid()     { m.numLoansRepaid.Inc() }
func (m *metricsImpl) IncLotteryWins()     { m.numLotteryWins.Inc() }

func New(registerer metric.Registerer) (Metrics, error) {
	registry, ok := registerer.(metric.Registry)
	if !ok {
		return nil, errors.New("registerer must implement metric.Registry")
	}

	m := &metricsImpl{}

	m.numTokenTransfers = metric.NewCounter(metric.CounterOpts{
		Name: "token_transfers",
		Help: "Number of direct token transfers",
	})
	m.numAuctionEntries = metric.NewCounter(metric.CounterOpts{
		Name: "auction_entries",
		Help: "Number of auction deposits recorded",
	})
	m.numAuctionClaims = metric.NewCounter(metric.CounterOpts{
		Name: "auction_claims",
		Help: "Number of auction token claims paid out",
	})
	m.numDaysSettled = metric.NewCounter(metric.CounterOpts{
		Name: "days_settled",
		Help: "Number of auction days settled",
	})
	m.numStakesOpened = metric.NewCounter(metric.CounterOpts{
		Name: "stakes_opened",
		Help: "Number of stakes opened",
	})
	m.numStakesCollected = metric.NewCounter(metric.CounterOpts{
		Name: "stakes_collected",
		Help: "Number of stakes collected after ending",
	})
	m.numStakesSold = metric.NewCounter(metric.CounterOpts{
		Name: "stakes_sold",
		Help: "Number of stakes sold on the secondary market",
	})
	m.numLoansFilled = metric.NewCounter(metric.CounterOpts{
		Name: "loans_filled",
		Help: "Number of stake loans filled by lenders",
	})
	m.numLoansRepaid = metric.NewCounter(metric.CounterOpts{
		Name: "loans_repaid",
		Help: "Number of stake loans repaid",
	})
	m.numLotteryWins = metric.NewCounter(metric.CounterOpts{
		Name: "lottery_wins",
		Help: "Number of biggest-buy lottery wins paid",
	})

	apiRequestMetric, err := metric.NewAPIInterceptor(registry)
	m.APIInterceptor = apiRequestMetric
	return m, err
}
