// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api provides the JSON-RPC surface of the auction VM.
package api

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/auction"
	"github.com/luxfi/auctionvm/staking"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// VM is the engine surface the API service consumes.
type VM interface {
	Started() bool
	Admin() ids.ShortID
	CurrentDay() uint64
	TotalSupply() *big.Int
	TokenBalance(addr ids.ShortID) *big.Int
	ValueBalance(addr ids.ShortID) *big.Int
	TotalDepositedOn(day uint64) *big.Int
	TokensMintedOn(day uint64) *big.Int
	AuctionEntries(addr ids.ShortID) []auction.Entry
	ClaimableAuctionTokens(addr ids.ShortID, day uint64) *big.Int
	DayDividendPool(day uint64) *big.Int
	TotalDividends() *big.Int
	TokensInActiveStake(day uint64) *big.Int
	GetStake(stakeID uint64) (*staking.Stake, error)
	GetLoan(stakeID uint64) (*staking.Loan, error)
	StakesOf(owner ids.ShortID) []*staking.Stake
	ClaimableDividends(stakeID uint64) (*big.Int, error)

	AdvanceEpoch() error
	TransferTokens(caller, to ids.ShortID, amount *big.Int) error
	EnterAuction(caller ids.ShortID, amount *big.Int, referrer ids.ShortID) error
	CollectAuctionTokens(caller ids.ShortID, day uint64) (*big.Int, error)
	OpenStake(caller ids.ShortID, tokens *big.Int, days uint64) (*staking.Stake, error)
	CollectStake(caller ids.ShortID, stakeID uint64) (*big.Int, error)
	ListStakeForSale(caller ids.ShortID, stakeID uint64, price *big.Int) error
	CancelStakeSale(caller ids.ShortID, stakeID uint64) error
	BuyStake(caller ids.ShortID, stakeID uint64, offered *big.Int) error
	RequestLoan(caller ids.ShortID, stakeID uint64, principal, interest *big.Int, duration uint64) error
	CancelLoanRequest(caller ids.ShortID, stakeID uint64) error
	FillLoan(caller ids.ShortID, stakeID uint64) error
	RepayLoan(stakeID uint64) error
}

// Service is the RPC service registered under the "auction" namespace.
type Service struct {
	vm VM
}

func NewService(vm VM) *Service {
	return &Service{vm: vm}
}

func parseAddress(s string) (ids.ShortID, error) {
	if s == "" {
		return ids.ShortEmpty, fmt.Errorf("%w: address required", ErrInvalidRequest)
	}
	addr, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	return addr, nil
}

func parseOptAddress(s string) (ids.ShortID, error) {
	if s == "" {
		return ids.ShortEmpty, nil
	}
	return parseAddress(s)
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

type PingArgs struct{}

type PingReply struct {
	Success bool `json:"success"`
}

func (s *Service) Ping(_ *http.Request, _ *PingArgs, reply *PingReply) error {
	reply.Success = true
	return nil
}

type StatusArgs struct{}

type StatusReply struct {
	Started     bool   `json:"started"`
	CurrentDay  uint64 `json:"currentDay"`
	TotalSupply string `json:"totalSupply"`
	Admin       string `json:"admin"`
}

func (s *Service) Status(_ *http.Request, _ *StatusArgs, reply *StatusReply) error {
	reply.Started = s.vm.Started()
	reply.CurrentDay = s.vm.CurrentDay()
	reply.TotalSupply = s.vm.TotalSupply().String()
	reply.Admin = s.vm.Admin().String()
	return nil
}

type GetBalanceArgs struct {
	Address string `json:"address"`
}

type GetBalanceReply struct {
	Tokens string `json:"tokens"`
	Value  string `json:"value"`
}

func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	addr, err := parseAddress(args.Address)
	if err != nil {
		return err
	}
	reply.Tokens = s.vm.TokenBalance(addr).String()
	reply.Value = s.vm.ValueBalance(addr).String()
	return nil
}

type GetAuctionDayArgs struct {
	Day uint64 `json:"day"`
}

type GetAuctionDayReply struct {
	Deposited    string `json:"deposited"`
	TokensMinted string `json:"tokensMinted"`
	DividendPool string `json:"dividendPool"`
	ActiveStake  string `json:"activeStake"`
}

func (s *Service) GetAuctionDay(_ *http.Request, args *GetAuctionDayArgs, reply *GetAuctionDayReply) error {
	reply.Deposited = s.vm.TotalDepositedOn(args.Day).String()
	reply.TokensMinted = s.vm.TokensMintedOn(args.Day).String()
	reply.DividendPool = s.vm.DayDividendPool(args.Day).String()
	reply.ActiveStake = s.vm.TokensInActiveStake(args.Day).String()
	return nil
}

type GetEntriesArgs struct {
	Address string `json:"address"`
}

type EntryReply struct {
	Day       uint64 `json:"day"`
	Deposit   string `json:"deposit"`
	Referrer  string `json:"referrer,omitempty"`
	Collected bool   `json:"collected"`
}

type GetEntriesReply struct {
	Entries []EntryReply `json:"entries"`
}

func (s *Service) GetEntries(_ *http.Request, args *GetEntriesArgs, reply *GetEntriesReply) error {
	addr, err := parseAddress(args.Address)
	if err != nil {
		return err
	}
	for _, entry := range s.vm.AuctionEntries(addr) {
		out := EntryReply{
			Day:       entry.Day,
			Deposit:   entry.Deposit.String(),
			Collected: entry.Collected,
		}
		if entry.Referrer != ids.ShortEmpty {
			out.Referrer = entry.Referrer.String()
		}
		reply.Entries = append(reply.Entries, out)
	}
	return nil
}

type GetClaimableArgs struct {
	Address string `json:"address"`
	Day     uint64 `json:"day"`
}

type GetClaimableReply struct {
	Claimable string `json:"claimable"`
}

func (s *Service) GetClaimable(_ *http.Request, args *GetClaimableArgs, reply *GetClaimableReply) error {
	addr, err := parseAddress(args.Address)
	if err != nil {
		return err
	}
	reply.Claimable = s.vm.ClaimableAuctionTokens(addr, args.Day).String()
	return nil
}

type GetTotalDividendsArgs struct{}

type GetTotalDividendsReply struct {
	Total string `json:"total"`
}

func (s *Service) GetTotalDividends(_ *http.Request, _ *GetTotalDividendsArgs, reply *GetTotalDividendsReply) error {
	reply.Total = s.vm.TotalDividends().String()
	return nil
}

type GetStakeArgs struct {
	StakeID uint64 `json:"stakeId"`
}

type StakeReply struct {
	StakeID        uint64 `json:"stakeId"`
	Owner          string `json:"owner"`
	Tokens         string `json:"tokens"`
	StartDay       uint64 `json:"startDay"`
	EndDay         uint64 `json:"endDay"`
	SalePrice      string `json:"salePrice,omitempty"`
	LoanRepayments string `json:"loanRepayments"`
	Collected      bool   `json:"collected"`
	Claimable      string `json:"claimable"`
}

func stakeReply(stake *staking.Stake, claimable *big.Int) StakeReply {
	out := StakeReply{
		StakeID:        stake.ID,
		Owner:          stake.Owner.String(),
		Tokens:         stake.Tokens.String(),
		StartDay:       stake.StartDay,
		EndDay:         stake.EndDay,
		LoanRepayments: stake.LoanRepayments.String(),
		Collected:      stake.Collected,
	}
	if stake.SalePrice != nil {
		out.SalePrice = stake.SalePrice.String()
	}
	if claimable != nil {
		out.Claimable = claimable.String()
	}
	return out
}

func (s *Service) GetStake(_ *http.Request, args *GetStakeArgs, reply *StakeReply) error {
	stake, err := s.vm.GetStake(args.StakeID)
	if err != nil {
		return err
	}
	claimable, err := s.vm.ClaimableDividends(args.StakeID)
	if err != nil {
		return err
	}
	*reply = stakeReply(stake, claimable)
	return nil
}

type GetStakesArgs struct {
	Owner string `json:"owner"`
}

type GetStakesReply struct {
	Stakes []StakeReply `json:"stakes"`
}

func (s *Service) GetStakes(_ *http.Request, args *GetStakesArgs, reply *GetStakesReply) error {
	owner, err := parseAddress(args.Owner)
	if err != nil {
		return err
	}
	for _, stake := range s.vm.StakesOf(owner) {
		reply.Stakes = append(reply.Stakes, stakeReply(stake, nil))
	}
	return nil
}

type GetLoanArgs struct {
	StakeID uint64 `json:"stakeId"`
}

type GetLoanReply struct {
	StakeID     uint64 `json:"stakeId"`
	RequestedBy string `json:"requestedBy"`
	FilledBy    string `json:"filledBy,omitempty"`
	Principal   string `json:"principal"`
	Interest    string `json:"interest"`
	Duration    uint64 `json:"duration"`
	StartDay    uint64 `json:"startDay"`
	EndDay      uint64 `json:"endDay"`
	Filled      bool   `json:"filled"`
}

func (s *Service) GetLoan(_ *http.Request, args *GetLoanArgs, reply *GetLoanReply) error {
	loan, err := s.vm.GetLoan(args.StakeID)
	if err != nil {
		return err
	}
	reply.StakeID = loan.StakeID
	reply.RequestedBy = loan.RequestedBy.String()
	if loan.Filled {
		reply.FilledBy = loan.FilledBy.String()
	}
	reply.Principal = loan.Principal.String()
	reply.Interest = loan.Interest.String()
	reply.Duration = loan.Duration
	reply.StartDay = loan.StartDay
	reply.EndDay = loan.EndDay
	reply.Filled = loan.Filled
	return nil
}

type AdvanceEpochArgs struct{}

type AdvanceEpochReply struct {
	CurrentDay uint64 `json:"currentDay"`
}

func (s *Service) AdvanceEpoch(_ *http.Request, _ *AdvanceEpochArgs, reply *AdvanceEpochReply) error {
	if err := s.vm.AdvanceEpoch(); err != nil {
		return err
	}
	reply.CurrentDay = s.vm.CurrentDay()
	return nil
}

type TransferTokensArgs struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Service) TransferTokens(_ *http.Request, args *TransferTokensArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	to, err := parseAddress(args.To)
	if err != nil {
		return err
	}
	amount, err := parseAmount(args.Amount)
	if err != nil {
		return err
	}
	if err := s.vm.TransferTokens(caller, to, amount); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type EnterAuctionArgs struct {
	Caller   string `json:"caller"`
	Amount   string `json:"amount"`
	Referrer string `json:"referrer,omitempty"`
}

type EnterAuctionReply struct {
	Day uint64 `json:"day"`
}

func (s *Service) EnterAuction(_ *http.Request, args *EnterAuctionArgs, reply *EnterAuctionReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	amount, err := parseAmount(args.Amount)
	if err != nil {
		return err
	}
	referrer, err := parseOptAddress(args.Referrer)
	if err != nil {
		return err
	}
	if err := s.vm.EnterAuction(caller, amount, referrer); err != nil {
		return err
	}
	reply.Day = s.vm.CurrentDay()
	return nil
}

type CollectAuctionTokensArgs struct {
	Caller string `json:"caller"`
	Day    uint64 `json:"day"`
}

type CollectAuctionTokensReply struct {
	Tokens string `json:"tokens"`
}

func (s *Service) CollectAuctionTokens(_ *http.Request, args *CollectAuctionTokensArgs, reply *CollectAuctionTokensReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	tokens, err := s.vm.CollectAuctionTokens(caller, args.Day)
	if err != nil {
		return err
	}
	reply.Tokens = tokens.String()
	return nil
}

type OpenStakeArgs struct {
	Caller string `json:"caller"`
	Tokens string `json:"tokens"`
	Days   uint64 `json:"days"`
}

func (s *Service) OpenStake(_ *http.Request, args *OpenStakeArgs, reply *StakeReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	tokens, err := parseAmount(args.Tokens)
	if err != nil {
		return err
	}
	stake, err := s.vm.OpenStake(caller, tokens, args.Days)
	if err != nil {
		return err
	}
	*reply = stakeReply(stake, nil)
	return nil
}

type CollectStakeArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
}

type CollectStakeReply struct {
	Payout string `json:"payout"`
}

func (s *Service) CollectStake(_ *http.Request, args *CollectStakeArgs, reply *CollectStakeReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	payout, err := s.vm.CollectStake(caller, args.StakeID)
	if err != nil {
		return err
	}
	reply.Payout = payout.String()
	return nil
}

type ListStakeArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
	Price   string `json:"price"`
}

type AckReply struct {
	Success bool `json:"success"`
}

func (s *Service) ListStakeForSale(_ *http.Request, args *ListStakeArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	price, err := parseAmount(args.Price)
	if err != nil {
		return err
	}
	if err := s.vm.ListStakeForSale(caller, args.StakeID, price); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type CancelStakeSaleArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
}

func (s *Service) CancelStakeSale(_ *http.Request, args *CancelStakeSaleArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	if err := s.vm.CancelStakeSale(caller, args.StakeID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type BuyStakeArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
	Offered string `json:"offered"`
}

func (s *Service) BuyStake(_ *http.Request, args *BuyStakeArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	offered, err := parseAmount(args.Offered)
	if err != nil {
		return err
	}
	if err := s.vm.BuyStake(caller, args.StakeID, offered); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type RequestLoanArgs struct {
	Caller    string `json:"caller"`
	StakeID   uint64 `json:"stakeId"`
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
	Duration  uint64 `json:"duration"`
}

func (s *Service) RequestLoan(_ *http.Request, args *RequestLoanArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	principal, err := parseAmount(args.Principal)
	if err != nil {
		return err
	}
	interest, err := parseAmount(args.Interest)
	if err != nil {
		return err
	}
	if err := s.vm.RequestLoan(caller, args.StakeID, principal, interest, args.Duration); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type CancelLoanRequestArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
}

func (s *Service) CancelLoanRequest(_ *http.Request, args *CancelLoanRequestArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	if err := s.vm.CancelLoanRequest(caller, args.StakeID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type FillLoanArgs struct {
	Caller  string `json:"caller"`
	StakeID uint64 `json:"stakeId"`
}

func (s *Service) FillLoan(_ *http.Request, args *FillLoanArgs, reply *AckReply) error {
	caller, err := parseAddress(args.Caller)
	if err != nil {
		return err
	}
	if err := s.vm.FillLoan(caller, args.StakeID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type RepayLoanArgs struct {
	StakeID uint64 `json:"stakeId"`
}

func (s *Service) RepayLoan(_ *http.Request, args *RepayLoanArgs, reply *AckReply) error {
	if err := s.vm.RepayLoan(args.StakeID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}
