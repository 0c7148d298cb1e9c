// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"math/big"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestTokenLedgerMintTransfer(t *testing.T) {
	require := require.New(t)

	l := NewTokenLedger()
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	require.NoError(l.Mint(alice, big.NewInt(500)))
	require.Equal(big.NewInt(500), l.BalanceOf(alice))
	require.Equal(big.NewInt(500), l.TotalSupply())

	require.NoError(l.Transfer(alice, bob, big.NewInt(200)))
	require.Equal(big.NewInt(300), l.BalanceOf(alice))
	require.Equal(big.NewInt(200), l.BalanceOf(bob))

	// Supply is unchanged by transfers.
	require.Equal(big.NewInt(500), l.TotalSupply())

	err := l.Transfer(alice, bob, big.NewInt(301))
	require.ErrorIs(err, ErrInsufficientBalance)

	err = l.Transfer(alice, bob, big.NewInt(0))
	require.ErrorIs(err, ErrZeroAmount)
}

func TestTokenLedgerRestore(t *testing.T) {
	require := require.New(t)

	l := NewTokenLedger()
	alice := ids.GenerateTestShortID()
	require.NoError(l.Mint(alice, big.NewInt(100)))

	restored := NewTokenLedger()
	restored.Restore(l.Balances(), l.TotalSupply())
	require.Equal(big.NewInt(100), restored.BalanceOf(alice))
	require.Equal(big.NewInt(100), restored.TotalSupply())
}

func TestBankTransfer(t *testing.T) {
	require := require.New(t)

	b := NewBank()
	alice := ids.GenerateTestShortID()
	pot := ids.GenerateTestShortID()

	require.NoError(b.Credit(alice, big.NewInt(1000)))
	require.NoError(b.Transfer(alice, pot, big.NewInt(750)))
	require.Equal(big.NewInt(250), b.BalanceOf(alice))
	require.Equal(big.NewInt(750), b.BalanceOf(pot))

	err := b.Transfer(alice, pot, big.NewInt(251))
	require.ErrorIs(err, ErrInsufficientBalance)

	// Unknown accounts have a zero balance.
	require.Zero(b.BalanceOf(ids.GenerateTestShortID()).Sign())
}
