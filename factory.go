// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/fees"
)

// VMID is the unique identifier for the auction VM.
var VMID = [32]byte{'a', 'u', 'c', 't', 'i', 'o', 'n', 'v', 'm'}

// Factory creates auction VM instances.
type Factory struct {
	config.Config

	// Admin is the privileged account: it starts the auction, starts
	// the lottery, and may update tunables.
	Admin ids.ShortID

	// Destinations receive routed fees. Unset entries default to the
	// admin account.
	Destinations fees.Destinations
}

// New creates a VM with the factory's configuration backed by an
// in-memory database. Hosts that need persistence construct the VM
// directly with their own database.
func (f *Factory) New(logger log.Logger) (interface{}, error) {
	return New(f.Config, memdb.New(), logger, f.Admin, f.Destinations)
}
