// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters the node operates under:
// the testnet magic number, the genesis block, and the proof-of-work limit
// used to bound a header's target.
package chaincfg

import (
	"math/big"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/wire"
)

// Params groups the network-specific constants a node needs.
type Params struct {
	// Name is a human-readable identifier for the network.
	Name string

	// Net is the magic number prefixing every P2P message frame.
	Net wire.BitcoinNet

	// DefaultPort is the TCP port peers on this network listen on.
	DefaultPort string

	// PowLimit is the highest proof-of-work target permitted on this
	// network. Header validation does not consult it: CheckProofOfWork
	// compares a header's hash only with the target in its own Bits.
	PowLimit *big.Int

	// PowLimitBits is PowLimit packed into its Compact256 form.
	PowLimitBits uint32

	// GenesisBlock is the first block of the chain.
	GenesisBlock *block.Block
}

// bigOne is 1 represented as a big.Int, used to build 2^n - 1 limits.
var bigOne = big.NewInt(1)

// testNet3PowLimit is the highest proof-of-work target a testnet3 block
// may have: 2^224 - 1, the same limit Bitcoin testnet3 uses.
var testNet3PowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

// TestNet3Params holds the Bitcoin testnet (version 3) parameters this node
// operates under; it is the only network the node supports (spec section 6).
var TestNet3Params = Params{
	Name:         "testnet3",
	Net:          wire.TestNet3,
	DefaultPort:  "18333",
	PowLimit:     testNet3PowLimit,
	PowLimitBits: 0x1d00ffff,
	GenesisBlock: &testNet3GenesisBlock,
}
