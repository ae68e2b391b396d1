// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btcspv/node/block"
)

func coinbaseLikeTx(value int64) *block.Transaction {
	return &block.Transaction{
		Version: 1,
		Inputs: []*block.Input{{
			PrevOutpoint: block.Outpoint{Index: 0xffffffff},
		}},
		Outputs: []*block.Output{{Value: value, PkScript: []byte{0x51}}},
	}
}

// TestApplyBlock_InsertsOutputsAndRemovesSpent covers spec section 8's
// universal UTXO invariant: after applying a block, every input's outpoint
// is gone and every output's outpoint is present.
func TestApplyBlock_InsertsOutputsAndRemovesSpent(t *testing.T) {
	u := NewUTXOSet()

	funding := coinbaseLikeTx(5000)
	fundingOp := block.Outpoint{Hash: funding.TxID(), Index: 0}
	b1 := &block.Block{Transactions: []*block.Transaction{funding}}
	u.ApplyBlock(b1)

	out, ok := u.Lookup(fundingOp)
	require.True(t, ok)
	require.Equal(t, int64(5000), out.Value)

	spend := &block.Transaction{
		Version: 1,
		Inputs:  []*block.Input{{PrevOutpoint: fundingOp}},
		Outputs: []*block.Output{{Value: 4000, PkScript: []byte{0x51}}},
	}
	spendOp := block.Outpoint{Hash: spend.TxID(), Index: 0}
	b2 := &block.Block{Transactions: []*block.Transaction{spend}}
	u.ApplyBlock(b2)

	_, ok = u.Lookup(fundingOp)
	require.False(t, ok, "spent outpoint must be gone")

	got, ok := u.Lookup(spendOp)
	require.True(t, ok)
	require.Equal(t, int64(4000), got.Value)
}

func TestApplyBlock_IsIdempotent(t *testing.T) {
	u := NewUTXOSet()
	tx := coinbaseLikeTx(1000)
	b := &block.Block{Transactions: []*block.Transaction{tx}}

	u.ApplyBlock(b)
	u.ApplyBlock(b)

	op := block.Outpoint{Hash: tx.TxID(), Index: 0}
	out, ok := u.Lookup(op)
	require.True(t, ok)
	require.Equal(t, int64(1000), out.Value)
}

func TestApplyBlock_DropsMatchingPending(t *testing.T) {
	u := NewUTXOSet()
	tx := coinbaseLikeTx(1000)

	require.True(t, u.AddPendingIfNew(tx))
	require.Len(t, u.Pending(), 1)

	b := &block.Block{Transactions: []*block.Transaction{tx}}
	u.ApplyBlock(b)

	require.Empty(t, u.Pending())
}

func TestAddPendingIfNew_RejectsSameOutpoints(t *testing.T) {
	u := NewUTXOSet()
	op := block.Outpoint{Index: 1}
	tx1 := &block.Transaction{Inputs: []*block.Input{{PrevOutpoint: op}}, Outputs: []*block.Output{{Value: 1}}}
	tx2 := &block.Transaction{Inputs: []*block.Input{{PrevOutpoint: op}}, Outputs: []*block.Output{{Value: 2}}}

	require.True(t, u.AddPendingIfNew(tx1))
	require.False(t, u.AddPendingIfNew(tx2))
	require.Len(t, u.Pending(), 1)
}

func TestBalanceByHash160_SumsMatchingOutputsOnly(t *testing.T) {
	u := NewUTXOSet()
	mine := make([]byte, 20)
	mine[0] = 0xAA
	other := make([]byte, 20)
	other[0] = 0xBB

	tx := &block.Transaction{
		Version: 1,
		Outputs: []*block.Output{
			{Value: 1000, PkScript: block.P2PKHScript(mine)},
			{Value: 2000, PkScript: block.P2PKHScript(other)},
		},
	}
	u.ApplyBlock(&block.Block{Transactions: []*block.Transaction{tx}})

	require.Equal(t, int64(1000), u.BalanceByHash160(mine))
	require.Equal(t, int64(2000), u.BalanceByHash160(other))
}

func TestDeriveUTXO_ReplaysFromGenesis(t *testing.T) {
	genesisTx := coinbaseLikeTx(5000)
	genesis := &block.Block{
		Header:       block.Header{Bits: block.Compact256(0x207fffff)},
		Transactions: []*block.Transaction{genesisTx},
	}
	genesis.Header.MerkleRoot = block.MerkleRoot(genesis.Txids())

	c := New(genesis)

	child := &block.Header{
		Version:   1,
		PrevHash:  genesis.Hash(),
		Timestamp: 2000,
		Bits:      block.Compact256(0x207fffff),
	}
	tx := coinbaseLikeTx(1000)
	childBlock := &block.Block{Header: *child, Transactions: []*block.Transaction{tx}}
	childBlock.Header.MerkleRoot = block.MerkleRoot(childBlock.Txids())
	child.MerkleRoot = childBlock.Header.MerkleRoot

	idx, err := c.AppendHeader(child)
	require.NoError(t, err)
	require.NoError(t, c.UpdateBlock(childBlock))

	u, err := DeriveUTXO(c, idx)
	require.NoError(t, err)

	_, ok := u.Lookup(block.Outpoint{Hash: genesisTx.TxID(), Index: 0})
	require.True(t, ok)
	_, ok = u.Lookup(block.Outpoint{Hash: tx.TxID(), Index: 0})
	require.True(t, ok)
}
