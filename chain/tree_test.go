// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btcspv/node/block"
)

func testGenesis() *block.Block {
	return &block.Block{Header: block.Header{Version: 1, Timestamp: 1000, Bits: block.Compact256(0x207fffff)}}
}

func childHeader(t *testing.T, c *Chain, parentIdx uint64, timestamp uint32) *block.Header {
	t.Helper()
	parent, ok := c.NodeAt(parentIdx)
	require.True(t, ok)
	return &block.Header{
		Version:    1,
		PrevHash:   parent.Block.Hash(),
		Timestamp:  timestamp,
		Bits:       block.Compact256(0x207fffff),
		MerkleRoot: block.MerkleRoot(nil),
	}
}

// TestAppendHeader_RepeatIsIdempotent covers spec section 8's universal
// invariant: appending the same block twice leaves the chain unchanged
// (no new tip, no new node).
func TestAppendHeader_RepeatIsIdempotent(t *testing.T) {
	c := New(testGenesis())
	h := childHeader(t, c, 0, 2000)

	idx1, err := c.AppendHeader(h)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	idx2, err := c.AppendHeader(h)
	require.NoError(t, err)
	require.Equal(t, idx1, idx2)
	require.Equal(t, 2, c.Len(), "no new node created on repeat append")

	tips := c.Tips()
	require.Len(t, tips, 1)
}

func TestAppendHeader_UnknownParentFails(t *testing.T) {
	c := New(testGenesis())
	orphan := &block.Header{Timestamp: 9999}
	_, err := c.AppendHeader(orphan)
	require.Error(t, err)
}

func TestLatest_PicksMostAccumulatedWork(t *testing.T) {
	c := New(testGenesis())

	easyChild := childHeader(t, c, 0, 2000)
	easyChild.Bits = block.Compact256(0x207fffff)
	easyIdx, err := c.AppendHeader(easyChild)
	require.NoError(t, err)

	// A second, independent branch off genesis with a harder (smaller
	// target, more work) bits value should out-compete the first.
	harder := &block.Header{
		Version:    1,
		PrevHash:   testGenesis().Hash(),
		Timestamp:  2001,
		Bits:       block.Compact256(0x1d00ffff),
		MerkleRoot: block.MerkleRoot(nil),
	}
	harderIdx, err := c.AppendHeader(harder)
	require.NoError(t, err)
	require.NotEqual(t, easyIdx, harderIdx)

	latest, err := c.Latest()
	require.NoError(t, err)
	require.Equal(t, harderIdx, latest)
}

func TestHeight_WalksParentChain(t *testing.T) {
	c := New(testGenesis())
	require.Equal(t, 0, c.Height(0))

	idx, err := c.AppendHeader(childHeader(t, c, 0, 2000))
	require.NoError(t, err)
	require.Equal(t, 1, c.Height(idx))
}

func TestUpdateBlock_PromotesHeaderOnlyNode(t *testing.T) {
	c := New(testGenesis())
	h := childHeader(t, c, 0, 2000)
	idx, err := c.AppendHeader(h)
	require.NoError(t, err)

	full := &block.Block{Header: *h}
	require.NoError(t, c.UpdateBlock(full))

	node, ok := c.NodeAt(idx)
	require.True(t, ok)
	require.True(t, node.HasFullData)

	// Re-applying is idempotent.
	require.NoError(t, c.UpdateBlock(full))
}

func TestUpdateBlock_RejectsBadMerkleRoot(t *testing.T) {
	c := New(testGenesis())
	h := childHeader(t, c, 0, 2000)
	_, err := c.AppendHeader(h)
	require.NoError(t, err)

	full := &block.Block{
		Header:       *h,
		Transactions: []*block.Transaction{{Version: 1}},
	}
	err = c.UpdateBlock(full)
	require.Error(t, err)
}
