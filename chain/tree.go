// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain implements the in-memory block tree, longest-chain
// selection, and the UTXO set with pending-transaction tracking (spec
// sections 3 and 4.7). The tree is a flat node vector indexed by stable
// uint64 handles rather than nested owned pointers, so it has no cycles and
// serializes with a linear walk (spec section 9, "Cyclic chain references").
package chain

import (
	"math/big"
	"sort"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/nodeerr"
)

// noParent marks a root node: it has no parent index.
const noParent = ^uint64(0)

// Node is one entry of the flat tree: a block (full or header-only) plus a
// stable index of its parent.
type Node struct {
	Block       block.Block
	HasFullData bool // false until UpdateBlock promotes a header-only node
	ParentIndex uint64
	HasParent   bool
}

// Work returns the proof-of-work contribution of this node's header:
// 2^256 / (target+1), the same "chainwork" accounting Bitcoin uses to pick
// the tip with the most accumulated work.
func (n *Node) Work() *big.Int {
	target := n.Block.Header.Bits.Target()
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denom := new(big.Int).Add(target, big.NewInt(1))
	numerator := new(big.Int).Lsh(big.NewInt(1), 256)
	return new(big.Int).Div(numerator, denom)
}

// Chain is the rose tree of headers/blocks rooted at genesis, plus the set
// of tip indices tracking every fork's frontier.
type Chain struct {
	nodes     []*Node
	byHash    map[chainhash.Hash]uint64
	tips      map[uint64]struct{}
	cumWork   map[uint64]*big.Int // accumulated work from genesis to this node
}

// New creates a chain rooted at genesis.
func New(genesis *block.Block) *Chain {
	c := &Chain{
		byHash:  make(map[chainhash.Hash]uint64),
		tips:    make(map[uint64]struct{}),
		cumWork: make(map[uint64]*big.Int),
	}
	root := &Node{Block: *genesis, HasFullData: true, HasParent: false}
	c.nodes = append(c.nodes, root)
	c.byHash[genesis.Hash()] = 0
	c.tips[0] = struct{}{}
	c.cumWork[0] = root.Work()
	return c
}

// NodeAt returns the node stored at idx, or ok=false if idx is out of range.
func (c *Chain) NodeAt(idx uint64) (*Node, bool) {
	if idx >= uint64(len(c.nodes)) {
		return nil, false
	}
	return c.nodes[idx], true
}

// IndexOf returns the index of the node with the given header hash.
func (c *Chain) IndexOf(hash chainhash.Hash) (uint64, bool) {
	idx, ok := c.byHash[hash]
	return idx, ok
}

// Len returns the number of nodes in the tree (including genesis).
func (c *Chain) Len() int {
	return len(c.nodes)
}

// Tips returns the identities of every fork's frontier, most work first is
// not guaranteed by this method; see Latest for the canonical tip.
func (c *Chain) Tips() []chainhash.Hash {
	out := make([]chainhash.Hash, 0, len(c.tips))
	for idx := range c.tips {
		out = append(out, c.nodes[idx].Block.Hash())
	}
	return out
}

// Latest returns the index of the tip with the most accumulated work: the
// canonical chain, per spec section 9's fork-choice fix.
func (c *Chain) Latest() (uint64, error) {
	if len(c.tips) == 0 {
		return 0, nodeerr.New(nodeerr.CouldNotFindBlockFarEnough, "chain has no tips")
	}
	var best uint64
	var bestWork *big.Int
	first := true
	for idx := range c.tips {
		w := c.cumWork[idx]
		if first || w.Cmp(bestWork) > 0 {
			best, bestWork, first = idx, w, false
		}
	}
	return best, nil
}

// BlockLocator returns the identities of every current tip, most recently
// appended tip (highest node index) first, for use in a getheaders request
// (spec section 4.4).
func (c *Chain) BlockLocator() []chainhash.Hash {
	idxs := make([]uint64, 0, len(c.tips))
	for idx := range c.tips {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] > idxs[j] })
	out := make([]chainhash.Hash, len(idxs))
	for i, idx := range idxs {
		out[i] = c.nodes[idx].Block.Hash()
	}
	return out
}

// AppendHeader links a header-only node to its parent (identified by
// PrevHash), found anywhere in the tree — a current tip or not. It returns
// the new node's index. The header's proof-of-work is assumed already
// validated by the caller (spec section 4.4 validates before calling this).
func (c *Chain) AppendHeader(h *block.Header) (uint64, error) {
	parentIdx, ok := c.byHash[h.PrevHash]
	if !ok {
		return 0, nodeerr.New(nodeerr.NodeChainReferenceNotFound, "parent header not known")
	}

	hash := h.Hash()
	if existing, ok := c.byHash[hash]; ok {
		// Re-appending a known header is a no-op: no new tip created.
		return existing, nil
	}

	node := &Node{
		Block:       block.Block{Header: *h},
		HasFullData: false,
		ParentIndex: parentIdx,
		HasParent:   true,
	}
	idx := uint64(len(c.nodes))
	c.nodes = append(c.nodes, node)
	c.byHash[hash] = idx

	work := new(big.Int).Add(c.cumWork[parentIdx], node.Work())
	c.cumWork[idx] = work

	delete(c.tips, parentIdx)
	c.tips[idx] = struct{}{}
	return idx, nil
}

// UpdateBlock promotes a header-only node to a full block: full must have
// the same header (and therefore the same identity) as the node already in
// the tree, and its merkle root must verify.
func (c *Chain) UpdateBlock(full *block.Block) error {
	if !full.VerifyMerkleRoot() {
		return nodeerr.New(nodeerr.CouldNotUpdate, "merkle root mismatch")
	}

	idx, ok := c.byHash[full.Hash()]
	if !ok {
		return nodeerr.New(nodeerr.NodeChainReferenceNotFound, "block header not known")
	}

	node := c.nodes[idx]
	if node.HasFullData {
		// Idempotent: re-applying a known full block is a no-op.
		return nil
	}
	node.Block = *full
	node.HasFullData = true
	return nil
}

// HeadersSince returns the header-only or full nodes whose timestamp is
// greater than or equal to t, used to select the set of blocks to download
// (spec section 4.5).
func (c *Chain) HeadersSince(t uint32) []*Node {
	var out []*Node
	for _, n := range c.nodes {
		if n.Block.Header.Timestamp >= t {
			out = append(out, n)
		}
	}
	return out
}

// Height returns the distance from genesis to idx, walking parent links.
func (c *Chain) Height(idx uint64) int {
	height := 0
	for {
		node := c.nodes[idx]
		if !node.HasParent {
			return height
		}
		idx = node.ParentIndex
		height++
	}
}
