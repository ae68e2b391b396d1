// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"io"
	"math/big"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// rootParentMarker is the CompactSize-encoded parent index a root node
// (genesis) is written with, since it has no parent (spec section 6).
const rootParentMarker = ^uint64(0)

// Serialize writes the chain blob: a header frame of three little-endian
// u64s (tip count, node count, body length), followed by one record per
// node (a has-full-data byte, block bytes, then a CompactSize parent index
// or rootParentMarker), followed by the tip index array (spec section 6,
// "Chain blob"). A header-only node writes its header followed by zero
// transactions.
func (c *Chain) Serialize(w io.Writer) error {
	var body bytes.Buffer
	for _, n := range c.nodes {
		full := byte(0)
		if n.HasFullData {
			full = 1
		}
		if err := wireenc.WriteUint8(&body, full); err != nil {
			return err
		}
		if err := n.Block.Header.Serialize(&body); err != nil {
			return err
		}
		txs := n.Block.Transactions
		if !n.HasFullData {
			txs = nil
		}
		if err := wireenc.WriteVarInt(&body, uint64(len(txs))); err != nil {
			return err
		}
		for _, tx := range txs {
			if err := tx.Serialize(&body); err != nil {
				return err
			}
		}
		parent := rootParentMarker
		if n.HasParent {
			parent = n.ParentIndex
		}
		if err := wireenc.WriteVarInt(&body, parent); err != nil {
			return err
		}
	}

	tipCount := uint64(len(c.tips))
	nodeCount := uint64(len(c.nodes))
	bodyLen := uint64(body.Len())
	for _, v := range []uint64{tipCount, nodeCount, bodyLen} {
		if err := wireenc.WriteUint64LE(w, v); err != nil {
			return err
		}
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	for idx := range c.tips {
		if err := wireenc.WriteUint64LE(w, idx); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a chain blob written by Serialize back into a usable
// Chain, recomputing cumulative work and the hash index as it goes. Only a
// blob whose first node is a root (no parent) is accepted.
func Deserialize(r io.Reader) (*Chain, error) {
	tipCount, err := wireenc.ReadUint64LE(r)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob tip count", err)
	}
	nodeCount, err := wireenc.ReadUint64LE(r)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob node count", err)
	}
	if _, err := wireenc.ReadUint64LE(r); err != nil { // body length, unused on read
		return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob body length", err)
	}

	c := &Chain{
		byHash:  make(map[chainhash.Hash]uint64, nodeCount),
		tips:    make(map[uint64]struct{}, tipCount),
		cumWork: make(map[uint64]*big.Int, nodeCount),
	}

	for i := uint64(0); i < nodeCount; i++ {
		full, err := wireenc.ReadUint8(r)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob full-data flag", err)
		}
		var h block.Header
		if err := h.Deserialize(r); err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob header", err)
		}
		txCount, err := wireenc.ReadVarInt(r)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob tx count", err)
		}
		txs := make([]*block.Transaction, txCount)
		for j := range txs {
			tx := &block.Transaction{}
			if err := tx.Deserialize(r); err != nil {
				return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob transaction", err)
			}
			txs[j] = tx
		}
		parent, err := wireenc.ReadVarInt(r)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob parent index", err)
		}

		node := &Node{
			Block:       block.Block{Header: h, Transactions: txs},
			HasFullData: full != 0,
			HasParent:   parent != rootParentMarker,
			ParentIndex: parent,
		}
		c.nodes = append(c.nodes, node)
		c.byHash[node.Block.Hash()] = i

		work := node.Work()
		if node.HasParent {
			parentWork, ok := c.cumWork[node.ParentIndex]
			if !ok {
				return nil, nodeerr.New(nodeerr.NodeChainReferenceNotFound, "chain blob parent not yet seen")
			}
			work = new(big.Int).Add(parentWork, work)
		}
		c.cumWork[i] = work
	}

	for i := uint64(0); i < tipCount; i++ {
		idx, err := wireenc.ReadUint64LE(r)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "chain blob tip index", err)
		}
		c.tips[idx] = struct{}{}
	}

	if nodeCount == 0 || c.nodes[0].HasParent {
		return nil, nodeerr.New(nodeerr.InDeserialization, "chain blob missing root node")
	}
	return c, nil
}
