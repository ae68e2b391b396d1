// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/btcspv/node/block"
	"github.com/btcspv/node/nodeerr"
	"github.com/decred/dcrd/lru"
)

// seenCacheSize bounds the LRU of recently-seen transaction hashes that the
// chain updater consults, under the UTXO lock, to fast-drop duplicates.
const seenCacheSize = 20000

// UTXOSet maps an outpoint to the output it still carries, plus the list of
// pending (unconfirmed) transactions the wallet is tracking.
type UTXOSet struct {
	outputs map[block.Outpoint]*block.Output
	pending []*block.Transaction
	seen    lru.Cache
}

// NewUTXOSet returns an empty UTXO set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{
		outputs: make(map[block.Outpoint]*block.Output),
		seen:    lru.NewCache(seenCacheSize),
	}
}

// Lookup returns the output at op, or ok=false if it is unspent-unknown
// (either never existed or already spent).
func (u *UTXOSet) Lookup(op block.Outpoint) (*block.Output, bool) {
	out, ok := u.outputs[op]
	return out, ok
}

// ApplyBlock removes every outpoint spent by the block's transactions and
// inserts every output they create; it also drops any pending transaction
// that appears in the block. Applying the same block twice is a no-op on
// the outputs (duplicate inserts overwrite identically, duplicate removes
// are idempotent), matching the idempotency requirement of spec section 5.
func (u *UTXOSet) ApplyBlock(b *block.Block) {
	for _, tx := range b.Transactions {
		u.dropPendingMatching(tx)

		for _, in := range tx.Inputs {
			delete(u.outputs, in.PrevOutpoint)
		}
		txid := tx.TxID()
		for i, out := range tx.Outputs {
			op := block.Outpoint{Hash: txid, Index: uint32(i)}
			u.outputs[op] = out
		}
	}
}

// dropPendingMatching removes from the pending list every transaction whose
// txid equals confirmed's txid.
func (u *UTXOSet) dropPendingMatching(confirmed *block.Transaction) {
	confirmedID := confirmed.TxID()
	remaining := u.pending[:0]
	for _, p := range u.pending {
		if p.TxID() == confirmedID {
			continue
		}
		remaining = append(remaining, p)
	}
	u.pending = remaining
}

// AddPendingIfNew appends tx to the pending list unless an existing pending
// transaction already spends the same outpoints, returning false in that
// case (spec section 4.7: "if already pending ... drop").
func (u *UTXOSet) AddPendingIfNew(tx *block.Transaction) bool {
	for _, p := range u.pending {
		if p.SameOutpoints(tx) {
			return false
		}
	}
	u.pending = append(u.pending, tx)
	return true
}

// Pending returns the current pending transactions.
func (u *UTXOSet) Pending() []*block.Transaction {
	return u.pending
}

// HasSeen reports whether hash (hex string form) has already been recorded
// by MarkSeen. Like every UTXOSet method it runs under the caller's UTXO
// lock; the chain updater uses it to drop a transaction it already handled.
func (u *UTXOSet) HasSeen(hash string) bool {
	return u.seen.Contains(hash)
}

// MarkSeen records hash in the dedup cache.
func (u *UTXOSet) MarkSeen(hash string) {
	u.seen.Add(hash)
}

// BalanceByHash160 sums the value of every unspent output whose pk-script
// is a P2PKH script paying hash160 (spec section 3, "Balance").
func (u *UTXOSet) BalanceByHash160(hash160 []byte) int64 {
	var total int64
	for _, out := range u.outputs {
		h, ok := block.ExtractP2PKHHash160(out.PkScript)
		if ok && equalBytes(h, hash160) {
			total += out.Value
		}
	}
	return total
}

// PendingBalanceByHash160 sums the value of outputs in pending transactions
// paying hash160, used to report an account's unconfirmed balance.
func (u *UTXOSet) PendingBalanceByHash160(hash160 []byte) int64 {
	var total int64
	for _, tx := range u.pending {
		for _, out := range tx.Outputs {
			h, ok := block.ExtractP2PKHHash160(out.PkScript)
			if ok && equalBytes(h, hash160) {
				total += out.Value
			}
		}
	}
	return total
}

// OutputsByHash160 returns every unspent output paying hash160, used by the
// wallet to select inputs for a new transaction.
func (u *UTXOSet) OutputsByHash160(hash160 []byte) []UnspentOutput {
	var result []UnspentOutput
	for op, out := range u.outputs {
		h, ok := block.ExtractP2PKHHash160(out.PkScript)
		if ok && equalBytes(h, hash160) {
			result = append(result, UnspentOutput{Outpoint: op, Output: out})
		}
	}
	return result
}

// UnspentOutput pairs an outpoint with the output it still carries.
type UnspentOutput struct {
	Outpoint block.Outpoint
	Output   *block.Output
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DeriveUTXO rebuilds a UTXO set from scratch by replaying every full block
// in the tree from genesis to tip, in height order. It runs at every
// startup (no UTXO set is persisted to disk), complementing the
// incremental ApplyBlock used at steady state (spec section 9, grounded on
// the more complete variant of the original's block_chain.rs::get_utxo).
func DeriveUTXO(c *Chain, tipIdx uint64) (*UTXOSet, error) {
	var path []uint64
	idx := tipIdx
	for {
		path = append(path, idx)
		node, ok := c.NodeAt(idx)
		if !ok {
			return nil, nodeerr.New(nodeerr.NodeChainReferenceNotFound, "broken chain while deriving utxo")
		}
		if !node.HasParent {
			break
		}
		idx = node.ParentIndex
	}

	u := NewUTXOSet()
	applied := 0
	for i := len(path) - 1; i >= 0; i-- {
		node, _ := c.NodeAt(path[i])
		if !node.HasFullData {
			continue
		}
		u.ApplyBlock(&node.Block)
		applied++
	}
	log.Debugf("derived utxo set from %d full blocks (%d nodes walked)", applied, len(path))
	return u, nil
}
