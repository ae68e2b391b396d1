// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/wire"
)

// maxGetDataBatch bounds how many hashes this node requests in a single
// getdata (spec section 4.5: "cap per getdata = 50,000").
const maxGetDataBatch = 50000

// DownloadBlocks requests the full block for every header-only node in c
// whose timestamp is at least cutoff, validates each as it arrives, and
// applies it to u. It implements spec section 4.5.
func (p *Peer) DownloadBlocks(c *chain.Chain, u *chain.UTXOSet, cutoff uint32, bus *notify.Bus) error {
	var targets []chainhash.Hash
	for _, n := range c.HeadersSince(cutoff) {
		if !n.HasFullData {
			targets = append(targets, n.Block.Hash())
		}
	}
	total := len(targets)
	if total == 0 {
		return nil
	}

	done := 0
	for start := 0; start < total; start += maxGetDataBatch {
		end := start + maxGetDataBatch
		if end > total {
			end = total
		}
		chunk := targets[start:end]

		invList := make([]wire.InvVect, len(chunk))
		for i, h := range chunk {
			invList[i] = wire.InvVect{Type: wire.InvTypeBlock, Hash: h}
		}
		if err := wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgGetData{InvList: invList}); err != nil {
			return nodeerr.Wrap(nodeerr.NodeNotResponding, "send getdata", err)
		}

		for range chunk {
			b, err := p.recvBlock()
			if err != nil {
				return err
			}
			if !validateBlock(b, u) {
				log.Warnf("dropping invalid block %s from %s", b.Hash(), p.Addr)
				continue
			}
			if err := c.UpdateBlock(b); err != nil {
				log.Warnf("dropping block %s from %s: %v", b.Hash(), p.Addr, err)
				continue
			}
			u.ApplyBlock(b)
			done++
			bus.Publish(notify.Event{Kind: notify.ProgressDownloadingBlocks, Done: done, Total: total})
			bus.Publish(notify.Event{Kind: notify.ProgressUpdatingBlockchain, Done: done, Total: total})
		}
	}
	return nil
}

// validateBlock checks the invariants spec section 4.5 requires before a
// block is accepted: merkle root matches, every spent outpoint exists in
// the UTXO at the moment of application, every output value is
// non-negative.
func validateBlock(b *block.Block, u *chain.UTXOSet) bool {
	if !b.VerifyMerkleRoot() {
		return false
	}
	for _, tx := range b.Transactions {
		for _, out := range tx.Outputs {
			if out.Value < 0 {
				return false
			}
		}
	}
	for _, tx := range b.Transactions {
		for _, in := range tx.Inputs {
			if isCoinbaseInput(in.PrevOutpoint) {
				continue
			}
			if _, ok := u.Lookup(in.PrevOutpoint); !ok {
				return false
			}
		}
	}
	return true
}

// isCoinbaseInput reports whether op is the null outpoint a coinbase
// transaction's sole input references.
func isCoinbaseInput(op block.Outpoint) bool {
	return op.Index == 0xffffffff && op.Hash.IsZero()
}

// recvBlock waits for the peer's block reply, answering any ping inline.
func (p *Peer) recvBlock() (*block.Block, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, nodeerr.Wrap(nodeerr.NodeNotResponding, "set read deadline", err)
	}
	defer p.conn.SetReadDeadline(time.Time{})

	for {
		msg, cmd, err := wire.ReadMessage(p.conn, p.cfg.Net)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.NodeNotResponding, "waiting for block", err)
		}
		switch cmd {
		case wire.CmdBlock:
			b, ok := msg.(*wire.MsgBlock)
			if !ok {
				continue
			}
			return &b.Block, nil
		case wire.CmdPing:
			if ping, ok := msg.(*wire.MsgPing); ok {
				_ = wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgPong{Nonce: ping.Nonce})
			}
		default:
		}
	}
}
