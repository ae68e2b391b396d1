// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/internal/shared"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/walletpkg"
)

// RunUpdater consumes the merged stream of inbound blocks/transactions
// every connected peer forwards and applies each to the node's shared
// state, publishing the matching notification (spec section 4.7). It
// returns once in is closed, which happens once every peer's Run has
// returned.
//
// The lock order UTXO -> chain -> wallet (see internal/shared) is followed
// throughout: a transaction takes the UTXO lock and then the wallet lock, a
// block takes the UTXO, chain and wallet locks in that order, and nothing
// here ever holds a lock across a channel send.
func RunUpdater(in <-chan Inbound, c *shared.Box[*chain.Chain], u *shared.Box[*chain.UTXOSet], w *shared.Box[*walletpkg.Wallet], b *Broadcaster, bus *notify.Bus) {
	for msg := range in {
		switch {
		case msg.Tx != nil:
			handleTx(msg.FromAddr, msg.Tx, u, w, b, bus)
		case msg.Block != nil:
			handleBlock(msg.Block, c, u, w, bus)
		}
	}
}

// handleTx drops tx if an identical-outpoint transaction is already
// pending, otherwise records it, relays it to every other peer, and, if it
// pays one of the wallet's accounts, publishes TransactionOfAccountReceived
// (spec section 4.7).
func handleTx(fromAddr string, tx *block.Transaction, u *shared.Box[*chain.UTXOSet], w *shared.Box[*walletpkg.Wallet], b *Broadcaster, bus *notify.Bus) {
	txid := tx.TxID()
	added := shared.With2(u, func(set *chain.UTXOSet) bool {
		if set.HasSeen(txid.String()) {
			return false
		}
		set.MarkSeen(txid.String())
		return set.AddPendingIfNew(tx)
	})
	if !added {
		return
	}

	b.Broadcast(fromAddr, tx)

	owner := shared.With2(w, func(wal *walletpkg.Wallet) *walletpkg.Account {
		return wal.OwnerOf(tx)
	})
	if owner == nil {
		return
	}

	bus.Publish(notify.Event{
		Kind:        notify.TransactionOfAccountReceived,
		AccountName: owner.Name,
		TxID:        txid.String(),
	})
}

// handleBlock applies b to the UTXO set and appends it to the chain,
// publishing TransactionOfAccountInNewBlock for every pending transaction
// of ours it confirms and NewBlockAddedToTheBlockchain once the block is
// stored. Applying the same block twice is accepted silently: both
// UTXOSet.ApplyBlock and Chain.UpdateBlock are idempotent (spec section 7).
func handleBlock(b *block.Block, c *shared.Box[*chain.Chain], u *shared.Box[*chain.UTXOSet], w *shared.Box[*walletpkg.Wallet], bus *notify.Bus) {
	owned := shared.With2(u, func(set *chain.UTXOSet) []*block.Transaction {
		owned := ownedPendingInBlock(set, b)
		set.ApplyBlock(b)
		return owned
	})

	err := shared.With2(c, func(ch *chain.Chain) error {
		if _, ok := ch.IndexOf(b.Hash()); ok {
			return ch.UpdateBlock(b)
		}
		if _, err := ch.AppendHeader(&b.Header); err != nil {
			return err
		}
		return ch.UpdateBlock(b)
	})
	if err != nil {
		log.Warnf("dropping block %s: %v", b.Hash(), err)
		return
	}

	for _, tx := range owned {
		owner := shared.With2(w, func(wal *walletpkg.Wallet) *walletpkg.Account {
			return wal.OwnerOf(tx)
		})
		if owner == nil {
			continue
		}
		txid := tx.TxID()
		bus.Publish(notify.Event{
			Kind:        notify.TransactionOfAccountInNewBlock,
			AccountName: owner.Name,
			TxID:        txid.String(),
		})
	}

	hash := b.Hash()
	bus.Publish(notify.Event{Kind: notify.NewBlockAddedToTheBlockchain, BlockHash: hash.String()})
}

// ownedPendingInBlock returns the subset of set's pending transactions that
// b confirms, captured before ApplyBlock drops them from the pending list.
func ownedPendingInBlock(set *chain.UTXOSet, b *block.Block) []*block.Transaction {
	var owned []*block.Transaction
	for _, p := range set.Pending() {
		pid := p.TxID()
		for _, tx := range b.Transactions {
			if tx.TxID() == pid {
				owned = append(owned, p)
				break
			}
		}
	}
	return owned
}
