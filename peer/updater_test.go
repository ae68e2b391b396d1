// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/internal/shared"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/walletpkg"
)

func newUpdaterState(t *testing.T) (*shared.Box[*chain.Chain], *shared.Box[*chain.UTXOSet], *shared.Box[*walletpkg.Wallet], *walletpkg.Account) {
	t.Helper()
	genesis := &block.Block{Header: block.Header{Bits: block.Compact256(0x207fffff)}}
	acct, err := walletpkg.AccountFromPrivateKey("mine", [32]byte{9})
	require.NoError(t, err)
	w := walletpkg.NewWallet()
	w.AddAccount(acct)
	return shared.NewBox(chain.New(genesis)), shared.NewBox(chain.NewUTXOSet()), shared.NewBox(w), acct
}

// TestRunUpdater_TxPublishesOwnedTransactionAndRelays covers spec section
// 4.7: an inbound transaction paying a wallet account is recorded as
// pending, relayed to every other peer, and published on the bus.
func TestRunUpdater_TxPublishesOwnedTransactionAndRelays(t *testing.T) {
	c, u, w, acct := newUpdaterState(t)

	bus := notify.NewBus()
	collector := &eventCollector{}
	bus.Subscribe(collector)

	b := NewBroadcaster()
	origin := newTestPeer("origin:1", 4)
	other := newTestPeer("other:1", 4)
	b.Add(origin)
	b.Add(other)

	tx := &block.Transaction{
		Version: 1,
		Inputs:  []*block.Input{{PrevOutpoint: block.Outpoint{Index: 1}}},
		Outputs: []*block.Output{{Value: 1000, PkScript: block.P2PKHScript(acct.Hash160[:])}},
	}

	in := make(chan Inbound, 1)
	in <- Inbound{FromAddr: origin.Addr, Tx: tx}
	close(in)
	RunUpdater(in, c, u, w, b, bus)

	require.Empty(t, origin.cmdCh, "origin peer must not receive its own transaction back")
	require.Len(t, other.cmdCh, 1)

	events := collector.of(notify.TransactionOfAccountReceived)
	require.Len(t, events, 1)
	require.Equal(t, acct.Name, events[0].AccountName)

	pending := shared.With2(u, func(set *chain.UTXOSet) []*block.Transaction { return set.Pending() })
	require.Len(t, pending, 1)
}

// TestRunUpdater_BlockConfirmsPendingAndAppendsChain covers spec section
// 4.7/7: a block confirming a pending owned transaction both applies to
// the UTXO set and publishes the account-in-block notification.
func TestRunUpdater_BlockConfirmsPendingAndAppendsChain(t *testing.T) {
	c, u, w, acct := newUpdaterState(t)

	genesisHash := shared.With2(c, func(ch *chain.Chain) chainhash.Hash {
		idx, err := ch.Latest()
		require.NoError(t, err)
		node, ok := ch.NodeAt(idx)
		require.True(t, ok)
		return node.Block.Hash()
	})

	tx := &block.Transaction{
		Version: 1,
		Inputs:  []*block.Input{{PrevOutpoint: block.Outpoint{Index: 1}}},
		Outputs: []*block.Output{{Value: 1000, PkScript: block.P2PKHScript(acct.Hash160[:])}},
	}
	require.True(t, shared.With2(u, func(set *chain.UTXOSet) bool { return set.AddPendingIfNew(tx) }))

	child := &block.Block{
		Header:       block.Header{Version: 1, PrevHash: genesisHash, Timestamp: 10, Bits: block.Compact256(0x207fffff)},
		Transactions: []*block.Transaction{tx},
	}
	child.Header.MerkleRoot = block.MerkleRoot(child.Txids())

	bus := notify.NewBus()
	collector := &eventCollector{}
	bus.Subscribe(collector)

	in := make(chan Inbound, 1)
	in <- Inbound{Block: child}
	close(in)
	RunUpdater(in, c, u, w, NewBroadcaster(), bus)

	require.Empty(t, shared.With2(u, func(set *chain.UTXOSet) []*block.Transaction { return set.Pending() }))
	require.Len(t, collector.of(notify.TransactionOfAccountInNewBlock), 1)
	require.Len(t, collector.of(notify.NewBlockAddedToTheBlockchain), 1)
	require.Equal(t, 2, shared.With2(c, func(ch *chain.Chain) int { return ch.Len() }))
}
