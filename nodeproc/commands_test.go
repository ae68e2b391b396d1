// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodeproc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/config"
	"github.com/btcspv/node/internal/shared"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/peer"
	"github.com/btcspv/node/walletpkg"
)

// eventCollector is a test Subscriber recording every event published, used
// to assert on the notifications the command layer produces.
type eventCollector struct {
	mu     sync.Mutex
	events []notify.Event
}

func newEventCollector() *eventCollector {
	return &eventCollector{}
}

func (c *eventCollector) Notify(ev notify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *eventCollector) of(kind notify.Kind) []notify.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []notify.Event
	for _, ev := range c.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// fundedNode builds a Node with a funded account (one coinbase-like output
// paying fromAcct) selected in its wallet, wired to a collecting bus.
func fundedNode(t *testing.T, fromAcct *walletpkg.Account, value int64) (*Node, *eventCollector) {
	t.Helper()

	collector := newEventCollector()
	bus := notify.NewBus()
	bus.Subscribe(collector)

	u := chain.NewUTXOSet()
	u.ApplyBlock(&block.Block{
		Transactions: []*block.Transaction{{
			Version: 1,
			Inputs:  []*block.Input{{PrevOutpoint: block.Outpoint{Index: 0xffffffff}}},
			Outputs: []*block.Output{{Value: value, PkScript: block.P2PKHScript(fromAcct.Hash160[:])}},
		}},
	})

	w := walletpkg.NewWallet()
	w.AddAccount(fromAcct)

	n := &Node{
		cfg:         &config.Config{},
		bus:         bus,
		utxoBox:     shared.NewBox(u),
		walletBox:   shared.NewBox(w),
		broadcaster: peer.NewBroadcaster(),
	}
	return n, collector
}

func mustAccount(t *testing.T, name string) *walletpkg.Account {
	t.Helper()
	acct, err := walletpkg.NewAccount(name)
	require.NoError(t, err)
	return acct
}

func TestSend_SucceedsAndPublishesSuccessNotification(t *testing.T) {
	from := mustAccount(t, "payer")
	to := mustAccount(t, "payee")
	n, collector := fundedNode(t, from, 10000)

	err := n.Send(to.Address, 4000, 1000)
	require.NoError(t, err)

	sent := collector.of(notify.SuccessfullySentTransaction)
	require.Len(t, sent, 1)
	require.NotEmpty(t, sent[0].TxID)
	require.Empty(t, collector.of(notify.NotEnoughFunds))
}

// TestSend_InsufficientFunds_PublishesNotEnoughFunds covers spec section 8
// scenario 7 at the command layer: a 5000-satoshi UTXO cannot cover
// amount=4000 plus fee=2000.
func TestSend_InsufficientFunds_PublishesNotEnoughFunds(t *testing.T) {
	from := mustAccount(t, "payer")
	to := mustAccount(t, "payee")
	n, collector := fundedNode(t, from, 5000)

	err := n.Send(to.Address, 4000, 2000)
	require.Error(t, err)
	require.True(t, nodeerr.Is(err, nodeerr.NotEnoughFunds))

	require.Len(t, collector.of(notify.NotEnoughFunds), 1)
	require.Empty(t, collector.of(notify.SuccessfullySentTransaction))
}

func TestSend_InvalidAddress_PublishesInvalidAddressEnter(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 5000)

	err := n.Send("not-a-valid-address", 1000, 100)
	require.Error(t, err)
	require.Len(t, collector.of(notify.InvalidAddressEnter), 1)
}

func TestCreateAccount_RegistersAndPublishes(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 5000)

	err := n.CreateAccount("savings")
	require.NoError(t, err)

	w := n.walletBox.Lock()
	names := make([]string, len((*w).Accounts))
	for i, a := range (*w).Accounts {
		names[i] = a.Name
	}
	n.walletBox.Unlock()
	require.Contains(t, names, "savings")

	registered := collector.of(notify.RegisterWalletAccount)
	require.Len(t, registered, 1)
	require.Equal(t, "savings", registered[0].AccountName)
}

func TestCreateAccount_DuplicateNamePublishesAccountCreationFail(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 5000)

	err := n.CreateAccount("payer")
	require.Error(t, err)
	require.Len(t, collector.of(notify.AccountCreationFail), 1)
}

func TestImportAccount_RejectsMalformedHex(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 5000)

	err := n.ImportAccount("imported", "not-hex")
	require.Error(t, err)
	require.True(t, nodeerr.Is(err, nodeerr.InvalidPrivateKey))
	require.Len(t, collector.of(notify.InvalidPrivateKeyEnter), 1)
}

func TestSelectAccount_UpdatesSelectionAndPublishes(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 5000)
	require.NoError(t, n.CreateAccount("savings"))

	err := n.SelectAccount("savings")
	require.NoError(t, err)

	w := n.walletBox.Lock()
	selected := (*w).SelectedAccount()
	n.walletBox.Unlock()
	require.Equal(t, "savings", selected.Name)

	updated := collector.of(notify.UpdatedSelectedAccount)
	require.Len(t, updated, 1)
	require.Equal(t, "savings", updated[0].AccountName)
}

func TestSelectAccount_UnknownNameReturnsInvalidAddress(t *testing.T) {
	from := mustAccount(t, "payer")
	n, _ := fundedNode(t, from, 5000)

	err := n.SelectAccount("nobody")
	require.Error(t, err)
	require.True(t, nodeerr.Is(err, nodeerr.InvalidAddress))
}

func TestGetBalance_PublishesLoadAvailableBalance(t *testing.T) {
	from := mustAccount(t, "payer")
	n, collector := fundedNode(t, from, 7500)

	confirmed, pending, err := n.GetBalance("payer")
	require.NoError(t, err)
	require.Equal(t, int64(7500), confirmed)
	require.Equal(t, int64(0), pending)

	loaded := collector.of(notify.LoadAvailableBalance)
	require.Len(t, loaded, 1)
	require.Equal(t, "payer", loaded[0].AccountName)
	require.Equal(t, int64(7500), loaded[0].Confirmed)
}

func TestGetBalance_UnknownAccountReturnsInvalidAddress(t *testing.T) {
	from := mustAccount(t, "payer")
	n, _ := fundedNode(t, from, 5000)

	_, _, err := n.GetBalance("nobody")
	require.Error(t, err)
	require.True(t, nodeerr.Is(err, nodeerr.InvalidAddress))
}
