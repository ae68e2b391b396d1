// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletpkg

import (
	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/nodeerr"
)

// Wallet holds every account the node controls and tracks which one is
// selected for the frontend (spec section 6: wallet blob, "selected
// account index").
type Wallet struct {
	Accounts []*Account
	Selected *int // nil means no account selected
}

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{}
}

// AddAccount appends acct and, if it is the wallet's first account, selects
// it.
func (w *Wallet) AddAccount(acct *Account) {
	w.Accounts = append(w.Accounts, acct)
	if w.Selected == nil {
		idx := len(w.Accounts) - 1
		w.Selected = &idx
	}
}

// SelectAccount selects the account named name, or InvalidAddress if none
// matches (reused here as "no such account", since the taxonomy has no
// dedicated kind for it).
func (w *Wallet) SelectAccount(name string) error {
	for i, a := range w.Accounts {
		if a.Name == name {
			idx := i
			w.Selected = &idx
			return nil
		}
	}
	return nodeerr.New(nodeerr.InvalidAddress, "no account named "+name)
}

// SelectedAccount returns the currently selected account, or nil if none is
// selected.
func (w *Wallet) SelectedAccount() *Account {
	if w.Selected == nil {
		return nil
	}
	return w.Accounts[*w.Selected]
}

// OwnerOf returns the first account owning tx (one of its outputs pays
// that account's address), or nil if none of them do (spec section 4.7).
func (w *Wallet) OwnerOf(tx *block.Transaction) *Account {
	for _, a := range w.Accounts {
		if tx.IsOwnedByHash160(a.Hash160[:]) {
			return a
		}
	}
	return nil
}

// Balance returns an account's confirmed and pending balance.
func Balance(u *chain.UTXOSet, a *Account) (confirmed, pending int64) {
	return u.BalanceByHash160(a.Hash160[:]), u.PendingBalanceByHash160(a.Hash160[:])
}
