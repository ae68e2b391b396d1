// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodeproc

import (
	"encoding/hex"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/walletpkg"
)

// Send spends amount+fee satoshis from the wallet's selected account to
// toAddress, broadcasts the resulting transaction to every connected peer,
// and publishes the notification a frontend renders (spec sections 4.8,
// 6's notification bus). It is the command-layer entry point a frontend
// calls in response to a user's "send" action.
func (n *Node) Send(toAddress string, amount, fee int64) error {
	toHash160, err := walletpkg.AddressFromString(toAddress)
	if err != nil {
		n.bus.Publish(notify.Event{Kind: notify.InvalidAddressEnter})
		return err
	}

	var tx *block.Transaction
	err = func() error {
		// Lock order: UTXO -> wallet (spec section 5).
		u := n.utxoBox.Lock()
		defer n.utxoBox.Unlock()
		w := n.walletBox.Lock()
		defer n.walletBox.Unlock()

		acct := (*w).SelectedAccount()
		if acct == nil {
			return nodeerr.New(nodeerr.InvalidAddress, "no account selected")
		}

		utxos := (*u).OutputsByHash160(acct.Hash160[:])
		built, buildErr := walletpkg.BuildTransaction(acct, utxos, toHash160, amount, fee)
		if buildErr != nil {
			return buildErr
		}
		(*u).AddPendingIfNew(built)
		tx = built
		return nil
	}()
	if err != nil {
		if nodeerr.Is(err, nodeerr.NotEnoughFunds) {
			n.bus.Publish(notify.Event{Kind: notify.NotEnoughFunds})
		}
		return err
	}

	n.broadcaster.Broadcast("", tx)
	n.bus.Publish(notify.Event{Kind: notify.SuccessfullySentTransaction, TxID: tx.TxID().String()})
	return nil
}

// CreateAccount generates a fresh keypair under name, registers it with the
// wallet, and publishes RegisterWalletAccount. A name collision or key
// generation failure publishes AccountCreationFail instead.
func (n *Node) CreateAccount(name string) error {
	acct, err := walletpkg.NewAccount(name)
	if err != nil {
		n.bus.Publish(notify.Event{Kind: notify.AccountCreationFail})
		return err
	}

	w := n.walletBox.Lock()
	for _, existing := range (*w).Accounts {
		if existing.Name == name {
			n.walletBox.Unlock()
			n.bus.Publish(notify.Event{Kind: notify.AccountCreationFail})
			return nodeerr.New(nodeerr.InvalidAddress, "account name already in use: "+name)
		}
	}
	(*w).AddAccount(acct)
	n.walletBox.Unlock()

	n.bus.Publish(notify.Event{Kind: notify.RegisterWalletAccount, AccountName: acct.Name})
	return nil
}

// ImportAccount decodes privKeyHex as a 32-byte private key, registers the
// derived account under name, and publishes RegisterWalletAccount. A
// malformed hex string or invalid key publishes InvalidPrivateKeyEnter.
func (n *Node) ImportAccount(name, privKeyHex string) error {
	raw, err := hex.DecodeString(privKeyHex)
	if err != nil || len(raw) != 32 {
		n.bus.Publish(notify.Event{Kind: notify.InvalidPrivateKeyEnter})
		return nodeerr.New(nodeerr.InvalidPrivateKey, "private key must be 32 bytes of hex")
	}
	var priv [32]byte
	copy(priv[:], raw)

	acct, err := walletpkg.AccountFromPrivateKey(name, priv)
	if err != nil {
		n.bus.Publish(notify.Event{Kind: notify.InvalidPrivateKeyEnter})
		return err
	}

	w := n.walletBox.Lock()
	for _, existing := range (*w).Accounts {
		if existing.Name == name {
			n.walletBox.Unlock()
			n.bus.Publish(notify.Event{Kind: notify.AccountCreationFail})
			return nodeerr.New(nodeerr.InvalidAddress, "account name already in use: "+name)
		}
	}
	(*w).AddAccount(acct)
	n.walletBox.Unlock()

	n.bus.Publish(notify.Event{Kind: notify.RegisterWalletAccount, AccountName: acct.Name})
	return nil
}

// SelectAccount makes name the wallet's selected account and publishes
// UpdatedSelectedAccount, or returns InvalidAddress if no such account
// exists.
func (n *Node) SelectAccount(name string) error {
	w := n.walletBox.Lock()
	err := (*w).SelectAccount(name)
	n.walletBox.Unlock()
	if err != nil {
		return err
	}
	n.bus.Publish(notify.Event{Kind: notify.UpdatedSelectedAccount, AccountName: name})
	return nil
}

// GetBalance returns name's confirmed and pending balance and publishes
// LoadAvailableBalance, or InvalidAddress if no account is named name.
func (n *Node) GetBalance(name string) (confirmed, pending int64, err error) {
	// Lock order: UTXO -> wallet (spec section 5).
	u := n.utxoBox.Lock()
	defer n.utxoBox.Unlock()
	w := n.walletBox.Lock()
	defer n.walletBox.Unlock()

	var account *walletpkg.Account
	for _, a := range (*w).Accounts {
		if a.Name == name {
			account = a
			break
		}
	}
	if account == nil {
		return 0, 0, nodeerr.New(nodeerr.InvalidAddress, "no account named "+name)
	}

	confirmed, pending = walletpkg.Balance(*u, account)
	n.bus.Publish(notify.Event{
		Kind:        notify.LoadAvailableBalance,
		AccountName: name,
		Confirmed:   confirmed,
		Pending:     pending,
	})
	return confirmed, pending, nil
}
