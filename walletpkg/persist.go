// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletpkg

import (
	"io"

	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// noSelection is the sentinel written for Selected when no account is
// currently selected (spec section 6: "u64::MAX = none").
const noSelection = ^uint64(0)

// Serialize writes the wallet blob: CompactSize account count, then one
// record per account (name, 32-byte private key, 33-byte public key,
// 25-byte Base58Check-decoded address, address string), then the
// selected-account index (spec section 6: "25-byte address plus its
// string form").
func (w *Wallet) Serialize(out io.Writer) error {
	if err := wireenc.WriteVarInt(out, uint64(len(w.Accounts))); err != nil {
		return err
	}
	for _, a := range w.Accounts {
		if err := wireenc.WriteVarString(out, a.Name); err != nil {
			return err
		}
		if _, err := out.Write(a.PrivateKey[:]); err != nil {
			return err
		}
		if _, err := out.Write(a.PublicKey[:]); err != nil {
			return err
		}
		if _, err := out.Write(a.AddressRaw[:]); err != nil {
			return err
		}
		if err := wireenc.WriteVarString(out, a.Address); err != nil {
			return err
		}
	}

	selected := noSelection
	if w.Selected != nil {
		selected = uint64(*w.Selected)
	}
	return wireenc.WriteUint64LE(out, selected)
}

// maxWalletAccounts bounds the account count read from a wallet blob.
const maxWalletAccounts = 1_000_000

// maxAccountNameLen bounds an account name read from a wallet blob.
const maxAccountNameLen = 256

// maxAddressLen bounds the address string read from a wallet blob.
const maxAddressLen = 128

// DeserializeWallet reads a wallet blob written by Serialize.
func DeserializeWallet(r io.Reader) (*Wallet, error) {
	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob account count", err)
	}
	if n > maxWalletAccounts {
		return nil, nodeerr.New(nodeerr.RequestedDataTooBig, "wallet blob declares too many accounts")
	}

	w := &Wallet{Accounts: make([]*Account, n)}
	for i := range w.Accounts {
		a := &Account{}
		name, err := wireenc.ReadVarString(r, maxAccountNameLen)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob account name", err)
		}
		a.Name = name

		priv, err := wireenc.ReadFixedBytes(r, 32)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob private key", err)
		}
		copy(a.PrivateKey[:], priv)

		pub, err := wireenc.ReadFixedBytes(r, 33)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob public key", err)
		}
		copy(a.PublicKey[:], pub)

		rawAddr, err := wireenc.ReadFixedBytes(r, 25)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob address bytes", err)
		}
		copy(a.AddressRaw[:], rawAddr)
		copy(a.Hash160[:], a.AddressRaw[1:21])

		addr, err := wireenc.ReadVarString(r, maxAddressLen)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob address", err)
		}
		a.Address = addr

		w.Accounts[i] = a
	}

	selected, err := wireenc.ReadUint64LE(r)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.InDeserialization, "wallet blob selected index", err)
	}
	if selected != noSelection {
		idx := int(selected)
		if idx < 0 || idx >= len(w.Accounts) {
			return nil, nodeerr.New(nodeerr.InDeserialization, "wallet blob selected index out of range")
		}
		w.Selected = &idx
	}
	return w, nil
}
