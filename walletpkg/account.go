// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletpkg implements the account model, P2PKH address
// derivation, and SIGHASH_ALL transaction signing the node uses to spend
// its own funds (spec section 4.8).
package walletpkg

import (
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/btcspv/node/hashcrypto"
	"github.com/btcspv/node/nodeerr"
)

// testNet3PubKeyHashAddrID is the version byte Base58Check addresses use on
// Bitcoin testnet3 (spec section 8: "A[1..21] = RIPEMD160(SHA256(P))").
const testNet3PubKeyHashAddrID = 0x6f

// Account is one keypair the wallet controls, plus the P2PKH address
// derived from its public key.
type Account struct {
	Name       string
	PrivateKey [32]byte
	PublicKey  [33]byte // compressed secp256k1 public key
	Address    string
	AddressRaw [25]byte // version(1) + hash160(20) + checksum(4), spec section 6's binary address field
	Hash160    [20]byte
}

// NewAccount generates a fresh secp256k1 keypair and derives its testnet3
// P2PKH address.
func NewAccount(name string) (*Account, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.CannotSign, "generate key", err)
	}
	var raw [32]byte
	copy(raw[:], priv.Serialize())
	return accountFromPrivateKey(name, raw)
}

// AccountFromPrivateKey rebuilds an account from a raw 32-byte private key,
// validating it decodes to a point on the curve.
func AccountFromPrivateKey(name string, priv [32]byte) (*Account, error) {
	return accountFromPrivateKey(name, priv)
}

func accountFromPrivateKey(name string, raw [32]byte) (*Account, error) {
	privKey, pubKey := btcec.PrivKeyFromBytes(raw[:])
	if privKey.Key.IsZero() {
		return nil, nodeerr.New(nodeerr.InvalidPrivateKey, "private key is not a valid scalar")
	}

	var compressed [33]byte
	copy(compressed[:], pubKey.SerializeCompressed())

	h160 := hashcrypto.Hash160(compressed[:])
	if len(h160) != 20 {
		return nil, nodeerr.New(nodeerr.CouldNotHash, "hash160 of public key has unexpected length")
	}
	var hash160 [20]byte
	copy(hash160[:], h160)

	address := hashcrypto.Base58CheckEncode(testNet3PubKeyHashAddrID, hash160[:])

	var rawAddr [25]byte
	rawAddr[0] = testNet3PubKeyHashAddrID
	copy(rawAddr[1:21], hash160[:])
	checksum := hashcrypto.DoubleSHA256(rawAddr[:21])
	copy(rawAddr[21:25], checksum[:4])

	a := &Account{Name: name, PublicKey: compressed, Address: address, AddressRaw: rawAddr, Hash160: hash160}
	copy(a.PrivateKey[:], raw[:])
	return a, nil
}

// AddressFromString validates addr as a testnet3 Base58Check P2PKH address
// and returns its hash160, or InvalidAddress.
func AddressFromString(addr string) ([20]byte, error) {
	var out [20]byte
	version, payload, err := hashcrypto.Base58CheckDecode(addr)
	if err != nil {
		return out, nodeerr.Wrap(nodeerr.InvalidAddress, "decode address", err)
	}
	if version != testNet3PubKeyHashAddrID {
		return out, nodeerr.New(nodeerr.InvalidAddress, fmt.Sprintf("unexpected address version 0x%02x", version))
	}
	if len(payload) != 20 {
		return out, nodeerr.New(nodeerr.InvalidAddress, "address payload is not 20 bytes")
	}
	copy(out[:], payload)
	return out, nil
}

// randomNonce is exposed for tests that want a fresh 32-byte secret without
// going through NewAccount.
func randomNonce() ([32]byte, error) {
	var b [32]byte
	_, err := rand.Read(b[:])
	return b, err
}
