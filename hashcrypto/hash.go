// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashcrypto implements the node's hashing and address-encoding
// primitives: double SHA-256, RIPEMD160(SHA256) ("hash160"), and Base58Check,
// grounded on the same stack btcd-family nodes use (golang.org/x/crypto's
// ripemd160 and btcutil's base58 alphabet).
package hashcrypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 ripemd160 is required by the Bitcoin hash160 scheme
)

// DoubleSHA256 returns sha256(sha256(b)), the hash used for header, block
// and transaction identities and for the message checksum.
func DoubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Hash160 returns RIPEMD160(SHA256(b)), the 20-byte digest committed to by a
// P2PKH address and script.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	ripe := ripemd160.New()
	ripe.Write(sha[:]) //nolint:errcheck ripemd160.Write never errors
	return ripe.Sum(nil)
}
