// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"testing"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/hashcrypto"
	"github.com/stretchr/testify/require"
)

func TestMerkleRoot_Empty(t *testing.T) {
	require.Equal(t, chainhash.Hash{}, MerkleRoot(nil))
}

func TestMerkleRoot_SingleLeaf(t *testing.T) {
	var leaf chainhash.Hash
	leaf[0] = 0xAB
	require.Equal(t, leaf, MerkleRoot([]chainhash.Hash{leaf}))
}

// TestMerkleRoot_OddCountDuplicatesLast checks the pairing rule from spec
// section 3: an odd-sized level duplicates its last element rather than
// leaving it unpaired.
func TestMerkleRoot_OddCountDuplicatesLast(t *testing.T) {
	a, b, c := leafHash(1), leafHash(2), leafHash(3)

	got := MerkleRoot([]chainhash.Hash{a, b, c})

	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	ab := chainhash.Hash(hashcrypto.DoubleSHA256(buf[:]))

	copy(buf[:32], c[:])
	copy(buf[32:], c[:])
	cc := chainhash.Hash(hashcrypto.DoubleSHA256(buf[:]))

	copy(buf[:32], ab[:])
	copy(buf[32:], cc[:])
	want := chainhash.Hash(hashcrypto.DoubleSHA256(buf[:]))

	require.Equal(t, want, got)
}

// TestBlock_VerifyMerkleRoot covers spec section 8's block invariant:
// merkle_root(B.txs) = B.header.merkle_root.
func TestBlock_VerifyMerkleRoot(t *testing.T) {
	tx := &Transaction{Version: 1, LockTime: 0}
	b := &Block{
		Header:       Header{MerkleRoot: MerkleRoot([]chainhash.Hash{tx.TxID()})},
		Transactions: []*Transaction{tx},
	}
	require.True(t, b.VerifyMerkleRoot())

	b.Header.MerkleRoot[0] ^= 0xff
	require.False(t, b.VerifyMerkleRoot())
}

func leafHash(seed byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = seed
	return h
}
