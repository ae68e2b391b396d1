// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"testing"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genHeader(rt *rapid.T) Header {
	var prev, root chainhash.Hash
	copy(prev[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "prev"))
	copy(root[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "root"))
	return Header{
		Version:    rapid.Int32().Draw(rt, "version"),
		PrevHash:   prev,
		MerkleRoot: root,
		Timestamp:  rapid.Uint32().Draw(rt, "timestamp"),
		Bits:       Compact256(rapid.Uint32().Draw(rt, "bits")),
		Nonce:      rapid.Uint32().Draw(rt, "nonce"),
	}
}

// TestHeaderRoundTrip covers spec section 8's universal invariant: every
// header round-trips through Serialize/Deserialize and is always exactly
// 80 bytes (the transaction-count suffix lives outside the header proper).
func TestHeaderRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := genHeader(rt)

		var buf bytes.Buffer
		require.NoError(rt, h.Serialize(&buf))
		require.Equal(rt, HeaderSize, buf.Len())

		var got Header
		require.NoError(rt, got.Deserialize(&buf))
		require.Equal(rt, h.Version, got.Version)
		require.Equal(rt, h.PrevHash, got.PrevHash)
		require.Equal(rt, h.MerkleRoot, got.MerkleRoot)
		require.Equal(rt, h.Timestamp, got.Timestamp)
		require.Equal(rt, h.Bits, got.Bits)
		require.Equal(rt, h.Nonce, got.Nonce)
	})
}

func TestHeaderHash_StableAndDependsOnBody(t *testing.T) {
	h1 := Header{Version: 1, Timestamp: 100}
	h2 := Header{Version: 1, Timestamp: 100}
	h3 := Header{Version: 2, Timestamp: 100}

	require.Equal(t, h1.Hash(), h2.Hash())
	require.NotEqual(t, h1.Hash(), h3.Hash())
}

// TestCheckProofOfWork_RequiresHashBelowTarget uses the very easy target
// 0x207fffff (about 2^255, so roughly half of all header hashes meet it)
// with a nonce whose header hash falls below it, and a zero target
// (undefined), which always fails.
func TestCheckProofOfWork_RequiresHashBelowTarget(t *testing.T) {
	easy := Header{Bits: Compact256(0x207fffff), Nonce: 1}
	require.True(t, easy.CheckProofOfWork())

	impossible := Header{Bits: Compact256(0)}
	require.False(t, impossible.CheckProofOfWork())
}
