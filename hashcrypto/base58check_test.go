// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashcrypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testnet3AddressVersion = 0x6f

// TestBase58CheckRoundTrip covers spec section 8's universal invariant:
// Base58Check decode ∘ encode = identity.
func TestBase58CheckRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(rt, "hash160")
		version := byte(rapid.IntRange(0, 255).Draw(rt, "version"))

		addr := Base58CheckEncode(version, payload)

		gotVersion, gotPayload, err := Base58CheckDecode(addr)
		require.NoError(rt, err)
		require.Equal(rt, version, gotVersion)
		require.Equal(rt, payload, gotPayload)
	})
}

func TestBase58CheckDecode_RejectsCorruptedChecksum(t *testing.T) {
	addr := Base58CheckEncode(testnet3AddressVersion, make([]byte, 20))
	corrupted := addr[:len(addr)-1] + "1"
	if corrupted == addr {
		corrupted = addr[:len(addr)-1] + "2"
	}

	_, _, err := Base58CheckDecode(corrupted)
	require.Error(t, err)
}

func TestBase58CheckDecode_RejectsTooShort(t *testing.T) {
	_, _, err := Base58CheckDecode("abc")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

// TestHash160_KnownVector is the hash160 half of spec section 8 scenario 5:
// the address's 20-byte payload equals RIPEMD160(SHA256(pubkey)).
func TestHash160_KnownVector(t *testing.T) {
	pubkey := mustUnhex(t,
		"03BC6D45D2101E9128DE14B5B66883D69CF1C31A50B96FEA2DAD4ED23514924A22")
	h160 := Hash160(pubkey)
	require.Len(t, h160, 20)

	addr := Base58CheckEncode(testnet3AddressVersion, h160)
	require.Equal(t, "mnQLoVaZ3w1NLVmUhfG8hh6WoG3iu7cnNw", addr)
}

func mustUnhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
