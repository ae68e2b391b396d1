// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHashStringDecode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), HashSize, HashSize).Draw(rt, "raw")
		var h Hash
		require.NoError(rt, h.SetBytes(raw))

		decoded, err := NewHashFromStr(h.String())
		require.NoError(rt, err)
		require.True(rt, h.IsEqual(*decoded))
	})
}

func TestHash_IsZero(t *testing.T) {
	var h Hash
	require.True(t, h.IsZero())
	h[0] = 1
	require.False(t, h.IsZero())
}

func TestSetBytes_RejectsWrongLength(t *testing.T) {
	var h Hash
	require.Error(t, h.SetBytes(make([]byte, 31)))
}

func TestNewHashFromStr_RejectsOverlongString(t *testing.T) {
	long := make([]byte, HashSize*2+2)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewHashFromStr(string(long))
	require.ErrorIs(t, err, ErrHashStrSize)
}

func TestNewHashFromStr_PadsShortString(t *testing.T) {
	h, err := NewHashFromStr("ab")
	require.NoError(t, err)
	require.Equal(t, byte(0xab), h[0], "short strings fill the low bytes of the reversed form")
}

func TestString_IsReverseOfInternalByteOrder(t *testing.T) {
	var h Hash
	h[0] = 0xAB // first byte of the internal order is the last displayed
	require.Equal(t, "00000000000000000000000000000000000000000000000000000000000000ab", h.String())
}
