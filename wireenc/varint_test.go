// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wireenc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestVarIntRoundTrip exercises the CompactSize invariant from spec section
// 3: every value round-trips through Write/Read, and its serialized length
// is always one of {1, 3, 5, 9}.
func TestVarIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		val := rapid.Uint64().Draw(rt, "val")

		var buf bytes.Buffer
		require.NoError(rt, WriteVarInt(&buf, val))

		n := VarIntSerializeSize(val)
		require.Contains(rt, []int{1, 3, 5, 9}, n)
		require.Equal(rt, n, buf.Len())

		got, err := ReadVarInt(&buf)
		require.NoError(rt, err)
		require.Equal(rt, val, got)
		require.Zero(rt, buf.Len())
	})
}

// TestVarIntMinimalEncoding checks the boundary values spec section 3
// singles out explicitly (252/253, 0xffff/0x10000, 0xffffffff/0x100000000).
func TestVarIntMinimalEncoding(t *testing.T) {
	cases := []struct {
		val  uint64
		size int
	}{
		{0, 1},
		{252, 1},
		{253, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
	}
	for _, c := range cases {
		require.Equal(t, c.size, VarIntSerializeSize(c.val), "val=%d", c.val)

		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, c.val))
		require.Equal(t, c.size, buf.Len())
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "bytes")

		var buf bytes.Buffer
		require.NoError(rt, WriteVarBytes(&buf, b))

		got, err := ReadVarBytes(&buf, 64, "test")
		require.NoError(rt, err)
		require.Equal(rt, b, got)
	})
}

func TestVarBytesRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarInt(&buf, 100))
	buf.Write(make([]byte, 100))

	_, err := ReadVarBytes(&buf, 10, "payload")
	require.Error(t, err)

	var csErr *CompactSizeError
	require.NotErrorIs(t, err, csErr)
}

func TestVarStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringN(0, 32, -1).Draw(rt, "s")

		var buf bytes.Buffer
		require.NoError(rt, WriteVarString(&buf, s))

		got, err := ReadVarString(&buf, 64)
		require.NoError(rt, err)
		require.Equal(rt, s, got)
	})
}
