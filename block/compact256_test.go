// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCompact256_TestNet3PowLimit exercises the real testnet3 difficulty
// limit (0x1d00ffff), the bits value the genesis block and every easy
// header on the network carries.
func TestCompact256_TestNet3PowLimit(t *testing.T) {
	c := Compact256(0x1d00ffff)
	target := c.Target()

	want := new(big.Int).Lsh(big.NewInt(0xffff), 208)
	require.Equal(t, want, target)

	require.Equal(t, c, CompactFromTarget(target))
}

func TestCompact256_RoundTripSmallExponent(t *testing.T) {
	// exponent <= 3 takes the right-shift branch.
	c := Compact256(0x03123456)
	target := c.Target()
	require.Equal(t, c, CompactFromTarget(target))
}

func TestCompact256_ZeroTarget(t *testing.T) {
	require.Equal(t, Compact256(0), CompactFromTarget(big.NewInt(0)))
}
