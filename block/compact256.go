// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import "math/big"

// Compact256 is the 4-byte packed representation of a 256-bit proof-of-work
// target: one exponent byte followed by a 3-byte significand. It is
// transmitted on the wire as a plain little-endian uint32 (Bitcoin's
// "nBits"), but compares lexicographically on (exponent, significand)
// rather than as a raw integer.
type Compact256 uint32

// Exponent returns the top byte of the packed target.
func (c Compact256) Exponent() byte {
	return byte(c >> 24)
}

// Significand returns the low 3 bytes of the packed target.
func (c Compact256) Significand() uint32 {
	return uint32(c) & 0x00ffffff
}

// Target expands the compact representation into the full 256-bit target
// value: significand * 256^(exponent-3).
func (c Compact256) Target() *big.Int {
	exp := c.Exponent()
	sig := big.NewInt(int64(c.Significand()))

	if exp <= 3 {
		return sig.Rsh(sig, uint(8*(3-exp)))
	}
	return sig.Lsh(sig, uint(8*(exp-3)))
}

// CompactFromTarget packs a big.Int target into its minimal Compact256
// representation, the inverse of Target.
func CompactFromTarget(target *big.Int) Compact256 {
	if target.Sign() == 0 {
		return 0
	}

	tmp := new(big.Int).Set(target)
	exponent := 0
	for tmp.BitLen() > 0 {
		tmp.Rsh(tmp, 8)
		exponent++
	}

	var significand uint32
	if exponent <= 3 {
		significand = uint32(target.Int64()) << uint(8*(3-exponent))
	} else {
		shifted := new(big.Int).Rsh(target, uint(8*(exponent-3)))
		significand = uint32(shifted.Int64())
	}

	// The significand's high bit must be clear, else it's interpreted as
	// a sign and the exponent must grow to absorb an extra byte.
	if significand&0x00800000 != 0 {
		significand >>= 8
		exponent++
	}

	return Compact256(uint32(exponent)<<24 | significand)
}
