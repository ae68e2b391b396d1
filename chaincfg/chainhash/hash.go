// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the Hash256 type used throughout the node to
// identify headers, transactions and blocks.
package chainhash

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// ErrHashStrSize describes an error that indicates the caller specified
// a hash string that does not have the right number of characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", HashSize*2)

// Hash is a 32-byte double-SHA256 identifier. Internally the bytes are
// stored in the order they are produced by the hash function ("internal
// byte order"); String and the hex helpers below reverse them, matching
// the big-endian convention Bitcoin uses for display.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, which is the display convention used by block explorers and RPCs.
func (h Hash) String() string {
	var reversed Hash
	for i := 0; i < HashSize/2; i++ {
		reversed[i], reversed[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(reversed[:])
}

// CloneBytes returns a copy of the raw bytes (internal byte order, not the
// reversed display order).
func (h Hash) CloneBytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// IsEqual returns true if the two hashes are identical.
func (h Hash) IsEqual(other Hash) bool {
	return h == other
}

// IsZero reports whether every byte of the hash is zero, the convention
// used for an "all-zero stop hash" in getheaders.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// SetBytes sets the hash to the raw bytes (internal byte order). It errors
// if the input is not exactly HashSize bytes.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// NewHash returns a new Hash from a byte slice in internal byte order.
func NewHash(newHash []byte) (*Hash, error) {
	var h Hash
	if err := h.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &h, nil
}

// NewHashFromStr creates a Hash from the byte-reversed hex string used for
// display (e.g. as it would be typed by a user or printed in a log line).
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	if err := Decode(ret, hash); err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hex string encoding of a Hash into dst.
func Decode(dst *Hash, src string) error {
	if len(src) > HashSize*2 {
		return ErrHashStrSize
	}

	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	for i, b := range reversedHash[:HashSize/2] {
		reversedHash[i], reversedHash[HashSize-1-i] = reversedHash[HashSize-1-i], b
	}
	*dst = reversedHash
	return nil
}
