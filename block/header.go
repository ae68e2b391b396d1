// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block implements the on-chain structures: headers, transactions
// and blocks, plus the merkle tree used to verify a block's transaction
// set against its header (spec section 3, "Block structures").
package block

import (
	"bytes"
	"io"
	"math/big"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/hashcrypto"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// HeaderSize is the number of bytes in the fixed, transaction-count-free
// portion of a header: version(4) + prev(32) + merkle(32) + time(4) +
// bits(4) + nonce(4).
const HeaderSize = 80

// Header is an immutable block header. Its identity is the double-SHA256
// of the 80-byte serialized form, without the trailing transaction-count
// field that appears only when the header rides inside a headers message.
type Header struct {
	Version       int32
	PrevHash      chainhash.Hash
	MerkleRoot    chainhash.Hash
	Timestamp     uint32
	Bits          Compact256
	Nonce         uint32
	TxCount       uint64 // only meaningful when decoded from a headers message
}

// Serialize writes the 80-byte header body (internal order: little-endian
// throughout, including PrevHash and MerkleRoot, which are only
// byte-reversed for display).
func (h *Header) Serialize(w io.Writer) error {
	if err := wireenc.WriteInt32LE(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevHash[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := wireenc.WriteUint32LE(w, h.Timestamp); err != nil {
		return err
	}
	if err := wireenc.WriteUint32LE(w, uint32(h.Bits)); err != nil {
		return err
	}
	return wireenc.WriteUint32LE(w, h.Nonce)
}

// Deserialize reads the 80-byte header body. It does not read the
// transaction-count suffix; callers that need it (the headers message)
// read it separately and set h.TxCount.
func (h *Header) Deserialize(r io.Reader) error {
	var err error
	if h.Version, err = wireenc.ReadInt32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header version", err)
	}
	prev, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header prev hash", err)
	}
	copy(h.PrevHash[:], prev)

	root, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header merkle root", err)
	}
	copy(h.MerkleRoot[:], root)

	if h.Timestamp, err = wireenc.ReadUint32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header timestamp", err)
	}
	bits, err := wireenc.ReadUint32LE(r)
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header bits", err)
	}
	h.Bits = Compact256(bits)

	if h.Nonce, err = wireenc.ReadUint32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "header nonce", err)
	}
	return nil
}

// Bytes returns the 80-byte serialized header body.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	_ = h.Serialize(&buf)
	return buf.Bytes()
}

// Hash returns the header's identity: double-SHA256 of its 80-byte body.
func (h *Header) Hash() chainhash.Hash {
	return chainhash.Hash(hashcrypto.DoubleSHA256(h.Bytes()))
}

// CheckProofOfWork reports whether the header's hash satisfies its own
// declared target: double_sha256(header) <= target(bits).
func (h *Header) CheckProofOfWork() bool {
	hash := h.Hash()
	// Hash is in internal (little-endian) byte order; proof-of-work
	// compares it as a big-endian integer, so the bytes are reversed
	// before going into big.Int.
	reversed := make([]byte, chainhash.HashSize)
	for i := range hash {
		reversed[i] = hash[chainhash.HashSize-1-i]
	}
	hashInt := new(big.Int).SetBytes(reversed)
	target := h.Bits.Target()
	if target.Sign() <= 0 {
		return false
	}
	return hashInt.Cmp(target) <= 0
}
