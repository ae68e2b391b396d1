// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// MaxBlockLocatorsPerMsg bounds the locator hashes in a getheaders message.
const MaxBlockLocatorsPerMsg = 500

// MsgGetHeaders requests headers starting after the first locator hash the
// peer recognizes, up to HashStop (all-zero meaning "as many as possible").
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

func (m *MsgGetHeaders) Command() string { return CmdGetHeaders }

func (m *MsgGetHeaders) Encode(w io.Writer) error {
	if err := wireenc.WriteUint32LE(w, m.ProtocolVersion); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, uint64(len(m.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, h := range m.BlockLocatorHashes {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	_, err := w.Write(m.HashStop[:])
	return err
}

func (m *MsgGetHeaders) Decode(r io.Reader) error {
	var err error
	if m.ProtocolVersion, err = wireenc.ReadUint32LE(r); err != nil {
		return err
	}

	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > MaxBlockLocatorsPerMsg {
		return nodeerr.New(nodeerr.RequestedDataTooBig, fmt.Sprintf("getheaders locator count %d exceeds %d", n, MaxBlockLocatorsPerMsg))
	}
	m.BlockLocatorHashes = make([]chainhash.Hash, n)
	for i := range m.BlockLocatorHashes {
		raw, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
		if err != nil {
			return err
		}
		copy(m.BlockLocatorHashes[i][:], raw)
	}

	raw, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
	if err != nil {
		return err
	}
	copy(m.HashStop[:], raw)
	return nil
}
