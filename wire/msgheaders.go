// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// MaxHeadersPerMsg is the hard ceiling on headers accepted in a single
// headers message; batches above it are rejected outright (spec 4.4).
const MaxHeadersPerMsg = 50000

// typicalHeadersBatch is the size most peers actually send per batch. It is
// not enforced and nothing reads it: the header download treats only an
// empty batch as "no more headers".
const typicalHeadersBatch = 2000

// MsgHeaders carries a batch of block headers, each followed by a
// CompactSize transaction count (always zero for a header-only message).
type MsgHeaders struct {
	Headers []*block.Header
}

func (m *MsgHeaders) Command() string { return CmdHeaders }

func (m *MsgHeaders) Encode(w io.Writer) error {
	if len(m.Headers) > MaxHeadersPerMsg {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "headers message exceeds max batch size")
	}
	if err := wireenc.WriteVarInt(w, uint64(len(m.Headers))); err != nil {
		return err
	}
	for _, h := range m.Headers {
		if err := h.Serialize(w); err != nil {
			return err
		}
		if err := wireenc.WriteVarInt(w, h.TxCount); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgHeaders) Decode(r io.Reader) error {
	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > MaxHeadersPerMsg {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "headers message exceeds max batch size")
	}
	m.Headers = make([]*block.Header, n)
	for i := range m.Headers {
		h := &block.Header{}
		if err := h.Deserialize(r); err != nil {
			return err
		}
		txCount, err := wireenc.ReadVarInt(r)
		if err != nil {
			return err
		}
		h.TxCount = txCount
		m.Headers[i] = h
	}
	return nil
}
