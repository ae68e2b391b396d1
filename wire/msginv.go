// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/wireenc"
)

// MaxInvPerMsg is the hard ceiling on inventory vectors in one inv/getdata
// message (spec: 50,000 per getdata batch).
const MaxInvPerMsg = 50000

// InvVect names one object by type and hash.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

func (iv *InvVect) Serialize(w io.Writer) error {
	if err := wireenc.WriteUint32LE(w, uint32(iv.Type)); err != nil {
		return err
	}
	_, err := w.Write(iv.Hash[:])
	return err
}

func (iv *InvVect) Deserialize(r io.Reader) error {
	t, err := wireenc.ReadUint32LE(r)
	if err != nil {
		return err
	}
	iv.Type = InvType(t)
	h, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
	if err != nil {
		return err
	}
	copy(iv.Hash[:], h)
	return nil
}

func encodeInvList(w io.Writer, command string, list []InvVect) error {
	if len(list) > MaxInvPerMsg {
		return invTooBigError(command)
	}
	if err := wireenc.WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for i := range list {
		if err := list[i].Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeInvList(r io.Reader) ([]InvVect, error) {
	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > MaxInvPerMsg {
		return nil, invTooBigErrorN(n)
	}
	list := make([]InvVect, n)
	for i := range list {
		if err := list[i].Deserialize(r); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MsgInv announces objects a peer has available.
type MsgInv struct {
	InvList []InvVect
}

func (m *MsgInv) Command() string         { return CmdInv }
func (m *MsgInv) Encode(w io.Writer) error { return encodeInvList(w, CmdInv, m.InvList) }
func (m *MsgInv) Decode(r io.Reader) error {
	list, err := decodeInvList(r)
	if err != nil {
		return err
	}
	m.InvList = list
	return nil
}

// MsgGetData requests the full objects named by its inventory vectors.
type MsgGetData struct {
	InvList []InvVect
}

func (m *MsgGetData) Command() string         { return CmdGetData }
func (m *MsgGetData) Encode(w io.Writer) error { return encodeInvList(w, CmdGetData, m.InvList) }
func (m *MsgGetData) Decode(r io.Reader) error {
	list, err := decodeInvList(r)
	if err != nil {
		return err
	}
	m.InvList = list
	return nil
}
