// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcspv/node/wireenc"
)

// MsgVerAck carries no payload; it acknowledges a version message.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string        { return CmdVerAck }
func (m *MsgVerAck) Encode(w io.Writer) error { return nil }
func (m *MsgVerAck) Decode(r io.Reader) error { return nil }

// MsgPing carries a nonce the peer must echo back in a pong.
type MsgPing struct {
	Nonce uint64
}

func (m *MsgPing) Command() string { return CmdPing }
func (m *MsgPing) Encode(w io.Writer) error {
	return wireenc.WriteUint64LE(w, m.Nonce)
}
func (m *MsgPing) Decode(r io.Reader) error {
	var err error
	m.Nonce, err = wireenc.ReadUint64LE(r)
	return err
}

// MsgPong echoes the nonce from the ping it answers.
type MsgPong struct {
	Nonce uint64
}

func (m *MsgPong) Command() string { return CmdPong }
func (m *MsgPong) Encode(w io.Writer) error {
	return wireenc.WriteUint64LE(w, m.Nonce)
}
func (m *MsgPong) Decode(r io.Reader) error {
	var err error
	m.Nonce, err = wireenc.ReadUint64LE(r)
	return err
}

// MsgSendHeaders carries no payload; it asks the peer to announce new
// blocks with a headers message instead of an inv.
type MsgSendHeaders struct{}

func (m *MsgSendHeaders) Command() string        { return CmdSendHeaders }
func (m *MsgSendHeaders) Encode(w io.Writer) error { return nil }
func (m *MsgSendHeaders) Decode(r io.Reader) error { return nil }

// MsgSendCmpct announces (or withdraws) support for compact blocks.
type MsgSendCmpct struct {
	Announce bool
	Version  uint64
}

func (m *MsgSendCmpct) Command() string { return CmdSendCmpct }
func (m *MsgSendCmpct) Encode(w io.Writer) error {
	announce := byte(0)
	if m.Announce {
		announce = 1
	}
	if err := wireenc.WriteUint8(w, announce); err != nil {
		return err
	}
	return wireenc.WriteUint64LE(w, m.Version)
}
func (m *MsgSendCmpct) Decode(r io.Reader) error {
	announce, err := wireenc.ReadUint8(r)
	if err != nil {
		return err
	}
	m.Announce = announce != 0
	m.Version, err = wireenc.ReadUint64LE(r)
	return err
}

// MsgFeeFilter carries the minimum fee rate (satoshis/kB) the peer wants
// relayed to it. The node tolerates and ignores it (spec 4.2).
type MsgFeeFilter struct {
	FeeRate int64
}

func (m *MsgFeeFilter) Command() string { return CmdFeeFilter }
func (m *MsgFeeFilter) Encode(w io.Writer) error {
	return wireenc.WriteInt64LE(w, m.FeeRate)
}
func (m *MsgFeeFilter) Decode(r io.Reader) error {
	var err error
	m.FeeRate, err = wireenc.ReadInt64LE(r)
	return err
}

// maxAddrEntries bounds the number of address records tolerated in a
// single addr message.
const maxAddrEntries = 1000

// MsgAddr is tolerated and ignored: the node never acts on gossiped peer
// addresses, it only reads and discards them (spec 4.2).
type MsgAddr struct {
	AddrList []TimestampedAddress
}

// TimestampedAddress is one entry of an addr message: a NetAddress plus
// the last-seen timestamp that precedes it on the wire.
type TimestampedAddress struct {
	Timestamp uint32
	Addr      NetAddress
}

func (m *MsgAddr) Command() string { return CmdAddr }

func (m *MsgAddr) Encode(w io.Writer) error {
	if err := wireenc.WriteVarInt(w, uint64(len(m.AddrList))); err != nil {
		return err
	}
	for _, a := range m.AddrList {
		if err := wireenc.WriteUint32LE(w, a.Timestamp); err != nil {
			return err
		}
		if err := a.Addr.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgAddr) Decode(r io.Reader) error {
	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > maxAddrEntries {
		n = maxAddrEntries
	}
	m.AddrList = make([]TimestampedAddress, 0, n)
	for i := uint64(0); i < n; i++ {
		var a TimestampedAddress
		if a.Timestamp, err = wireenc.ReadUint32LE(r); err != nil {
			return err
		}
		if err := a.Addr.Deserialize(r); err != nil {
			return err
		}
		m.AddrList = append(m.AddrList, a)
	}
	return nil
}

// maxAlertPayload bounds the (deprecated, ignored) alert message.
const maxAlertPayload = 64 * 1024

// MsgAlert is tolerated and ignored: the deprecated alert system.
type MsgAlert struct {
	Payload   []byte
	Signature []byte
}

func (m *MsgAlert) Command() string { return CmdAlert }

func (m *MsgAlert) Encode(w io.Writer) error {
	if err := wireenc.WriteVarBytes(w, m.Payload); err != nil {
		return err
	}
	return wireenc.WriteVarBytes(w, m.Signature)
}

func (m *MsgAlert) Decode(r io.Reader) error {
	var err error
	if m.Payload, err = wireenc.ReadVarBytes(r, maxAlertPayload, "alert.payload"); err != nil {
		return err
	}
	m.Signature, err = wireenc.ReadVarBytes(r, maxAlertPayload, "alert.signature")
	return err
}
