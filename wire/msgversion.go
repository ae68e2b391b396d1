// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcspv/node/wireenc"
)

// maxUserAgentLen bounds the version message's user-agent string.
const maxUserAgentLen = 256

// MsgVersion is the first message exchanged in the handshake (spec 4.3).
type MsgVersion struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	Relay           bool
}

func (m *MsgVersion) Command() string { return CmdVersion }

func (m *MsgVersion) Encode(w io.Writer) error {
	if err := wireenc.WriteUint32LE(w, m.ProtocolVersion); err != nil {
		return err
	}
	if err := wireenc.WriteUint64LE(w, uint64(m.Services)); err != nil {
		return err
	}
	if err := wireenc.WriteInt64LE(w, m.Timestamp); err != nil {
		return err
	}
	if err := m.AddrRecv.Serialize(w); err != nil {
		return err
	}
	if err := m.AddrFrom.Serialize(w); err != nil {
		return err
	}
	if err := wireenc.WriteUint64LE(w, m.Nonce); err != nil {
		return err
	}
	if err := wireenc.WriteVarString(w, m.UserAgent); err != nil {
		return err
	}
	if err := wireenc.WriteInt32LE(w, m.StartHeight); err != nil {
		return err
	}
	relay := byte(0)
	if m.Relay {
		relay = 1
	}
	return wireenc.WriteUint8(w, relay)
}

func (m *MsgVersion) Decode(r io.Reader) error {
	var err error
	if m.ProtocolVersion, err = wireenc.ReadUint32LE(r); err != nil {
		return err
	}
	services, err := wireenc.ReadUint64LE(r)
	if err != nil {
		return err
	}
	m.Services = ServiceFlag(services)
	if m.Timestamp, err = wireenc.ReadInt64LE(r); err != nil {
		return err
	}
	if err := m.AddrRecv.Deserialize(r); err != nil {
		return err
	}
	if err := m.AddrFrom.Deserialize(r); err != nil {
		return err
	}
	if m.Nonce, err = wireenc.ReadUint64LE(r); err != nil {
		return err
	}
	if m.UserAgent, err = wireenc.ReadVarString(r, maxUserAgentLen); err != nil {
		return err
	}
	if m.StartHeight, err = wireenc.ReadInt32LE(r); err != nil {
		return err
	}
	relay, err := wireenc.ReadUint8(r)
	if err != nil {
		// Older protocol versions omit the relay byte; treat its
		// absence as relay=true rather than failing the message.
		m.Relay = true
		return nil
	}
	m.Relay = relay != 0
	return nil
}
