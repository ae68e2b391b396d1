// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// ProtocolVersion is the protocol version this node speaks. The floor a
// peer must meet during the handshake is set separately, by
// peer.Config.MinAcceptedVersion.
const ProtocolVersion uint32 = 70016

// SendHeadersVersion is the protocol version that introduced the
// sendheaders message.
const SendHeadersVersion uint32 = 70012

// BitcoinNet identifies which Bitcoin network a message belongs to; it is
// the magic number prefixing every frame.
type BitcoinNet uint32

const (
	// MainNet is the production Bitcoin network. The node never connects
	// to it; it is listed for completeness of the magic-number space.
	MainNet BitcoinNet = 0xd9b4bef9

	// TestNet3 is the Bitcoin test network (version 3) this node speaks,
	// magic bytes 0x0B 0x11 0x09 0x07 as specified, read little-endian.
	TestNet3 BitcoinNet = 0x0709110b
)

func (n BitcoinNet) String() string {
	switch n {
	case MainNet:
		return "MainNet"
	case TestNet3:
		return "TestNet3"
	default:
		return fmt.Sprintf("Unknown BitcoinNet (0x%08x)", uint32(n))
	}
}

// ServiceFlag identifies services supported by a peer, exchanged in the
// version message.
type ServiceFlag uint64

const (
	SFNodeNetwork ServiceFlag = 1 << iota
	SFNodeGetUTXO
	SFNodeBloom
	SFNodeWitness
)

func (f ServiceFlag) HasFlag(s ServiceFlag) bool {
	return f&s == s
}

// InvType identifies the kind of object an inventory vector names.
type InvType uint32

const (
	InvTypeError InvType = iota
	InvTypeTx
	InvTypeBlock
	InvTypeFilteredBlock
)

func (t InvType) String() string {
	switch t {
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	case InvTypeFilteredBlock:
		return "MSG_FILTERED_BLOCK"
	default:
		return "MSG_ERROR"
	}
}
