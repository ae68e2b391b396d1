// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"time"

	"github.com/btcspv/node/wire"
)

// readTimeout bounds every steady-state socket read; expiry maps to
// NodeNotResponding and terminates that peer only (spec section 5).
const readTimeout = 90 * time.Second

// handshakeTimeout is the longer budget the handshake gets, since it may
// involve DNS/TCP setup on top of the version/verack round trip (spec
// section 5: "the handshake has its own longer budget").
const handshakeTimeout = 120 * time.Second

// Config carries the local identity a Peer presents during its handshake,
// sourced from config.ConnectionConfig.
type Config struct {
	Net             wire.BitcoinNet
	ProtocolVersion uint32
	Services        wire.ServiceFlag
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	Relay           bool

	// MinAcceptedVersion is the protocol-version floor a peer must meet
	// or the handshake fails with HandshakeRejected.
	MinAcceptedVersion uint32
}

// Peer owns one TCP connection to a remote node plus the identity it
// presented during the handshake.
type Peer struct {
	Addr    string
	conn    net.Conn
	cfg     Config
	Version *wire.MsgVersion // the peer's own version message

	cmdCh chan command
}

// TerminalState names how a peer's read/write loop ended (spec section
// 4.6: "clean, peer-closed, or error").
type TerminalState int

const (
	StateClean TerminalState = iota
	StatePeerClosed
	StateError
)

func (s TerminalState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StatePeerClosed:
		return "peer-closed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// command is sent on a peer's per-peer command channel (spec section 4.6).
type command struct {
	stop bool
	tx   wire.Message // a *wire.MsgTx, when stop is false
}
