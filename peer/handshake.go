// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"fmt"
	"net"
	"time"

	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/wire"
)

// Dial connects to addr and runs the initiating side of the handshake
// (spec section 4.3): send version, wait for the peer's version (ignoring
// anything else while waiting), exchange verack, then send sendheaders.
func Dial(addr string, cfg Config, bus *notify.Bus) (*Peer, error) {
	bus.Publish(notify.Event{Kind: notify.AttemptingHandshakeWithPeer, PeerAddr: addr})

	conn, err := net.DialTimeout("tcp", addr, handshakeTimeout)
	if err != nil {
		bus.Publish(notify.Event{Kind: notify.FailedHandshakeWithPeer, PeerAddr: addr, Err: err})
		return nil, handshakeRejected("dial", err)
	}

	p := &Peer{Addr: addr, conn: conn, cfg: cfg}
	if err := p.withHandshakeDeadline(func() error {
		return p.handshakeInitiate()
	}); err != nil {
		conn.Close()
		bus.Publish(notify.Event{Kind: notify.FailedHandshakeWithPeer, PeerAddr: addr, Err: err})
		return nil, err
	}

	bus.Publish(notify.Event{Kind: notify.SuccessfulHandshakeWithPeer, PeerAddr: addr})
	return p, nil
}

// Accept runs the accepting side of the handshake (spec section 4.3:
// "mirrors the order, receive version first") over an already-established
// connection.
func Accept(conn net.Conn, cfg Config, bus *notify.Bus) (*Peer, error) {
	addr := conn.RemoteAddr().String()
	bus.Publish(notify.Event{Kind: notify.AttemptingHandshakeWithPeer, PeerAddr: addr})

	p := &Peer{Addr: addr, conn: conn, cfg: cfg}
	if err := p.withHandshakeDeadline(func() error {
		return p.handshakeAccept()
	}); err != nil {
		conn.Close()
		bus.Publish(notify.Event{Kind: notify.FailedHandshakeWithPeer, PeerAddr: addr, Err: err})
		return nil, err
	}

	bus.Publish(notify.Event{Kind: notify.SuccessfulHandshakeWithPeer, PeerAddr: addr})
	return p, nil
}

func (p *Peer) withHandshakeDeadline(fn func() error) error {
	if err := p.conn.SetDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return err
	}
	defer p.conn.SetDeadline(time.Time{})
	return fn()
}

func (p *Peer) handshakeInitiate() error {
	if err := p.sendVersion(); err != nil {
		return err
	}
	if err := p.recvVersion(); err != nil {
		return err
	}
	if err := wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgVerAck{}); err != nil {
		return handshakeRejected("send verack", err)
	}
	if err := p.recvVerAck(); err != nil {
		return err
	}
	if err := wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgSendHeaders{}); err != nil {
		return handshakeRejected("send sendheaders", err)
	}
	return nil
}

func (p *Peer) handshakeAccept() error {
	if err := p.recvVersion(); err != nil {
		return err
	}
	if err := p.sendVersion(); err != nil {
		return err
	}
	if err := p.recvVerAck(); err != nil {
		return err
	}
	if err := wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgVerAck{}); err != nil {
		return handshakeRejected("send verack", err)
	}
	if err := wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgSendHeaders{}); err != nil {
		return handshakeRejected("send sendheaders", err)
	}
	return nil
}

func (p *Peer) sendVersion() error {
	local, err := net.ResolveTCPAddr("tcp", p.Addr)
	var ip net.IP
	var port uint16
	if err == nil && local != nil {
		ip, port = local.IP, uint16(local.Port)
	}
	msg := &wire.MsgVersion{
		ProtocolVersion: p.cfg.ProtocolVersion,
		Services:        p.cfg.Services,
		Timestamp:       time.Now().Unix(),
		AddrRecv:        wire.NetAddress{Services: p.cfg.Services, IP: ip, Port: port},
		AddrFrom:        wire.NetAddress{Services: p.cfg.Services, IP: net.IPv4zero, Port: 0},
		Nonce:           p.cfg.Nonce,
		UserAgent:       p.cfg.UserAgent,
		StartHeight:     p.cfg.StartHeight,
		Relay:           p.cfg.Relay,
	}
	if err := wire.WriteMessage(p.conn, p.cfg.Net, msg); err != nil {
		return handshakeRejected("send version", err)
	}
	return nil
}

// recvVersion waits for the peer's version message, ignoring any other
// message that arrives first (spec section 4.3 step 2).
func (p *Peer) recvVersion() error {
	for {
		msg, cmd, err := wire.ReadMessage(p.conn, p.cfg.Net)
		if err != nil {
			return handshakeRejected("waiting for version", err)
		}
		if cmd != wire.CmdVersion {
			continue
		}
		v, ok := msg.(*wire.MsgVersion)
		if !ok {
			continue
		}
		if v.ProtocolVersion < p.cfg.MinAcceptedVersion {
			return handshakeRejected("peer protocol version too old", fmt.Errorf("got %d want >= %d", v.ProtocolVersion, p.cfg.MinAcceptedVersion))
		}
		p.Version = v
		return nil
	}
}

// recvVerAck waits for the peer's verack, ignoring anything else.
func (p *Peer) recvVerAck() error {
	for {
		_, cmd, err := wire.ReadMessage(p.conn, p.cfg.Net)
		if err != nil {
			return handshakeRejected("waiting for verack", err)
		}
		if cmd == wire.CmdVerAck {
			return nil
		}
	}
}

func handshakeRejected(stage string, cause error) error {
	return nodeerr.Wrap(nodeerr.HandshakeRejected, stage, cause)
}
