// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/wire"
)

// DownloadHeaders drives the initial headers download against this peer
// alone: compute a locator from c's tips, request headers, append every
// header whose proof-of-work and parent validate, and repeat until a batch
// comes back empty (spec section 4.4).
func (p *Peer) DownloadHeaders(c *chain.Chain, bus *notify.Bus) error {
	for {
		locator := c.BlockLocator()
		getHeaders := &wire.MsgGetHeaders{
			ProtocolVersion:    p.cfg.ProtocolVersion,
			BlockLocatorHashes: locator,
		}
		if err := wire.WriteMessage(p.conn, p.cfg.Net, getHeaders); err != nil {
			return nodeerr.Wrap(nodeerr.NodeNotResponding, "send getheaders", err)
		}

		headers, err := p.recvHeaders()
		if err != nil {
			return err
		}
		if len(headers) == 0 {
			return nil
		}

		accepted := 0
		for _, h := range headers {
			if !h.CheckProofOfWork() {
				log.Warnf("skipping header with invalid proof of work from %s", p.Addr)
				continue
			}
			if _, err := c.AppendHeader(h); err != nil {
				log.Debugf("skipping header with unknown parent from %s: %v", p.Addr, err)
				continue
			}
			accepted++
		}
		bus.Publish(notify.Event{Kind: notify.HeadersReceived, Count: accepted})
	}
}

// recvHeaders waits for the peer's headers reply, answering any ping
// inline and ignoring anything else while it waits (spec section 4.2:
// "receiving a ping always responds with a pong").
func (p *Peer) recvHeaders() ([]*block.Header, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, nodeerr.Wrap(nodeerr.NodeNotResponding, "set read deadline", err)
	}
	defer p.conn.SetReadDeadline(time.Time{})

	for {
		msg, cmd, err := wire.ReadMessage(p.conn, p.cfg.Net)
		if err != nil {
			return nil, nodeerr.Wrap(nodeerr.NodeNotResponding, "waiting for headers", err)
		}
		switch cmd {
		case wire.CmdHeaders:
			h, ok := msg.(*wire.MsgHeaders)
			if !ok {
				continue
			}
			return h.Headers, nil
		case wire.CmdPing:
			if ping, ok := msg.(*wire.MsgPing); ok {
				_ = wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgPong{Nonce: ping.Nonce})
			}
		default:
			// Ignore anything else while waiting for headers.
		}
	}
}
