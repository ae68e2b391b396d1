// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/wire"
)

// Inbound is something received from a peer's read loop, forwarded through
// the single MPMC channel to the chain updater (spec section 4.6).
type Inbound struct {
	FromAddr string
	Block    *block.Block
	Tx       *block.Transaction
}

// Run starts p's steady-state reader and writer loops and blocks until
// both terminate, returning the terminal state (spec section 4.6). out
// receives every block/transaction the peer forwards. Callers drive the
// peer's write side with SendTransaction and request shutdown with Stop;
// both are safe to call from another goroutine while Run is in progress.
func (p *Peer) Run(out chan<- Inbound) TerminalState {
	p.cmdCh = make(chan command, 16)

	var wg sync.WaitGroup
	wg.Add(2)

	var readErr error
	stopped := false

	go func() {
		defer wg.Done()
		readErr = p.readLoop(out)
	}()
	go func() {
		defer wg.Done()
		stopped = p.writeLoop()
	}()

	wg.Wait()

	switch {
	case stopped:
		return StateClean
	case readErr == nil || errors.Is(readErr, io.EOF):
		return StatePeerClosed
	default:
		return StateError
	}
}

// Stop requests a clean shutdown: the write loop closes the socket, which
// unblocks the read loop with an error, and both loops terminate (spec
// section 4.6).
func (p *Peer) Stop() {
	select {
	case p.cmdCh <- command{stop: true}:
	default:
	}
}

// SendTransaction queues tx to be written to this peer.
func (p *Peer) SendTransaction(tx *block.Transaction) {
	select {
	case p.cmdCh <- command{tx: &wire.MsgTx{Tx: *tx}}:
	default:
		log.Warnf("command channel full for peer %s, dropping transaction", p.Addr)
	}
}

// readLoop decodes messages until the connection errs or closes, answering
// pings inline, forwarding blocks/transactions to out, and requesting the
// full object behind any inventory advertisement. It never touches cmdCh:
// shutdown is driven entirely by the write loop closing the socket.
func (p *Peer) readLoop(out chan<- Inbound) error {
	for {
		if err := p.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}
		msg, cmd, err := wire.ReadMessage(p.conn, p.cfg.Net)
		if err != nil {
			log.Debugf("peer %s read loop ending: %v", p.Addr, err)
			return err
		}

		switch cmd {
		case wire.CmdPing:
			if ping, ok := msg.(*wire.MsgPing); ok {
				_ = wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgPong{Nonce: ping.Nonce})
			}
		case wire.CmdBlock:
			if b, ok := msg.(*wire.MsgBlock); ok {
				out <- Inbound{FromAddr: p.Addr, Block: &b.Block}
			}
		case wire.CmdTx:
			if t, ok := msg.(*wire.MsgTx); ok {
				tx := t.Tx
				out <- Inbound{FromAddr: p.Addr, Tx: &tx}
			}
		case wire.CmdInv:
			if inv, ok := msg.(*wire.MsgInv); ok {
				p.requestAdvertised(inv)
			}
		default:
			// Unknown or uninteresting commands are drained by
			// ReadMessage already; nothing further to do.
		}
	}
}

// requestAdvertised asks for the full object behind every inventory vector
// a peer announces during steady state, rather than assuming a push.
func (p *Peer) requestAdvertised(inv *wire.MsgInv) {
	if len(inv.InvList) == 0 {
		return
	}
	_ = wire.WriteMessage(p.conn, p.cfg.Net, &wire.MsgGetData{InvList: inv.InvList})
}

// writeLoop drains cmdCh, writing any queued transaction, until it sees a
// stop command or hits a write error. It closes the socket before
// returning either way, which is what unblocks readLoop.
func (p *Peer) writeLoop() bool {
	defer p.conn.Close()
	for c := range p.cmdCh {
		if c.stop {
			return true
		}
		if c.tx != nil {
			if err := wire.WriteMessage(p.conn, p.cfg.Net, c.tx); err != nil {
				log.Debugf("peer %s write loop ending: %v", p.Addr, err)
				return false
			}
		}
	}
	return false
}
