// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/btcspv/node/block"
)

// Broadcaster fans a transaction out to every connected peer except the one
// it arrived from, preventing echo (spec section 4.6). Each peer's own
// command channel already serializes writes, so Broadcast only needs to
// preserve the order in which it offers a transaction to each peer: two
// transactions broadcast back to back are offered to every peer in that
// same order.
type Broadcaster struct {
	mu    sync.Mutex
	peers map[string]*Peer
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{peers: make(map[string]*Peer)}
}

// Add registers p so future broadcasts reach it.
func (b *Broadcaster) Add(p *Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peers[p.Addr] = p
}

// Remove unregisters the peer at addr, typically once its Run has returned.
func (b *Broadcaster) Remove(addr string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.peers, addr)
}

// Broadcast offers tx to every registered peer other than fromAddr. It
// never blocks: each peer's SendTransaction drops the transaction rather
// than stall the broadcaster if that peer's command channel is full.
func (b *Broadcaster) Broadcast(fromAddr string, tx *block.Transaction) {
	b.mu.Lock()
	targets := make([]*Peer, 0, len(b.peers))
	for addr, p := range b.peers {
		if addr == fromAddr {
			continue
		}
		targets = append(targets, p)
	}
	b.mu.Unlock()

	for _, p := range targets {
		p.SendTransaction(tx)
	}
}
