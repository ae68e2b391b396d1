// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nodeproc wires every other package together into a running node:
// load persisted state, discover and connect peers, drive the initial
// headers/block download, then run the steady-state peer manager until a
// shutdown signal arrives and the state is persisted again (spec section
// 6, "Process contract").
package nodeproc

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/chaincfg"
	"github.com/btcspv/node/config"
	"github.com/btcspv/node/internal/shared"
	"github.com/btcspv/node/notify"
	"github.com/btcspv/node/peer"
	"github.com/btcspv/node/store"
	"github.com/btcspv/node/walletpkg"
	"github.com/btcspv/node/wire"
)

// Node holds the shared state and live connections of a running process.
type Node struct {
	cfg *config.Config
	bus *notify.Bus

	chainBox  *shared.Box[*chain.Chain]
	utxoBox   *shared.Box[*chain.UTXOSet]
	walletBox *shared.Box[*walletpkg.Wallet]

	broadcaster *peer.Broadcaster
}

// Run loads state, connects peers, drives IHD/IBD, and then runs the
// steady-state loop until ctx is cancelled or an OS shutdown signal
// arrives, persisting state before returning. It is the single entry point
// cmd/spvnode calls.
func Run(ctx context.Context, cfg *config.Config, bus *notify.Bus) error {
	n, err := newNode(cfg, bus)
	if err != nil {
		return err
	}

	addrs, err := n.discoverPeers(ctx)
	if err != nil {
		return err
	}

	peers := n.connectAll(addrs)
	if len(peers) == 0 {
		return fmt.Errorf("nodeproc: could not connect to any peer")
	}

	if err := n.initialDownload(peers[0]); err != nil {
		log.Warnf("initial download did not complete cleanly: %v", err)
	}
	n.bus.Publish(notify.Event{Kind: notify.NotifyBlockchainIsReady})

	return n.runSteadyState(ctx, peers)
}

func newNode(cfg *config.Config, bus *notify.Bus) (*Node, error) {
	n := &Node{cfg: cfg, bus: bus, broadcaster: peer.NewBroadcaster()}

	c, err := n.loadOrInitChain()
	if err != nil {
		return nil, err
	}
	n.chainBox = shared.NewBox(c)

	w, err := n.loadOrInitWallet()
	if err != nil {
		return nil, err
	}
	n.walletBox = shared.NewBox(w)

	tip, err := c.Latest()
	if err != nil {
		return nil, err
	}
	u, err := chain.DeriveUTXO(c, tip)
	if err != nil {
		return nil, err
	}
	n.utxoBox = shared.NewBox(u)

	return n, nil
}

// loadOrInitChain loads the configured chain blob, or starts from genesis
// when no path is configured. A configured path that cannot be read is a
// startup failure (spec section 7: state-file corruption is fatal).
func (n *Node) loadOrInitChain() (*chain.Chain, error) {
	path := n.cfg.Save.ReadBlockchainPath
	if path == "" {
		return chain.New(chaincfg.TestNet3Params.GenesisBlock), nil
	}
	c, err := store.LoadChain(path)
	if err != nil {
		return nil, fmt.Errorf("loading chain blob %s: %w", path, err)
	}
	return c, nil
}

func (n *Node) loadOrInitWallet() (*walletpkg.Wallet, error) {
	path := n.cfg.Save.ReadWalletPath
	if path == "" {
		return walletpkg.NewWallet(), nil
	}
	w, err := store.LoadWallet(path)
	if err != nil {
		return nil, fmt.Errorf("loading wallet blob %s: %w", path, err)
	}
	return w, nil
}

func (n *Node) discoverPeers(ctx context.Context) ([]string, error) {
	host := n.cfg.Connection.DNSSeederHost
	if host == "" {
		return nil, fmt.Errorf("nodeproc: no dns_seeder_host configured")
	}
	return peer.DiscoverPeers(ctx, net.DefaultResolver, host, n.cfg.Connection.DNSSeederPort, n.cfg.Connection.PeerCountMax)
}

func (n *Node) peerConfig() peer.Config {
	magic := chaincfg.TestNet3Params.Net
	if n.cfg.Connection.MagicNumber != 0 {
		magic = wire.BitcoinNet(n.cfg.Connection.MagicNumber)
	}
	return peer.Config{
		Net:                magic,
		ProtocolVersion:    n.cfg.Connection.ProtocolVersion,
		Services:           wire.ServiceFlag(n.cfg.Connection.Services),
		Nonce:              n.cfg.Connection.Nonce,
		UserAgent:          n.cfg.Connection.UserAgent,
		StartHeight:        n.cfg.Connection.BlockHeight,
		Relay:              n.cfg.Connection.Relay,
		MinAcceptedVersion: 70001,
	}
}

// connectAll dials every address, dropping (and logging) any that fail the
// handshake, up to peer_count_max successes.
func (n *Node) connectAll(addrs []string) []*peer.Peer {
	cfg := n.peerConfig()
	var connected []*peer.Peer
	for _, addr := range addrs {
		if len(connected) >= n.cfg.Connection.PeerCountMax {
			break
		}
		p, err := peer.Dial(addr, cfg, n.bus)
		if err != nil {
			log.Warnf("could not connect to %s: %v", addr, err)
			continue
		}
		connected = append(connected, p)
	}
	return connected
}

// initialDownload runs headers-then-blocks download against a single peer
// (spec sections 4.4, 4.5), the peer the caller picked to drive it.
func (n *Node) initialDownload(p *peer.Peer) error {
	headersErr := shared.With2(n.chainBox, func(c *chain.Chain) error {
		return p.DownloadHeaders(c, n.bus)
	})
	if headersErr != nil {
		return headersErr
	}

	// UTXO must be locked before chain (spec section 5's lock order):
	// take both here for the duration of the block download.
	u := n.utxoBox.Lock()
	defer n.utxoBox.Unlock()
	c := n.chainBox.Lock()
	defer n.chainBox.Unlock()
	return p.DownloadBlocks(*c, *u, n.cfg.Download.Timestamp, n.bus)
}

// runSteadyState runs every peer's Run loop and the chain updater
// concurrently until ctx is cancelled or a shutdown signal arrives, then
// stops every peer, waits for them to drain, and persists state.
func (n *Node) runSteadyState(ctx context.Context, peers []*peer.Peer) error {
	for _, p := range peers {
		n.broadcaster.Add(p)
	}

	inbound := make(chan peer.Inbound, 256)
	updaterDone := make(chan struct{})
	go func() {
		defer close(updaterDone)
		peer.RunUpdater(inbound, n.chainBox, n.utxoBox, n.walletBox, n.broadcaster, n.bus)
	}()

	var wg sync.WaitGroup
	wg.Add(len(peers))
	for _, p := range peers {
		p := p
		go func() {
			defer wg.Done()
			state := p.Run(inbound)
			n.broadcaster.Remove(p.Addr)
			n.bus.Publish(notify.Event{Kind: notify.ClosingPeer, PeerAddr: p.Addr})
			log.Infof("peer %s stopped: %v", p.Addr, state)
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, unix.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-ctx.Done():
	case <-sig:
	}

	n.bus.Publish(notify.Event{Kind: notify.ClosingPeers})
	for _, p := range peers {
		p.Stop()
	}
	wg.Wait()
	close(inbound)
	<-updaterDone

	return n.persist()
}

func (n *Node) persist() error {
	if path := n.cfg.Save.WriteBlockchainPath; path != "" {
		var err error
		shared.With(n.chainBox, func(c *chain.Chain) {
			err = store.SaveChain(path, c)
		})
		if err != nil {
			return fmt.Errorf("saving chain blob: %w", err)
		}
	}
	if path := n.cfg.Save.WriteWalletPath; path != "" {
		var err error
		shared.With(n.walletBox, func(w *walletpkg.Wallet) {
			err = store.SaveWallet(path, w)
		})
		if err != nil {
			return fmt.Errorf("saving wallet blob: %w", err)
		}
	}
	return nil
}
