// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command spvnode wires together configuration, logging and nodeproc into
// a running SPV node (spec section 6, "Process contract"). It exits 0 on
// clean shutdown and non-zero on initialization failure.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/btcspv/node/config"
	"github.com/btcspv/node/logs"
	"github.com/btcspv/node/nodeproc"
	"github.com/btcspv/node/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "spvnode:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := logs.InitLogRotator(cfg.Logs.Path); err != nil {
		return fmt.Errorf("initializing log rotator: %w", err)
	}
	if err := logs.SetLogLevel(cfg.Logs.Level); err != nil {
		return fmt.Errorf("setting log level: %w", err)
	}

	bus := notify.NewBus()
	bus.Subscribe(notify.SubscriberFunc(logNotification))

	return nodeproc.Run(context.Background(), cfg, bus)
}

// logNotification is the process's own minimal subscriber: it logs every
// event at info level. A TUI or GUI frontend (spec section 1, external
// collaborator) would subscribe in its place to render progress instead.
func logNotification(ev notify.Event) {
	log := logs.Logger("NODE")
	switch ev.Kind {
	case notify.FailedHandshakeWithPeer:
		log.Warnf("%s: %s: %v", ev.Kind, ev.PeerAddr, ev.Err)
	case notify.HeadersReceived:
		log.Infof("%s: %d", ev.Kind, ev.Count)
	case notify.ProgressDownloadingBlocks, notify.ProgressUpdatingBlockchain:
		log.Infof("%s: %d/%d", ev.Kind, ev.Done, ev.Total)
	case notify.NewBlockAddedToTheBlockchain:
		log.Infof("%s: %s", ev.Kind, ev.BlockHash)
	case notify.TransactionOfAccountReceived, notify.TransactionOfAccountInNewBlock, notify.SuccessfullySentTransaction:
		log.Infof("%s: account=%s tx=%s", ev.Kind, ev.AccountName, ev.TxID)
	case notify.LoadAvailableBalance:
		log.Infof("%s: account=%s confirmed=%d pending=%d", ev.Kind, ev.AccountName, ev.Confirmed, ev.Pending)
	default:
		log.Infof("%s", ev.Kind)
	}
}
