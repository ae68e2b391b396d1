// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notify implements the node's notification bus: a single event
// type covering every externally visible occurrence (handshake progress,
// download progress, wallet events), dispatched to every registered
// subscriber. Frontends are the only producers of user commands; they
// consume this bus to render progress and wallet state (spec section 6).
package notify

import "sync"

// Kind identifies which notification an Event carries.
type Kind int

const (
	AttemptingHandshakeWithPeer Kind = iota
	SuccessfulHandshakeWithPeer
	FailedHandshakeWithPeer
	HeadersReceived
	ProgressDownloadingBlocks
	ProgressUpdatingBlockchain
	NewBlockAddedToTheBlockchain
	TransactionOfAccountReceived
	TransactionOfAccountInNewBlock
	RegisterWalletAccount
	UpdatedSelectedAccount
	LoadAvailableBalance
	NotEnoughFunds
	InvalidAddressEnter
	InvalidPublicKeyEnter
	InvalidPrivateKeyEnter
	AccountCreationFail
	SuccessfullySentTransaction
	NotifyBlockchainIsReady
	ClosingPeers
	ClosingPeer
)

var kindNames = map[Kind]string{
	AttemptingHandshakeWithPeer:    "AttemptingHandshakeWithPeer",
	SuccessfulHandshakeWithPeer:    "SuccessfulHandshakeWithPeer",
	FailedHandshakeWithPeer:        "FailedHandshakeWithPeer",
	HeadersReceived:                "HeadersReceived",
	ProgressDownloadingBlocks:      "ProgressDownloadingBlocks",
	ProgressUpdatingBlockchain:     "ProgressUpdatingBlockchain",
	NewBlockAddedToTheBlockchain:   "NewBlockAddedToTheBlockchain",
	TransactionOfAccountReceived:   "TransactionOfAccountReceived",
	TransactionOfAccountInNewBlock: "TransactionOfAccountInNewBlock",
	RegisterWalletAccount:          "RegisterWalletAccount",
	UpdatedSelectedAccount:         "UpdatedSelectedAccount",
	LoadAvailableBalance:           "LoadAvailableBalance",
	NotEnoughFunds:                 "NotEnoughFunds",
	InvalidAddressEnter:            "InvalidAddressEnter",
	InvalidPublicKeyEnter:          "InvalidPublicKeyEnter",
	InvalidPrivateKeyEnter:         "InvalidPrivateKeyEnter",
	AccountCreationFail:            "AccountCreationFail",
	SuccessfullySentTransaction:    "SuccessfullySentTransaction",
	NotifyBlockchainIsReady:        "NotifyBlockchainIsReady",
	ClosingPeers:                   "ClosingPeers",
	ClosingPeer:                    "ClosingPeer",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Event is the single notification type flowing through the bus. Only the
// fields relevant to Kind are populated; callers switch on Kind before
// reading them.
type Event struct {
	Kind Kind

	PeerAddr string // AttemptingHandshakeWithPeer, Successful/FailedHandshakeWithPeer, ClosingPeer
	Err      error  // FailedHandshakeWithPeer

	Count int // HeadersReceived
	Done  int // ProgressDownloadingBlocks, ProgressUpdatingBlockchain
	Total int // ProgressDownloadingBlocks, ProgressUpdatingBlockchain

	BlockHash string // NewBlockAddedToTheBlockchain

	AccountName string // TransactionOfAccountReceived/InNewBlock, RegisterWalletAccount,
	// UpdatedSelectedAccount, LoadAvailableBalance
	TxID string // TransactionOfAccountReceived/InNewBlock, SuccessfullySentTransaction

	Confirmed int64 // LoadAvailableBalance
	Pending   int64 // LoadAvailableBalance
}

// Subscriber receives events from the bus. Implementations must not block:
// a slow subscriber would stall the chain updater.
type Subscriber interface {
	Notify(Event)
}

// Bus fans events out to every registered subscriber.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewBus returns an empty notification bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers s to receive every future event.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish delivers ev to every subscriber, synchronously and in
// registration order.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.Notify(ev)
	}
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(Event)

func (f SubscriberFunc) Notify(ev Event) { f(ev) }
