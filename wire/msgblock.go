// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// maxTxPerBlock bounds the declared transaction count in a block message.
const maxTxPerBlock = 1_000_000

// MsgBlock carries a full block: header, transaction count, transactions.
type MsgBlock struct {
	Block block.Block
}

func (m *MsgBlock) Command() string { return CmdBlock }

func (m *MsgBlock) Encode(w io.Writer) error {
	if err := m.Block.Header.Serialize(w); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, uint64(len(m.Block.Transactions))); err != nil {
		return err
	}
	for _, tx := range m.Block.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgBlock) Decode(r io.Reader) error {
	if err := m.Block.Header.Deserialize(r); err != nil {
		return err
	}
	n, err := wireenc.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > maxTxPerBlock {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "block declares too many transactions")
	}
	m.Block.Transactions = make([]*block.Transaction, n)
	for i := range m.Block.Transactions {
		tx := &block.Transaction{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		m.Block.Transactions[i] = tx
	}
	return nil
}

// MsgTx carries a single transaction.
type MsgTx struct {
	Tx block.Transaction
}

func (m *MsgTx) Command() string         { return CmdTx }
func (m *MsgTx) Encode(w io.Writer) error { return m.Tx.Serialize(w) }
func (m *MsgTx) Decode(r io.Reader) error { return m.Tx.Deserialize(r) }
