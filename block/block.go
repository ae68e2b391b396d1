// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/btcspv/node/chaincfg/chainhash"
)

// Block is a header together with its ordered transactions.
type Block struct {
	Header       Header
	Transactions []*Transaction
}

// Txids returns the transaction identities in block order.
func (b *Block) Txids() []chainhash.Hash {
	ids := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		ids[i] = tx.TxID()
	}
	return ids
}

// VerifyMerkleRoot reports whether the merkle root computed from the
// block's transactions matches the one committed to in its header.
func (b *Block) VerifyMerkleRoot() bool {
	return MerkleRoot(b.Txids()) == b.Header.MerkleRoot
}

// Hash returns the block's identity: its header hash.
func (b *Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}
