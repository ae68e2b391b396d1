// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chaincfg/chainhash"
)

// testNet3GenesisCoinbaseTx is the coinbase transaction for the genesis
// block, identical across mainnet/testnet3/regtest: it embeds the famous
// "The Times 03/Jan/2009 Chancellor on brink of second bailout for banks"
// headline as the signature script of its single null input.
var testNet3GenesisCoinbaseTx = block.Transaction{
	Version: 1,
	Inputs: []*block.Input{
		{
			PrevOutpoint: block.Outpoint{
				Hash:  chainhash.Hash{},
				Index: 0xffffffff,
			},
			SignatureScript: []byte{
				0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04, 0x45, /* |.......E| */
				0x54, 0x68, 0x65, 0x20, 0x54, 0x69, 0x6d, 0x65, /* |The Time| */
				0x73, 0x20, 0x30, 0x33, 0x2f, 0x4a, 0x61, 0x6e, /* |s 03/Jan| */
				0x2f, 0x32, 0x30, 0x30, 0x39, 0x20, 0x43, 0x68, /* |/2009 Ch| */
				0x61, 0x6e, 0x63, 0x65, 0x6c, 0x6c, 0x6f, 0x72, /* |ancellor| */
				0x20, 0x6f, 0x6e, 0x20, 0x62, 0x72, 0x69, 0x6e, /* | on brin| */
				0x6b, 0x20, 0x6f, 0x66, 0x20, 0x73, 0x65, 0x63, /* |k of sec| */
				0x6f, 0x6e, 0x64, 0x20, 0x62, 0x61, 0x69, 0x6c, /* |ond bail| */
				0x6f, 0x75, 0x74, 0x20, 0x66, 0x6f, 0x72, 0x20, /* |out for | */
				0x62, 0x61, 0x6e, 0x6b, 0x73, /* |banks| */
			},
			Sequence: 0xffffffff,
		},
	},
	Outputs: []*block.Output{
		{
			Value: 50 * 1e8,
			PkScript: []byte{
				0x41, // OP_DATA_65
				0x04, 0x67, 0x8a, 0xfd, 0xb0, 0xfe, 0x55, 0x48,
				0x27, 0x19, 0x67, 0xf1, 0xa6, 0x71, 0x30, 0xb7,
				0x10, 0x5c, 0xd6, 0xa8, 0x28, 0xe0, 0x39, 0x09,
				0xa6, 0x79, 0x62, 0xe0, 0xea, 0x1f, 0x61, 0xde,
				0xb6, 0x49, 0xf6, 0xbc, 0x3f, 0x4c, 0xef, 0x38,
				0xc4, 0xf3, 0x55, 0x04, 0xe5, 0x1e, 0xc1, 0x12,
				0xde, 0x5c, 0x38, 0x4d, 0xf7, 0xba, 0x0b, 0x8d,
				0x57, 0x8a, 0x4c, 0x70, 0x2b, 0x6b, 0xf1, 0x1d,
				0x5f, // 65-byte uncompressed pubkey
				0xac, // OP_CHECKSIG
			},
		},
	},
	LockTime: 0,
}

// testNet3GenesisMerkleRoot is the merkle root of the single coinbase
// transaction above, written in display (reversed) byte order; mustHash
// converts it to internal order.
var testNet3GenesisMerkleRoot = mustHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")

// testNet3GenesisBlock is the well-known first block of the Bitcoin test
// network (version 3): height 0, mined 2011-02-02.
var testNet3GenesisBlock = block.Block{
	Header: block.Header{
		Version:    1,
		PrevHash:   chainhash.Hash{},
		MerkleRoot: testNet3GenesisMerkleRoot,
		Timestamp:  1296688602,
		Bits:       block.Compact256(0x1d00ffff),
		Nonce:      414098458,
	},
	Transactions: []*block.Transaction{&testNet3GenesisCoinbaseTx},
}

// mustHash parses a byte-reversed display-form hex string into a Hash,
// panicking on failure; it is only ever called with the hardcoded constant
// above, at package init.
func mustHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic(err)
	}
	return *h
}
