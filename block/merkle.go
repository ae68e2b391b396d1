// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/hashcrypto"
)

// MerkleRoot computes the Bitcoin merkle root of an ordered list of txids:
// pairs are hashed with double-SHA256, the last element is duplicated when
// the level has an odd count, and the process repeats until one hash
// remains. An empty list yields the all-zero hash.
func MerkleRoot(txids []chainhash.Hash) chainhash.Hash {
	if len(txids) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(txids))
	copy(level, txids)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [64]byte
			copy(buf[:32], level[2*i][:])
			copy(buf[32:], level[2*i+1][:])
			next[i] = chainhash.Hash(hashcrypto.DoubleSHA256(buf[:]))
		}
		level = next
	}
	return level[0]
}
