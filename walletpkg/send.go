// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletpkg

import (
	"bytes"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/btcspv/node/block"
	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/hashcrypto"
	"github.com/btcspv/node/nodeerr"
)

// sighashAllSuffix is appended to the signing preimage before hashing, the
// 4-byte little-endian encoding of SIGHASH_ALL (spec section 4.8).
var sighashAllSuffix = [4]byte{0x01, 0x00, 0x00, 0x00}

// BuildTransaction spends amount+fee satoshis from from's UTXO set to
// payTo, returning change (if any) to from. utxos must already be filtered
// to from's address. It implements spec section 4.8 steps 1-3.
func BuildTransaction(from *Account, utxos []chain.UnspentOutput, payTo [20]byte, amount, fee int64) (*block.Transaction, error) {
	sorted := make([]chain.UnspentOutput, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Output.Value > sorted[j].Output.Value
	})

	need := amount + fee
	var gathered int64
	var inputs []*block.Input
	var spent []chain.UnspentOutput
	for _, u := range sorted {
		if gathered >= need {
			break
		}
		inputs = append(inputs, &block.Input{
			PrevOutpoint: u.Outpoint,
			Sequence:     0xffffffff,
		})
		spent = append(spent, u)
		gathered += u.Output.Value
	}
	if gathered < need {
		return nil, nodeerr.New(nodeerr.NotEnoughFunds, "insufficient unspent outputs to cover amount and fee")
	}

	outputs := []*block.Output{
		{Value: amount, PkScript: block.P2PKHScript(payTo[:])},
	}
	change := gathered - need
	if change > 0 {
		outputs = append(outputs, &block.Output{
			Value:    change,
			PkScript: block.P2PKHScript(from.Hash160[:]),
		})
	}

	tx := &block.Transaction{
		Version:  1,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: 0,
	}

	for i, u := range spent {
		sig, err := signInput(from, tx, i, u.Output.PkScript)
		if err != nil {
			return nil, err
		}
		tx.Inputs[i].SignatureScript = sig
	}
	log.Debugf("built transaction %s: %d inputs, %d outputs, change %d",
		tx.TxID(), len(tx.Inputs), len(tx.Outputs), change)
	return tx, nil
}

// signInput builds the SIGHASH_ALL preimage for input i (every other
// input's signature script blanked, input i's set to referencedPkScript),
// signs its double-SHA256 digest, and returns the assembled
// signatureScript: <len(sig)> <sig+hashtype> <len(pubkey)> <pubkey>
// (spec section 4.8 step 4).
func signInput(account *Account, tx *block.Transaction, i int, referencedPkScript []byte) ([]byte, error) {
	preimage := &block.Transaction{
		Version:  tx.Version,
		Outputs:  tx.Outputs,
		LockTime: tx.LockTime,
	}
	preimage.Inputs = make([]*block.Input, len(tx.Inputs))
	for j, in := range tx.Inputs {
		script := []byte{}
		if j == i {
			script = referencedPkScript
		}
		preimage.Inputs[j] = &block.Input{
			PrevOutpoint:    in.PrevOutpoint,
			SignatureScript: script,
			Sequence:        in.Sequence,
		}
	}

	var buf bytes.Buffer
	if err := preimage.Serialize(&buf); err != nil {
		return nil, nodeerr.Wrap(nodeerr.CannotSign, "serialize signing preimage", err)
	}
	buf.Write(sighashAllSuffix[:])
	digest := hashcrypto.DoubleSHA256(buf.Bytes())

	privKey, _ := btcec.PrivKeyFromBytes(account.PrivateKey[:])
	if privKey.Key.IsZero() {
		return nil, nodeerr.New(nodeerr.InvalidPrivateKey, "signing account has no valid private key")
	}
	sig := ecdsa.Sign(privKey, digest[:])
	der := sig.Serialize()

	script := make([]byte, 0, 1+len(der)+1+1+len(account.PublicKey))
	sigWithHashType := append(append([]byte{}, der...), 0x01)
	script = append(script, byte(len(sigWithHashType)))
	script = append(script, sigWithHashType...)
	script = append(script, byte(len(account.PublicKey)))
	script = append(script, account.PublicKey[:]...)
	return script, nil
}
