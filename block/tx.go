// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"io"

	"github.com/btcspv/node/chaincfg/chainhash"
	"github.com/btcspv/node/hashcrypto"
	"github.com/btcspv/node/nodeerr"
	"github.com/btcspv/node/wireenc"
)

// maxScriptSize bounds a single signature/pk script read from the wire; a
// P2PKH script never approaches this, it only exists to stop a malicious
// peer forcing an unbounded allocation.
const maxScriptSize = 10_000_000

// P2PKHScriptLen is the fixed length of a standard pay-to-public-key-hash
// script: OP_DUP OP_HASH160 <push 20> <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
const P2PKHScriptLen = 25

// Outpoint identifies a previous transaction output: its txid and output
// index.
type Outpoint struct {
	Hash  chainhash.Hash
	Index uint32
}

func (o Outpoint) Serialize(w io.Writer) error {
	if _, err := w.Write(o.Hash[:]); err != nil {
		return err
	}
	return wireenc.WriteUint32LE(w, o.Index)
}

func (o *Outpoint) Deserialize(r io.Reader) error {
	h, err := wireenc.ReadFixedBytes(r, chainhash.HashSize)
	if err != nil {
		return err
	}
	copy(o.Hash[:], h)
	o.Index, err = wireenc.ReadUint32LE(r)
	return err
}

// Input is one spend of a prior output.
type Input struct {
	PrevOutpoint    Outpoint
	SignatureScript []byte
	Sequence        uint32
}

func (in *Input) Serialize(w io.Writer) error {
	if err := in.PrevOutpoint.Serialize(w); err != nil {
		return err
	}
	if err := wireenc.WriteVarBytes(w, in.SignatureScript); err != nil {
		return err
	}
	return wireenc.WriteUint32LE(w, in.Sequence)
}

func (in *Input) Deserialize(r io.Reader) error {
	if err := in.PrevOutpoint.Deserialize(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "input outpoint", err)
	}
	script, err := wireenc.ReadVarBytes(r, maxScriptSize, "input.signatureScript")
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "input signature script", err)
	}
	in.SignatureScript = script
	if in.Sequence, err = wireenc.ReadUint32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "input sequence", err)
	}
	return nil
}

// Output carries a value and the script that must be satisfied to spend it.
type Output struct {
	Value    int64
	PkScript []byte
}

func (out *Output) Serialize(w io.Writer) error {
	if err := wireenc.WriteInt64LE(w, out.Value); err != nil {
		return err
	}
	return wireenc.WriteVarBytes(w, out.PkScript)
}

func (out *Output) Deserialize(r io.Reader) error {
	var err error
	if out.Value, err = wireenc.ReadInt64LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "output value", err)
	}
	script, err := wireenc.ReadVarBytes(r, maxScriptSize, "output.pkScript")
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "output pk script", err)
	}
	out.PkScript = script
	return nil
}

// P2PKHScript builds the standard pay-to-public-key-hash script for the
// given 20-byte hash160: 0x76 0xa9 0x14 <h160> 0x88 0xac.
func P2PKHScript(hash160 []byte) []byte {
	script := make([]byte, 0, P2PKHScriptLen)
	script = append(script, 0x76, 0xa9, 0x14)
	script = append(script, hash160...)
	script = append(script, 0x88, 0xac)
	return script
}

// ExtractP2PKHHash160 returns the 20-byte hash160 encoded in script if it is
// a standard P2PKH script, or ok=false otherwise.
func ExtractP2PKHHash160(script []byte) (hash160 []byte, ok bool) {
	if len(script) != P2PKHScriptLen {
		return nil, false
	}
	if script[0] != 0x76 || script[1] != 0xa9 || script[2] != 0x14 {
		return nil, false
	}
	if script[23] != 0x88 || script[24] != 0xac {
		return nil, false
	}
	return script[3:23], true
}

// Transaction is a Bitcoin transaction: a version, an ordered set of
// inputs and outputs, and a locktime.
type Transaction struct {
	Version  int32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
}

// Serialize writes the full wire representation of the transaction.
func (t *Transaction) Serialize(w io.Writer) error {
	if err := wireenc.WriteInt32LE(w, t.Version); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, uint64(len(t.Inputs))); err != nil {
		return err
	}
	for _, in := range t.Inputs {
		if err := in.Serialize(w); err != nil {
			return err
		}
	}
	if err := wireenc.WriteVarInt(w, uint64(len(t.Outputs))); err != nil {
		return err
	}
	for _, out := range t.Outputs {
		if err := out.Serialize(w); err != nil {
			return err
		}
	}
	return wireenc.WriteUint32LE(w, t.LockTime)
}

// maxTxInOut bounds the declared input/output count read from the wire.
const maxTxInOut = 1_000_000

// Deserialize reads the full wire representation of a transaction.
func (t *Transaction) Deserialize(r io.Reader) error {
	var err error
	if t.Version, err = wireenc.ReadInt32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "tx version", err)
	}

	numIn, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "tx input count", err)
	}
	if numIn > maxTxInOut {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "tx declares too many inputs")
	}
	t.Inputs = make([]*Input, numIn)
	for i := range t.Inputs {
		in := &Input{}
		if err := in.Deserialize(r); err != nil {
			return err
		}
		t.Inputs[i] = in
	}

	numOut, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "tx output count", err)
	}
	if numOut > maxTxInOut {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "tx declares too many outputs")
	}
	t.Outputs = make([]*Output, numOut)
	for i := range t.Outputs {
		out := &Output{}
		if err := out.Deserialize(r); err != nil {
			return err
		}
		t.Outputs[i] = out
	}

	if t.LockTime, err = wireenc.ReadUint32LE(r); err != nil {
		return nodeerr.Wrap(nodeerr.InDeserialization, "tx locktime", err)
	}
	return nil
}

// Bytes returns the serialized transaction.
func (t *Transaction) Bytes() []byte {
	var buf bytes.Buffer
	_ = t.Serialize(&buf)
	return buf.Bytes()
}

// TxID is the transaction's identity: double-SHA256 of its serialized form.
func (t *Transaction) TxID() chainhash.Hash {
	return chainhash.Hash(hashcrypto.DoubleSHA256(t.Bytes()))
}

// IsOwnedByHash160 reports whether any output's pk-script is a P2PKH script
// paying the given hash160.
func (t *Transaction) IsOwnedByHash160(hash160 []byte) bool {
	for _, out := range t.Outputs {
		h, ok := ExtractP2PKHHash160(out.PkScript)
		if ok && bytes.Equal(h, hash160) {
			return true
		}
	}
	return false
}

// OutpointSet returns the set of outpoints this transaction spends, used to
// detect an already-pending transaction (spec section 4.7).
func (t *Transaction) OutpointSet() map[Outpoint]struct{} {
	set := make(map[Outpoint]struct{}, len(t.Inputs))
	for _, in := range t.Inputs {
		set[in.PrevOutpoint] = struct{}{}
	}
	return set
}

// SameOutpoints reports whether t and other spend exactly the same set of
// outpoints, the pending-transaction-dedup rule of spec section 4.7.
func (t *Transaction) SameOutpoints(other *Transaction) bool {
	if len(t.Inputs) != len(other.Inputs) {
		return false
	}
	mine := t.OutpointSet()
	theirs := other.OutpointSet()
	if len(mine) != len(theirs) {
		return false
	}
	for op := range mine {
		if _, ok := theirs[op]; !ok {
			return false
		}
	}
	return true
}
