// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// fixtureTxHex is the round-trip transaction fixture from spec section 8,
// scenario 4: one input, two outputs of 100000 and 4450000 satoshis.
const fixtureTxHex = "01000000012025EF692CA987B39A81336EFB59B056FB90C03A5EA4C4544CF92757613E2EA40100000000FFFFFFFF02A086010000000000" +
	"1976A9147AA8184685CA1F06F543B64A502EB3B6135D672088ACD0E64300000000001976A9144B88C1D3874908365773A765CDB052C9EF5F1A8088AC98FB9564"

func TestTransactionRoundTrip_Fixture(t *testing.T) {
	raw, err := hex.DecodeString(fixtureTxHex)
	require.NoError(t, err)

	var tx Transaction
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))

	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 2)
	require.Equal(t, int64(100000), tx.Outputs[0].Value)
	require.Equal(t, int64(4450000), tx.Outputs[1].Value)

	got := tx.Bytes()
	if !bytes.Equal(got, raw) {
		t.Fatalf("re-serialized transaction does not match fixture - got %s, want %s",
			spew.Sdump(got), spew.Sdump(raw))
	}
}

func TestTransactionTxID_IsDoubleSHA256OfSerialization(t *testing.T) {
	raw, err := hex.DecodeString(fixtureTxHex)
	require.NoError(t, err)

	var tx Transaction
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))

	id1 := tx.TxID()
	id2 := tx.TxID()
	require.Equal(t, id1, id2, "txid must be stable across calls")

	var roundTripped Transaction
	require.NoError(t, roundTripped.Deserialize(bytes.NewReader(tx.Bytes())))
	require.Equal(t, id1, roundTripped.TxID())
}

func TestP2PKHScript_ExtractRoundTrip(t *testing.T) {
	hash160 := mustUnhex(t, "4B88C1D3874908365773A765CDB052C9EF5F1A80")

	script := P2PKHScript(hash160)
	got, ok := ExtractP2PKHHash160(script)
	require.True(t, ok)
	require.Equal(t, hash160, got)
}

// TestTransactionOwnership_Scenario6 reproduces spec section 8 scenario 6:
// an output paying a given hash160 is owned by exactly that hash160 and no
// other.
func TestTransactionOwnership_Scenario6(t *testing.T) {
	hash160 := mustUnhex(t, "4B88C1D3874908365773A765CDB052C9EF5F1A80")
	other := mustUnhex(t, "7AA8184685CA1F06F543B64A502EB3B6135D6720")

	tx := &Transaction{
		Outputs: []*Output{
			{Value: 1, PkScript: P2PKHScript(hash160)},
		},
	}

	require.True(t, tx.IsOwnedByHash160(hash160))
	require.False(t, tx.IsOwnedByHash160(other))
}

func TestOutpointSet_SameOutpoints(t *testing.T) {
	op := Outpoint{Index: 1}
	tx1 := &Transaction{Inputs: []*Input{{PrevOutpoint: op}}}
	tx2 := &Transaction{Inputs: []*Input{{PrevOutpoint: op}}}
	tx3 := &Transaction{Inputs: []*Input{{PrevOutpoint: Outpoint{Index: 2}}}}

	require.True(t, tx1.SameOutpoints(tx2))
	require.False(t, tx1.SameOutpoints(tx3))
}

func mustUnhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}
