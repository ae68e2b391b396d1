// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashcrypto

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// ErrChecksum indicates that the checksum of a Base58Check-encoded address
// did not match the checksum calculated from the payload.
var ErrChecksum = errors.New("checksum mismatch")

// ErrInvalidFormat indicates the Base58Check string is not long enough to
// carry a version byte and a 4-byte checksum.
var ErrInvalidFormat = errors.New("invalid base58check format")

// Base58CheckEncode prepends version to payload, appends the first 4 bytes
// of DoubleSHA256(version||payload), and Base58-encodes the result. This
// is the encoding spec.md section 3 uses for P2PKH addresses: version byte
// 0x6f for testnet, followed by the 20-byte hash160.
func Base58CheckEncode(version byte, payload []byte) string {
	b := make([]byte, 0, 1+len(payload)+4)
	b = append(b, version)
	b = append(b, payload...)
	cksum := DoubleSHA256(b)
	b = append(b, cksum[:4]...)
	return base58.Encode(b)
}

// Base58CheckDecode reverses Base58CheckEncode, returning the version byte
// and payload, or an error if the checksum does not match.
func Base58CheckDecode(address string) (version byte, payload []byte, err error) {
	decoded := base58.Decode(address)
	if len(decoded) < 5 {
		return 0, nil, ErrInvalidFormat
	}

	version = decoded[0]
	body := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]

	expected := DoubleSHA256(body)
	for i := 0; i < 4; i++ {
		if checksum[i] != expected[i] {
			return 0, nil, ErrChecksum
		}
	}

	payload = make([]byte, len(body)-1)
	copy(payload, body[1:])
	return version, payload, nil
}
