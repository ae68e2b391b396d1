// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"

	"github.com/btcspv/node/wireenc"
)

// NetAddress is the address record embedded (twice) in a version message:
// the receiver's and the sender's socket. Its IP is always written as 16
// bytes, IPv4 addresses mapped as ::ffff:a.b.c.d, and its port is
// big-endian — the one field in the whole protocol that isn't
// little-endian.
type NetAddress struct {
	Services ServiceFlag
	IP       net.IP
	Port     uint16
}

var v4InV6Prefix = []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

func (na *NetAddress) Serialize(w io.Writer) error {
	if err := wireenc.WriteUint64LE(w, uint64(na.Services)); err != nil {
		return err
	}

	var ip16 [16]byte
	if ip4 := na.IP.To4(); ip4 != nil {
		copy(ip16[:12], v4InV6Prefix)
		copy(ip16[12:], ip4)
	} else if ip6 := na.IP.To16(); ip6 != nil {
		copy(ip16[:], ip6)
	}
	if _, err := w.Write(ip16[:]); err != nil {
		return err
	}

	return wireenc.WriteUint16BE(w, na.Port)
}

func (na *NetAddress) Deserialize(r io.Reader) error {
	services, err := wireenc.ReadUint64LE(r)
	if err != nil {
		return err
	}
	na.Services = ServiceFlag(services)

	ip16, err := wireenc.ReadFixedBytes(r, 16)
	if err != nil {
		return err
	}
	na.IP = net.IP(ip16)

	na.Port, err = wireenc.ReadUint16BE(r)
	return err
}
