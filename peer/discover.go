// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"net"

	"github.com/btcspv/node/nodeerr"
)

// DiscoverPeers resolves host through resolver and returns up to max
// "host:port" addresses to dial, the initial peer set a fresh node has no
// other way to learn (spec section 6, "dns_seeder"). resolver is injected
// so tests can substitute a fake one instead of touching real DNS.
func DiscoverPeers(ctx context.Context, resolver *net.Resolver, host, port string, max int) ([]string, error) {
	ips, err := resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.NodeNotResponding, "resolving dns seeder "+host, err)
	}
	if len(ips) > max {
		ips = ips[:max]
	}
	addrs := make([]string, len(ips))
	for i, ip := range ips {
		addrs[i] = net.JoinHostPort(ip.IP.String(), port)
	}
	return addrs, nil
}
