// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDiscoverPeers_ResolvesAndCapsResults relies on "localhost" resolving
// in any test environment with a loopback interface configured; it covers
// the address-formatting and max-count trimming, not actual DNS seeding.
func TestDiscoverPeers_ResolvesAndCapsResults(t *testing.T) {
	addrs, err := DiscoverPeers(context.Background(), net.DefaultResolver, "localhost", "18333", 1)
	require.NoError(t, err)
	require.LessOrEqual(t, len(addrs), 1)
	for _, a := range addrs {
		host, port, err := net.SplitHostPort(a)
		require.NoError(t, err)
		require.Equal(t, "18333", port)
		require.NotEmpty(t, host)
	}
}

func TestDiscoverPeers_PropagatesResolverError(t *testing.T) {
	_, err := DiscoverPeers(context.Background(), net.DefaultResolver, "this-host-does-not-exist.invalid", "18333", 8)
	require.Error(t, err)
}
