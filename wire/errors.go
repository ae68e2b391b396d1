// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/btcspv/node/nodeerr"
)

func invTooBigError(command string) error {
	return nodeerr.New(nodeerr.RequestedDataTooBig, fmt.Sprintf("%s exceeds %d inventory vectors", command, MaxInvPerMsg))
}

func invTooBigErrorN(n uint64) error {
	return nodeerr.New(nodeerr.RequestedDataTooBig, fmt.Sprintf("inventory list of %d exceeds %d", n, MaxInvPerMsg))
}
