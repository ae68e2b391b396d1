// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodeerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("eof")
	err := Wrap(ReadEOF, "reading header", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "ReadEof: reading header: eof", err.Error())
}

func TestIs_MatchesKindThroughWrapping(t *testing.T) {
	err := New(NotEnoughFunds, "insufficient balance")
	wrapped := errors.Join(errors.New("context"), err)

	require.True(t, Is(err, NotEnoughFunds))
	require.True(t, Is(wrapped, NotEnoughFunds))
	require.False(t, Is(err, InvalidAddress))
}

func TestKind_String_UnknownFallsBack(t *testing.T) {
	require.Equal(t, "Unknown", Kind(-1).String())
	require.Equal(t, "NotEnoughFunds", NotEnoughFunds.String())
}
