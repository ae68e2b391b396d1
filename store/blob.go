// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store implements the node's on-disk persistence: atomic
// chain/wallet blob files written on clean shutdown and read at startup
// (spec section 6, "Persisted state"). The chain is held in memory during
// a run and never paged to disk block-by-block; disk-backed block storage
// is an explicit non-goal.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/walletpkg"
)

// writeAtomic writes data to a temp file in path's directory, then renames
// it over path, so a crash mid-write never leaves a truncated blob behind.
func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// SaveChain atomically writes c's blob to path.
func SaveChain(path string, c *chain.Chain) error {
	return writeAtomic(path, func(f *os.File) error {
		return c.Serialize(f)
	})
}

// LoadChain reads a chain blob previously written by SaveChain.
func LoadChain(path string) (*chain.Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chain blob %s: %w", path, err)
	}
	defer f.Close()
	return chain.Deserialize(f)
}

// SaveWallet atomically writes w's blob to path.
func SaveWallet(path string, w *walletpkg.Wallet) error {
	return writeAtomic(path, func(f *os.File) error {
		return w.Serialize(f)
	})
}

// LoadWallet reads a wallet blob previously written by SaveWallet.
func LoadWallet(path string) (*walletpkg.Wallet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wallet blob %s: %w", path, err)
	}
	defer f.Close()
	return walletpkg.DeserializeWallet(f)
}
