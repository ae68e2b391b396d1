// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logs initializes the node's logging backend and distributes a
// btclog.Logger to every package that wants one, following the
// UseLogger/DisableLog convention used throughout btcsuite-derived trees.
package logs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/btcspv/node/chain"
	"github.com/btcspv/node/nodeproc"
	"github.com/btcspv/node/peer"
	"github.com/btcspv/node/walletpkg"
)

// logRotator writes to stdout and the rotated log file in dir.
var logRotator *rotator.Rotator

const (
	logFilename = "spvnode.log"
	maxRolls    = 8
)

// InitLogRotator creates the log file and begins rotation of it, writing
// both to the file and to the passed-through backend writer.
func InitLogRotator(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile := filepath.Join(dir, logFilename)
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return fmt.Errorf("creating file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// backendLogger writes to stdout and, once InitLogRotator has run, to the
// rotated log file.
type backendLogger struct{}

func (backendLogger) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var backend = btclog.NewBackend(backendLogger{})

// subsystemLoggers names every package this node wires a distinct logger
// into, mirroring each package's own UseLogger function.
var subsystemLoggers = map[string]btclog.Logger{
	"CHAN": backend.Logger("CHAN"), // chain
	"PEER": backend.Logger("PEER"), // peer
	"WLLT": backend.Logger("WLLT"), // walletpkg
	"NODE": backend.Logger("NODE"), // nodeproc
}

// SetLogLevel parses level (trace, debug, info, warn, error, critical, off)
// and applies it to every subsystem, then wires each subsystem's logger
// into its package via that package's UseLogger.
func SetLogLevel(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	for _, l := range subsystemLoggers {
		l.SetLevel(lvl)
	}

	chain.UseLogger(subsystemLoggers["CHAN"])
	peer.UseLogger(subsystemLoggers["PEER"])
	walletpkg.UseLogger(subsystemLoggers["WLLT"])
	nodeproc.UseLogger(subsystemLoggers["NODE"])
	return nil
}

// Logger returns the subsystem logger registered under tag, or a disabled
// logger if tag is unknown.
func Logger(tag string) btclog.Logger {
	if l, ok := subsystemLoggers[tag]; ok {
		return l
	}
	return btclog.Disabled
}
