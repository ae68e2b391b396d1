// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads the node's configuration: package-level defaults,
// command-line flags parsed with go-flags over them, and an optional YAML
// file (named by --configfile) that fills only fields still at their zero
// value (spec section 6).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// IBDMethod names the strategy used for the initial block download.
type IBDMethod string

const (
	HeaderFirst IBDMethod = "HeaderFirst"
	BlocksFirst IBDMethod = "BlocksFirst"
)

// Interface names the frontend the node drives.
type Interface string

const (
	TUI Interface = "TUI"
	GUI Interface = "GUI"
)

// ConnectionConfig groups the peer/handshake parameters (spec section 6).
type ConnectionConfig struct {
	ProtocolVersion uint32   `long:"p2p_protocol_version" yaml:"p2p_protocol_version" description:"protocol version advertised in the version message"`
	IBDMethod       string   `long:"ibd_method" yaml:"ibd_method" description:"HeaderFirst or BlocksFirst"`
	PeerCountMax    int      `long:"peer_count_max" yaml:"peer_count_max" description:"maximum number of simultaneous peer connections"`
	BlockHeight     int32    `long:"block_height" yaml:"block_height" description:"start height advertised in the version message"`
	Services        uint64   `long:"services" yaml:"services" description:"service bits advertised in the version message"`
	MagicNumber     uint32   `long:"magic_numbers" yaml:"magic_numbers" description:"network magic number"`
	Nonce           uint64   `long:"nonce" yaml:"nonce" description:"nonce advertised in the version message"`
	UserAgent       string   `long:"user_agent" yaml:"user_agent" description:"user agent advertised in the version message"`
	Relay           bool     `long:"relay" yaml:"relay" description:"relay flag advertised in the version message"`
	DNSSeederHost   string   `long:"dns_seeder_host" yaml:"dns_seeder_host" description:"hostname of the DNS seeder to resolve for initial peers"`
	DNSSeederPort   string   `long:"dns_seeder_port" yaml:"dns_seeder_port" description:"port peers are dialed on"`
}

// DownloadConfig groups the initial block download cutoff (spec section 6).
type DownloadConfig struct {
	Timestamp uint32 `long:"download_timestamp" yaml:"download_timestamp" description:"unix seconds; blocks older than this are not fetched during IBD"`
}

// SaveConfig groups the optional persisted-state paths (spec section 6).
type SaveConfig struct {
	ReadBlockchainPath  string `long:"read_blockchain_path" yaml:"read_blockchain_path" description:"chain blob to load at startup"`
	ReadWalletPath      string `long:"read_wallet_path" yaml:"read_wallet_path" description:"wallet blob to load at startup"`
	WriteBlockchainPath string `long:"write_blockchain_path" yaml:"write_blockchain_path" description:"chain blob to write at clean shutdown"`
	WriteWalletPath     string `long:"write_wallet_path" yaml:"write_wallet_path" description:"wallet blob to write at clean shutdown"`
}

// LogsConfig groups the logging sink parameters (spec section 6).
type LogsConfig struct {
	Path  string `long:"log_path" yaml:"log_path" description:"directory logs and the rotated log file are written to"`
	Level string `long:"log_level" yaml:"log_level" description:"trace, debug, info, warn, error, critical, or off"`
}

// Config is the top-level configuration the node runs under.
type Config struct {
	ConfigFile string `short:"C" long:"configfile" description:"path to a YAML config file"`

	Connection ConnectionConfig `group:"Connection"`
	Download   DownloadConfig   `group:"Download"`
	Save       SaveConfig       `group:"Save"`
	Logs       LogsConfig       `group:"Logs"`
	Interface  string           `long:"interface" yaml:"interface" description:"TUI or GUI"`
}

// Default returns the configuration used when nothing overrides it: testnet3
// protocol defaults, header-first IBD, a modest peer cap, no persisted state.
func Default() Config {
	return Config{
		Connection: ConnectionConfig{
			ProtocolVersion: 70016,
			IBDMethod:       string(HeaderFirst),
			PeerCountMax:    8,
			BlockHeight:     0,
			Services:        0,
			MagicNumber:     0x0709110b,
			UserAgent:       "/spvnode:0.1.0/",
			Relay:           false,
			DNSSeederPort:   "18333",
		},
		Download: DownloadConfig{
			Timestamp: 0,
		},
		Logs: LogsConfig{
			Path:  "logs",
			Level: "info",
		},
		Interface: string(TUI),
	}
}

// Load parses command-line arguments over the package defaults, then
// merges in a YAML file if --configfile (-C) names one; no default path is
// searched. The file only fills fields that defaults and flags left at
// their zero value, so a field with a non-zero default keeps its default
// or flag value, and Services, Nonce, BlockHeight and Relay are never
// taken from the file.
func Load(args []string) (*Config, error) {
	cfg := Default()

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, fmt.Errorf("parsing command line: %w", err)
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", remaining)
	}

	if cfg.ConfigFile != "" {
		if err := mergeYAMLFile(&cfg, cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeYAMLFile decodes path into a fresh Config and overwrites only the
// fields the command line left at their zero value; go-flags does not tell
// us which flags were explicitly set, so a file value only ever fills a
// gap, it never clobbers an explicit flag.
func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	mergeInto(cfg, &fromFile)
	return nil
}

func mergeInto(dst, src *Config) {
	if dst.Connection.ProtocolVersion == 0 {
		dst.Connection.ProtocolVersion = src.Connection.ProtocolVersion
	}
	if dst.Connection.IBDMethod == "" {
		dst.Connection.IBDMethod = src.Connection.IBDMethod
	}
	if dst.Connection.PeerCountMax == 0 {
		dst.Connection.PeerCountMax = src.Connection.PeerCountMax
	}
	if dst.Connection.MagicNumber == 0 {
		dst.Connection.MagicNumber = src.Connection.MagicNumber
	}
	if dst.Connection.UserAgent == "" {
		dst.Connection.UserAgent = src.Connection.UserAgent
	}
	if dst.Connection.DNSSeederHost == "" {
		dst.Connection.DNSSeederHost = src.Connection.DNSSeederHost
	}
	if dst.Connection.DNSSeederPort == "" {
		dst.Connection.DNSSeederPort = src.Connection.DNSSeederPort
	}
	if dst.Download.Timestamp == 0 {
		dst.Download.Timestamp = src.Download.Timestamp
	}
	if dst.Save.ReadBlockchainPath == "" {
		dst.Save.ReadBlockchainPath = src.Save.ReadBlockchainPath
	}
	if dst.Save.ReadWalletPath == "" {
		dst.Save.ReadWalletPath = src.Save.ReadWalletPath
	}
	if dst.Save.WriteBlockchainPath == "" {
		dst.Save.WriteBlockchainPath = src.Save.WriteBlockchainPath
	}
	if dst.Save.WriteWalletPath == "" {
		dst.Save.WriteWalletPath = src.Save.WriteWalletPath
	}
	if dst.Logs.Path == "" {
		dst.Logs.Path = src.Logs.Path
	}
	if dst.Logs.Level == "" {
		dst.Logs.Level = src.Logs.Level
	}
	if dst.Interface == "" {
		dst.Interface = src.Interface
	}
}

func (c *Config) validate() error {
	switch IBDMethod(c.Connection.IBDMethod) {
	case HeaderFirst, BlocksFirst:
	default:
		return fmt.Errorf("invalid ibd_method %q", c.Connection.IBDMethod)
	}
	switch Interface(c.Interface) {
	case TUI, GUI:
	default:
		return fmt.Errorf("invalid interface %q", c.Interface)
	}
	if c.Connection.PeerCountMax <= 0 {
		return fmt.Errorf("peer_count_max must be positive")
	}
	return nil
}
