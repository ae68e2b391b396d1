// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcspv/node/hashcrypto"
	"github.com/btcspv/node/nodeerr"
)

// Command names, exactly 12 bytes once null-padded on the wire.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdSendHeaders = "sendheaders"
	CmdSendCmpct   = "sendcmpct"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdBlock       = "block"
	CmdTx          = "tx"
	CmdAddr        = "addr"
	CmdFeeFilter   = "feefilter"
	CmdAlert       = "alert"
)

// MessageHeaderSize is the size in bytes of the frame preceding every
// message payload: magic(4) + command(12) + length(4) + checksum(4).
const MessageHeaderSize = 24

// CommandSize is the fixed, null-padded width of the command field.
const CommandSize = 12

// MaxMessagePayload is a hard ceiling on any single message's declared
// payload length, well above a full block but far below an attacker-chosen
// unbounded value.
const MaxMessagePayload = 32 * 1024 * 1024

// emptyPayloadChecksum is the checksum of a zero-length payload, used
// directly by verack and other empty messages rather than recomputed.
var emptyPayloadChecksum = [4]byte{0x5d, 0xf6, 0xe0, 0xe2}

// Message is implemented by every payload type the node recognizes.
type Message interface {
	Command() string
	Encode(w io.Writer) error
	Decode(r io.Reader) error
}

// messageHeader is the 24-byte frame preceding every payload.
type messageHeader struct {
	magic    BitcoinNet
	command  string
	length   uint32
	checksum [4]byte
}

func checksum(payload []byte) [4]byte {
	if len(payload) == 0 {
		return emptyPayloadChecksum
	}
	h := hashcrypto.DoubleSHA256(payload)
	var c [4]byte
	copy(c[:], h[:4])
	return c
}

func writeHeader(w io.Writer, net BitcoinNet, command string, payload []byte) error {
	if len(command) > CommandSize {
		return nodeerr.New(nodeerr.InSerialization, "command name exceeds 12 bytes: "+command)
	}
	var buf [MessageHeaderSize]byte
	buf[0] = byte(net)
	buf[1] = byte(net >> 8)
	buf[2] = byte(net >> 16)
	buf[3] = byte(net >> 24)
	copy(buf[4:16], command)

	length := uint32(len(payload))
	buf[16] = byte(length)
	buf[17] = byte(length >> 8)
	buf[18] = byte(length >> 16)
	buf[19] = byte(length >> 24)

	c := checksum(payload)
	copy(buf[20:24], c[:])

	_, err := w.Write(buf[:])
	return err
}

func readHeader(r io.Reader) (messageHeader, error) {
	var buf [MessageHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return messageHeader{}, nodeerr.New(nodeerr.ReadEOF, "message header")
		}
		return messageHeader{}, nodeerr.Wrap(nodeerr.InDeserialization, "message header", err)
	}

	var hdr messageHeader
	hdr.magic = BitcoinNet(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24)

	end := bytes.IndexByte(buf[4:16], 0)
	if end == -1 {
		end = 12
	}
	hdr.command = string(buf[4 : 4+end])

	hdr.length = uint32(buf[16]) | uint32(buf[17])<<8 | uint32(buf[18])<<16 | uint32(buf[19])<<24
	copy(hdr.checksum[:], buf[20:24])
	return hdr, nil
}

// MakeEmptyMessage returns a zero-valued Message for the given command, or
// an error for a command this node does not implement. Callers that get an
// error should drain and drop the payload rather than fail the connection
// (spec section 4.2: "unknown commands are read-and-dropped").
func MakeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerAck:
		return &MsgVerAck{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	case CmdSendHeaders:
		return &MsgSendHeaders{}, nil
	case CmdSendCmpct:
		return &MsgSendCmpct{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdBlock:
		return &MsgBlock{}, nil
	case CmdTx:
		return &MsgTx{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	case CmdFeeFilter:
		return &MsgFeeFilter{}, nil
	case CmdAlert:
		return &MsgAlert{}, nil
	default:
		return nil, fmt.Errorf("unhandled command %q", command)
	}
}

// WriteMessage frames and writes msg to w for the given network.
func WriteMessage(w io.Writer, net BitcoinNet, msg Message) error {
	var payload bytes.Buffer
	if err := msg.Encode(&payload); err != nil {
		return nodeerr.Wrap(nodeerr.InSerialization, "encode "+msg.Command(), err)
	}
	if payload.Len() > MaxMessagePayload {
		return nodeerr.New(nodeerr.RequestedDataTooBig, "outgoing "+msg.Command()+" exceeds max payload")
	}
	if err := writeHeader(w, net, msg.Command(), payload.Bytes()); err != nil {
		return nodeerr.Wrap(nodeerr.WriteFailed, "write header", err)
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return nodeerr.Wrap(nodeerr.WriteFailed, "write payload", err)
	}
	return nil
}

// ReadMessage reads one framed message from r for the given network. If the
// command is unrecognized the payload is still consumed (drained) so the
// stream stays in sync, and ReadMessage returns (nil, command, nil) — the
// caller is expected to just continue its loop.
func ReadMessage(r io.Reader, net BitcoinNet) (Message, string, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, "", err
	}
	if hdr.magic != net {
		return nil, "", nodeerr.New(nodeerr.HandshakeRejected, fmt.Sprintf("magic mismatch: got 0x%08x want 0x%08x", uint32(hdr.magic), uint32(net)))
	}
	if hdr.length > MaxMessagePayload {
		return nil, "", nodeerr.New(nodeerr.RequestedDataTooBig, fmt.Sprintf("%s declares payload of %d bytes", hdr.command, hdr.length))
	}

	payload := make([]byte, hdr.length)
	if hdr.length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, hdr.command, nodeerr.Wrap(nodeerr.InDeserialization, "read payload", err)
		}
	}

	gotChecksum := checksum(payload)
	if gotChecksum != hdr.checksum {
		return nil, hdr.command, nodeerr.New(nodeerr.InDeserialization, "checksum mismatch for "+hdr.command)
	}

	msg, err := MakeEmptyMessage(hdr.command)
	if err != nil {
		// Unknown command: already drained above, just report it.
		return nil, hdr.command, nil
	}

	// The decoder must never read past the declared payload length: it
	// is handed exactly payload, not the underlying stream.
	if err := msg.Decode(bytes.NewReader(payload)); err != nil {
		return nil, hdr.command, nodeerr.Wrap(nodeerr.InDeserialization, "decode "+hdr.command, err)
	}
	return msg, hdr.command, nil
}
