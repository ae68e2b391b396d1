// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nodeerr centralizes the node's error taxonomy (spec section 7) so
// every component reports failures with a stable, comparable Kind instead of
// ad hoc strings.
package nodeerr

import "errors"

// Kind identifies a class of error from the spec's taxonomy.
type Kind int

const (
	// Serialization
	InSerialization Kind = iota
	InDeserialization
	ReadEOF
	WriteFailed

	// Block / chain
	CouldNotAppendBlock
	TransactionAlreadyInBlock
	CouldNotUpdate
	NodeChainReferenceNotFound
	CouldNotFindBlockFarEnough
	CouldNotHash

	// Node / peer
	NodeNotResponding
	HandshakeRejected
	WhileValidating
	RequestedDataTooBig
	ConnectionClosed

	// Wallet
	NotEnoughFunds
	InvalidAddress
	InvalidPublicKey
	InvalidPrivateKey
	CannotSign

	// Process
	FailThread
	CannotUnwrapShared
	ErrorWriting
)

var kindNames = map[Kind]string{
	InSerialization:            "InSerialization",
	InDeserialization:          "InDeserialization",
	ReadEOF:                    "ReadEof",
	WriteFailed:                "WriteFailed",
	CouldNotAppendBlock:        "CouldNotAppendBlock",
	TransactionAlreadyInBlock:  "TransactionAlreadyInBlock",
	CouldNotUpdate:             "CouldNotUpdate",
	NodeChainReferenceNotFound: "NodeChainReferenceNotFound",
	CouldNotFindBlockFarEnough: "CouldNotFindBlockFarEnough",
	CouldNotHash:               "CouldNotHash",
	NodeNotResponding:          "NodeNotResponding",
	HandshakeRejected:          "HandshakeRejected",
	WhileValidating:            "WhileValidating",
	RequestedDataTooBig:        "RequestedDataTooBig",
	ConnectionClosed:           "ConnectionClosed",
	NotEnoughFunds:             "NotEnoughFunds",
	InvalidAddress:             "InvalidAddress",
	InvalidPublicKey:           "InvalidPublicKey",
	InvalidPrivateKey:          "InvalidPrivateKey",
	CannotSign:                 "CannotSign",
	FailThread:                 "FailThread",
	CannotUnwrapShared:         "CannotUnwrapShared",
	ErrorWriting:               "ErrorWriting",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the node's wrapping error type: a Kind plus a human-readable
// message and an optional underlying cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error that carries cause as its Unwrap target.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
