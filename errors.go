// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrValidation marks malformed caller input: a mnemonic, path or encoded
	// string that has to be corrected before it can be used.
	ErrValidation = errors.New("validation error")

	// ErrDerivation marks well-formed input that still cannot produce the
	// required key material, such as a hardened child of a public-only node.
	ErrDerivation = errors.New("derivation error")

	// ErrCrypto marks a failure inside an underlying primitive, such as an
	// unavailable random source.
	ErrCrypto = errors.New("crypto error")
)

// Error is the structured error returned by every engine function.
type Error struct {
	// Kind is one of ErrValidation, ErrDerivation or ErrCrypto.
	Kind error
	// Msg is a human readable description.
	Msg string
	// Detail optionally names the offending value or rule.
	Detail string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	if e.Detail != "" {
		s += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(msg, detail string, err error) error {
	return &Error{Kind: ErrValidation, Msg: msg, Detail: detail, Err: err}
}

func derivationError(msg, detail string, err error) error {
	return &Error{Kind: ErrDerivation, Msg: msg, Detail: detail, Err: err}
}

func cryptoError(msg string, err error) error {
	return &Error{Kind: ErrCrypto, Msg: msg, Err: err}
}
