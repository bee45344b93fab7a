// Package sdkerr holds the error taxonomy shared by every zDAO client.
//
// Callers should branch on Kind with IsKind rather than matching error strings.
package sdkerr

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
type Kind string

const (
	// KindSourceUnavailable is a network or transport failure reaching a collaborator.
	KindSourceUnavailable Kind = "SourceUnavailable"
	// KindDecode is a malformed event log or an ABI mismatch.
	KindDecode Kind = "DecodeError"
	// KindMalformedResponse is an unexpected or missing field in a JSON payload.
	KindMalformedResponse Kind = "MalformedResponse"
	// KindNotFound means the referenced DAO, proposal or zNA does not exist upstream.
	KindNotFound Kind = "NotFound"
)

// Source names the external collaborator an error came from.
type Source string

const (
	SourceChain    Source = "chain"
	SourceSubgraph Source = "subgraph"
	SourceGnosis   Source = "gnosis"
	SourceSnapshot Source = "snapshot"
	SourceIPFS     Source = "ipfs"
)

// Error is the SDK's structured error type.
type Error struct {
	Kind    Kind
	Source  Source
	Field   string // offending payload field, set for KindMalformedResponse
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Source, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q: %s", e.Source, e.Field, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Unavailable returns a KindSourceUnavailable error.
func Unavailable(src Source, cause error) error {
	return &Error{Kind: KindSourceUnavailable, Source: src, Message: "source unavailable", Cause: cause}
}

// Decode returns a KindDecode error.
func Decode(src Source, msg string, cause error) error {
	return &Error{Kind: KindDecode, Source: src, Message: msg, Cause: cause}
}

// Malformed returns a KindMalformedResponse error naming the offending field.
func Malformed(src Source, field string, cause error) error {
	msg := "malformed response"
	if cause == nil {
		msg = "missing or invalid value"
	}
	return &Error{Kind: KindMalformedResponse, Source: src, Field: field, Message: msg, Cause: cause}
}

// NotFound returns a KindNotFound error for the given entity description.
func NotFound(src Source, what string) error {
	return &Error{Kind: KindNotFound, Source: src, Message: what + " not found"}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
