// Package response renders the outcome of an SDK call for the command line.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/zdao"
	"gopkg.in/yaml.v3"
)

const (
	CodeOk = 200

	CodeErrInvalidArgument     = 400
	ReasonErrInvalidArgument   = "invalid argument"
	CodeErrNotFound            = 404
	ReasonErrNotFound          = "not found"
	CodeErrDecode              = 422
	ReasonErrDecode            = "cannot decode registry event"
	CodeErrInternal            = 500
	ReasonErrInternal          = "internal error"
	CodeErrMalformedResponse   = 502
	ReasonErrMalformedResponse = "malformed upstream response"
	CodeErrSourceUnavailable   = 503
	ReasonErrSourceUnavailable = "upstream source unavailable"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Response is the envelope printed for every command.
type Response struct {
	Ok     bool   `json:"ok" yaml:"ok"`
	Code   int    `json:"code" yaml:"code"`
	Reason string `json:"reason" yaml:"reason"`
	Data   any    `json:"data" yaml:"data"`
}

// Set sets the data for a successful response
func (r *Response) Set(data any) *Response {
	r.Data = data
	r.Code = CodeOk
	r.Ok = true
	return r
}

// SetError sets the error code and reason for a failed response
func (r *Response) SetError(code int, reason string) *Response {
	r.Code = code
	r.Reason = reason
	r.Ok = false
	return r
}

// SetErr maps err onto a code by its kind and keeps its message as the reason.
func (r *Response) SetErr(err error) *Response {
	code, reason := CodeErrInternal, ReasonErrInternal
	switch sdkerr.KindOf(err) {
	case sdkerr.KindNotFound:
		code, reason = CodeErrNotFound, ReasonErrNotFound
	case sdkerr.KindDecode:
		code, reason = CodeErrDecode, ReasonErrDecode
	case sdkerr.KindMalformedResponse:
		code, reason = CodeErrMalformedResponse, ReasonErrMalformedResponse
	case sdkerr.KindSourceUnavailable:
		code, reason = CodeErrSourceUnavailable, ReasonErrSourceUnavailable
	default:
		if errors.Is(err, helpers.ErrInvalidAddress) || errors.Is(err, helpers.ErrInvalidZNA) ||
			errors.Is(err, helpers.ErrInvalidDAOID) || errors.Is(err, zdao.ErrNoRegistry) {
			code, reason = CodeErrInvalidArgument, ReasonErrInvalidArgument
		}
	}
	return r.SetError(code, fmt.Sprintf("%s: %v", reason, err))
}

// Marshal encodes the response in the given format.
func (r *Response) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		return yaml.Marshal(r)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// MustMarshal marshals the response and panics if it fails
func (r *Response) MustMarshal(format string) []byte {
	data, err := r.Marshal(format)
	if err != nil {
		panic(err)
	}
	return data
}

// Write prints the response followed by a newline.
func (r *Response) Write(w io.Writer, format string) error {
	data, err := r.Marshal(format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
