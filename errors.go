package dhcpopt

import (
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// OptionError carries the context every parse or assembly error needs: the
// option name (or synthetic "unknown-<code>"), the universe name, the
// numeric code, the offending length, and the buffer position, when
// applicable.
type OptionError struct {
	// Err is the underlying cause.
	Err error

	// Option is the option's name, or "unknown-<code>" if unrecognized.
	Option string

	// Universe is the namespace the option belongs to.
	Universe string

	// Code is the option's numeric code.
	Code uint32

	// Length is the offending length, or -1 if not applicable.
	Length int

	// Position is the buffer offset at which the error occurred, or -1 if
	// not applicable.
	Position int
}

// Error implements the error interface for *OptionError.
func (e *OptionError) Error() (s string) {
	return fmt.Sprintf(
		"option %s (%s:%d) at %d, len %d: %s",
		e.Option, e.Universe, e.Code, e.Position, e.Length, e.Err,
	)
}

// Unwrap returns e.Err, so that [errors.Is]/[errors.As] see through an
// *OptionError.
func (e *OptionError) Unwrap() (err error) {
	return e.Err
}

// newOptionErr builds an *OptionError from a descriptor, wrapping cause.
func newOptionErr(d *Descriptor, universe string, pos, length int, cause error) (err error) {
	name, code := "unknown", uint32(0)
	if d != nil {
		name, code = d.Name, d.Code
	}

	return &OptionError{
		Err: cause,
		Option: name,
		Universe: universe,
		Code: code,
		Length: length,
		Position: pos,
	}
}

// Sentinel causes wrapped by [OptionError.Err].
const (
	// ErrBufferOverrun means an option's declared length would read past
	// the end of the buffer being parsed.
	ErrBufferOverrun errors.Error = "option larger than buffer"

	// ErrUnknownUniverse means an encapsulation atom named a universe that
	// is not registered.
	ErrUnknownUniverse errors.Error = "unknown universe"

	// ErrTruncated means a tag or length field itself did not fit in the
	// remaining buffer.
	ErrTruncated errors.Error = "truncated option header"
)
