package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports malformed numeric content or a degenerate normalization.
	ErrFormat = errors.New("malformed spectrum data")
	// ErrUnsupportedMachine reports a raw dump whose machine id is not recognized.
	ErrUnsupportedMachine = errors.New("unsupported machine")
	// ErrTruncated reports a raw dump shorter than its fixed layout requires.
	ErrTruncated = errors.New("truncated file")
	// ErrUnsupportedFormat reports an input format the decoders do not handle.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// LineError locates a text-format failure.
type LineError struct {
	Line   int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *LineError) Unwrap() error { return ErrFormat }

// UnsupportedMachineError carries the machine id found in the header.
type UnsupportedMachineError struct {
	Machine string
}

func (e *UnsupportedMachineError) Error() string {
	return fmt.Sprintf("unsupported machine %q (want %q or %q)", e.Machine, MachinePolyII, MachinePowdat)
}

func (e *UnsupportedMachineError) Unwrap() error { return ErrUnsupportedMachine }

// TruncatedFileError describes the read that ran past the end of the input.
type TruncatedFileError struct {
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("truncated file: %s needs %d bytes at offset %#x, file has %d", e.Field, e.Need, e.Offset, e.Have)
}

func (e *TruncatedFileError) Unwrap() error { return ErrTruncated }
