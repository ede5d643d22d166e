package decode

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"pxrd/internal/samples"
)

// Format identifies an input file layout.
type Format string

const (
	FormatText Format = "xyd"
	FormatRaw  Format = "raw"
)

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatText, FormatRaw}
}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))) {
	case FormatText:
		return FormatText, nil
	case FormatRaw:
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// FormatFromName picks the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, filepath.Base(name))
	}
	return ParseFormat(ext)
}

// Decode routes r to the decoder for format.
func Decode(format Format, r io.Reader) (samples.Samples, error) {
	switch format {
	case FormatText:
		return DecodeText(r)
	case FormatRaw:
		return DecodeRaw(r)
	default:
		return samples.Samples{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
