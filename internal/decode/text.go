package decode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"pxrd/internal/samples"
)

const maxTextLine = 1 << 20

// DecodeText parses a two-column "xyd" stream. Blank lines and lines starting
// with '#' are ignored; every other line must hold exactly two finite numbers.
func DecodeText(r io.Reader) (samples.Samples, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTextLine)

	var x, y []float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return samples.Samples{}, &LineError{Line: lineNo, Reason: fmt.Sprintf("expected 2 columns, found %d", len(fields))}
		}
		xv, err := parseFinite(fields[0])
		if err != nil {
			return samples.Samples{}, &LineError{Line: lineNo, Reason: err.Error()}
		}
		yv, err := parseFinite(fields[1])
		if err != nil {
			return samples.Samples{}, &LineError{Line: lineNo, Reason: err.Error()}
		}
		x = append(x, xv)
		y = append(y, yv)
	}
	if err := scanner.Err(); err != nil {
		return samples.Samples{}, fmt.Errorf("%w: read text: %v", ErrFormat, err)
	}
	if len(x) == 0 {
		return samples.Samples{}, fmt.Errorf("%w: no data rows", ErrFormat)
	}

	norm, err := Normalize(y)
	if err != nil {
		return samples.Samples{}, err
	}
	return samples.Samples{X: x, Y: norm}, nil
}

func parseFinite(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", field)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", field)
	}
	return v, nil
}
