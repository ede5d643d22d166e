package samples

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"pxrd/internal/fileutil"
)

// ErrCorruptContainer reports a sample file that cannot be decoded.
var ErrCorruptContainer = errors.New("corrupt sample container")

const (
	containerMagic   = "PXRS"
	containerVersion = 1

	// maxContainerPoints bounds allocations when reading untrusted files.
	maxContainerPoints = 1 << 24
)

// Encode writes s to w as a zstd-compressed container.
func Encode(w io.Writer, s Samples) error {
	if err := s.Validate(); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)

	header := make([]byte, 0, len(containerMagic)+5)
	header = append(header, containerMagic...)
	header = append(header, containerVersion)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(s.X)))
	if _, err := bw.Write(header); err != nil {
		_ = enc.Close()
		return fmt.Errorf("write container header: %w", err)
	}

	buf := make([]byte, 8)
	for _, series := range [][]float64{s.X, s.Y} {
		for _, v := range series {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			if _, err := bw.Write(buf); err != nil {
				_ = enc.Close()
				return fmt.Errorf("write container values: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("flush container: %w", err)
	}
	return enc.Close()
}

// Decode reads a container written by Encode.
func Decode(r io.Reader) (Samples, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Samples{}, fmt.Errorf("%w: %v", ErrCorruptContainer, err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	header := make([]byte, len(containerMagic)+5)
	if _, err := io.ReadFull(br, header); err != nil {
		return Samples{}, fmt.Errorf("%w: read header: %v", ErrCorruptContainer, err)
	}
	if string(header[:len(containerMagic)]) != containerMagic {
		return Samples{}, fmt.Errorf("%w: bad magic", ErrCorruptContainer)
	}
	if v := header[len(containerMagic)]; v != containerVersion {
		return Samples{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptContainer, v)
	}
	count := binary.LittleEndian.Uint32(header[len(containerMagic)+1:])
	if count == 0 || count > maxContainerPoints {
		return Samples{}, fmt.Errorf("%w: implausible point count %d", ErrCorruptContainer, count)
	}

	s := Samples{X: make([]float64, count), Y: make([]float64, count)}
	buf := make([]byte, 8)
	for _, series := range [][]float64{s.X, s.Y} {
		for i := range series {
			if _, err := io.ReadFull(br, buf); err != nil {
				return Samples{}, fmt.Errorf("%w: read values: %v", ErrCorruptContainer, err)
			}
			series[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		}
	}
	return s, nil
}

// CreateFile encodes s into path without ever replacing an existing file.
// The container is written to a temp file first, so an interrupted write
// leaves no partial file behind.
func CreateFile(path string, s Samples) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return fileutil.CreateAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, s)
	})
}

// ReadFile decodes the container stored at path.
func ReadFile(path string) (Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return Samples{}, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return Samples{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}
