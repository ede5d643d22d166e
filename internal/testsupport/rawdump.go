package testsupport

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// RawDump describes a synthetic instrument dump. Bytes lays it out exactly
// where the raw decoder expects each field.
type RawDump struct {
	Machine     string
	Title       string
	Wavelength  float32
	ThetaStart  float32
	ThetaEnd    float32
	StepSize    float32
	Counts      []int32
	SampleCount int // overrides len(Counts) in the header when non-zero
}

// NewPolyIIDump returns a POLY II dump with the given counts spread over
// 10..30 degrees at the copper K-alpha wavelength.
func NewPolyIIDump(counts ...int32) RawDump {
	return RawDump{
		Machine:    "POLY II",
		Title:      "synthetic",
		Wavelength: 1.5406,
		ThetaStart: 10,
		ThetaEnd:   30,
		StepSize:   10,
		Counts:     counts,
	}
}

func (d RawDump) layout() (base, width int) {
	if d.Machine == "Powdat" {
		return 0x800, 4
	}
	return 0x600, 2
}

// Bytes serializes the dump.
func (d RawDump) Bytes() []byte {
	base, width := d.layout()
	start := base + 0x200
	buf := make([]byte, start+len(d.Counts)*width)

	copy(buf[0x00:0x08], "RAW1.01")
	copy(buf[0x08:0x10], d.Machine)
	copy(buf[0x10:0x20], "2023-01-02")
	copy(buf[0x20:0x40], d.Title)
	copy(buf[0x70:0x90], "test fixture")
	binary.LittleEndian.PutUint16(buf[0x13E:], 40)
	binary.LittleEndian.PutUint16(buf[0x140:], 30)
	binary.LittleEndian.PutUint32(buf[0x142:], math.Float32bits(d.Wavelength))
	binary.LittleEndian.PutUint32(buf[0x146:], math.Float32bits(1.5444))

	count := d.SampleCount
	if count == 0 {
		count = len(d.Counts)
	}
	copy(buf[base:base+0x10], "2023-01-02 10:00")
	copy(buf[base+0x10:base+0x20], "2023-01-02 11:00")
	binary.LittleEndian.PutUint16(buf[base+0x22:], uint16(count))
	binary.LittleEndian.PutUint32(buf[base+0x2C:], math.Float32bits(d.ThetaStart))
	binary.LittleEndian.PutUint32(buf[base+0x34:], math.Float32bits(d.ThetaEnd))
	binary.LittleEndian.PutUint32(buf[base+0x3C:], math.Float32bits(d.StepSize))
	binary.LittleEndian.PutUint32(buf[base+0x44:], math.Float32bits(1))

	var lo, hi int32
	for i, c := range d.Counts {
		if i == 0 || c < lo {
			lo = c
		}
		if i == 0 || c > hi {
			hi = c
		}
		off := start + i*width
		if width == 2 {
			binary.LittleEndian.PutUint16(buf[off:], uint16(int16(c)))
		} else {
			binary.LittleEndian.PutUint32(buf[off:], uint32(c))
		}
	}
	binary.LittleEndian.PutUint32(buf[base+0x78:], uint32(lo))
	binary.LittleEndian.PutUint32(buf[base+0x7C:], uint32(hi))
	return buf
}

// WriteRaw writes the dump under dir and returns its path.
func WriteRaw(t testing.TB, dir, name string, d RawDump) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
