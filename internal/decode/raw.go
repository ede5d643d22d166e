package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"pxrd/internal/samples"
)

// Machine ids accepted in the raw header.
const (
	MachinePolyII = "POLY II"
	MachinePowdat = "Powdat"
)

// Header offsets, all relative to the start of the file.
const (
	offFormatTag     = 0x00
	offMachine       = 0x08
	offDate          = 0x10
	offTitle         = 0x20
	offComment       = 0x70
	offKilovoltage   = 0x13E
	offMilliamperage = 0x140
	offWavelength    = 0x142
	offWavelengthAlt = 0x146
)

// DataInfo offsets, relative to the machine-dependent base.
const (
	relStartDate   = 0x00
	relEndDate     = 0x10
	relSampleCount = 0x22
	relThetaStart  = 0x2C
	relThetaEnd    = 0x34
	relStepSize    = 0x3C
	relTimePerStep = 0x44
	relMinCount    = 0x78
	relMaxCount    = 0x7C
	relSamples     = 0x200
)

// machineLayout captures what differs between the two instrument variants.
type machineLayout struct {
	dataInfoBase int
	sampleWidth  int
}

var machineLayouts = map[string]machineLayout{
	MachinePolyII: {dataInfoBase: 0x600, sampleWidth: 2},
	MachinePowdat: {dataInfoBase: 0x800, sampleWidth: 4},
}

// RawHeader is the fixed file header.
type RawHeader struct {
	FormatTag     string  `json:"format_tag"`
	Machine       string  `json:"machine"`
	Date          string  `json:"date"`
	Title         string  `json:"title"`
	Comment       string  `json:"comment"`
	Kilovoltage   uint16  `json:"kilovoltage"`
	Milliamperage uint16  `json:"milliamperage"`
	Wavelength    float32 `json:"wavelength"`
	WavelengthAlt float32 `json:"wavelength_alt"`
}

// RawDataInfo is the machine-dependent acquisition block.
type RawDataInfo struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	SampleCount uint16  `json:"sample_count"`
	ThetaStart  float32 `json:"theta_start"`
	ThetaEnd    float32 `json:"theta_end"`
	StepSize    float32 `json:"step_size"`
	TimePerStep float32 `json:"time_per_step"`
	MinCount    uint32  `json:"min_count"`
	MaxCount    uint32  `json:"max_count"`
}

// RawFile is a fully parsed raw dump. Counts are widened to int32 for both
// machine variants.
type RawFile struct {
	Header   RawHeader   `json:"header"`
	DataInfo RawDataInfo `json:"data_info"`
	Counts   []int32     `json:"-"`
}

// DecodeRaw reads a complete raw dump from r and converts it to samples.
func DecodeRaw(r io.Reader) (samples.Samples, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return samples.Samples{}, fmt.Errorf("read raw file: %w", err)
	}
	raw, err := ParseRaw(data)
	if err != nil {
		return samples.Samples{}, err
	}
	return raw.Samples()
}

// ParseRaw decodes the header, the DataInfo block and the count array.
func ParseRaw(data []byte) (*RawFile, error) {
	rd := rawReader{data: data}
	var raw RawFile

	raw.Header.FormatTag = rd.ascii("format tag", offFormatTag, 8)
	raw.Header.Machine = rd.ascii("machine id", offMachine, 8)
	if rd.err != nil {
		return nil, rd.err
	}
	layout, ok := machineLayouts[raw.Header.Machine]
	if !ok {
		return nil, &UnsupportedMachineError{Machine: raw.Header.Machine}
	}

	raw.Header.Date = rd.ascii("date", offDate, 16)
	raw.Header.Title = rd.ascii("title", offTitle, 32)
	raw.Header.Comment = rd.ascii("comment", offComment, 32)
	raw.Header.Kilovoltage = rd.uint16("kilovoltage", offKilovoltage)
	raw.Header.Milliamperage = rd.uint16("milliamperage", offMilliamperage)
	raw.Header.Wavelength = rd.float32("wavelength", offWavelength)
	raw.Header.WavelengthAlt = rd.float32("alternate wavelength", offWavelengthAlt)

	base := layout.dataInfoBase
	info := &raw.DataInfo
	info.StartDate = rd.ascii("collection start date", base+relStartDate, 16)
	info.EndDate = rd.ascii("collection end date", base+relEndDate, 16)
	info.SampleCount = rd.uint16("sample count", base+relSampleCount)
	info.ThetaStart = rd.float32("start angle", base+relThetaStart)
	info.ThetaEnd = rd.float32("end angle", base+relThetaEnd)
	info.StepSize = rd.float32("step size", base+relStepSize)
	info.TimePerStep = rd.float32("time per step", base+relTimePerStep)
	info.MinCount = rd.uint32("minimum count", base+relMinCount)
	info.MaxCount = rd.uint32("maximum count", base+relMaxCount)
	if rd.err != nil {
		return nil, rd.err
	}

	start := base + relSamples
	n := int(info.SampleCount)
	rd.need("sample array", start, n*layout.sampleWidth)
	if rd.err != nil {
		return nil, rd.err
	}
	raw.Counts = make([]int32, n)
	for i := range raw.Counts {
		off := start + i*layout.sampleWidth
		if layout.sampleWidth == 2 {
			raw.Counts[i] = int32(int16(binary.LittleEndian.Uint16(data[off:])))
		} else {
			raw.Counts[i] = int32(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return &raw, nil
}

// Angles returns the sample positions in degrees, evenly spaced from the
// start angle to the end angle inclusive.
func (r *RawFile) Angles() []float64 {
	return Linspace(float64(r.DataInfo.ThetaStart), float64(r.DataInfo.ThetaEnd), len(r.Counts))
}

// Samples converts the dump to Q-space samples with normalized intensities.
func (r *RawFile) Samples() (samples.Samples, error) {
	if len(r.Counts) == 0 {
		return samples.Samples{}, fmt.Errorf("%w: header declares zero samples", ErrFormat)
	}
	lambda := float64(r.Header.Wavelength)
	if lambda <= 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return samples.Samples{}, fmt.Errorf("%w: invalid radiation wavelength %v", ErrFormat, r.Header.Wavelength)
	}
	thetaStart, thetaEnd := float64(r.DataInfo.ThetaStart), float64(r.DataInfo.ThetaEnd)
	if math.IsNaN(thetaStart) || math.IsInf(thetaStart, 0) || math.IsNaN(thetaEnd) || math.IsInf(thetaEnd, 0) {
		return samples.Samples{}, fmt.Errorf("%w: invalid angle range %v..%v", ErrFormat, r.DataInfo.ThetaStart, r.DataInfo.ThetaEnd)
	}

	angles := r.Angles()
	q := make([]float64, len(angles))
	for i, theta := range angles {
		q[i] = ThetaToQ(theta, lambda)
	}

	counts := make([]float64, len(r.Counts))
	for i, c := range r.Counts {
		counts[i] = float64(c)
	}
	y, err := Normalize(counts)
	if err != nil {
		return samples.Samples{}, err
	}
	return samples.Samples{X: q, Y: y}, nil
}

// rawReader performs bounds-checked little-endian reads. The first failure is
// kept and every later read becomes a no-op.
type rawReader struct {
	data []byte
	err  error
}

func (r *rawReader) need(field string, off, n int) bool {
	if r.err != nil {
		return false
	}
	if off < 0 || n < 0 || off+n > len(r.data) {
		r.err = &TruncatedFileError{Field: field, Offset: off, Need: n, Have: len(r.data)}
		return false
	}
	return true
}

func (r *rawReader) ascii(field string, off, n int) string {
	if !r.need(field, off, n) {
		return ""
	}
	b := r.data[off : off+n]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}

func (r *rawReader) uint16(field string, off int) uint16 {
	if !r.need(field, off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.data[off:])
}

func (r *rawReader) uint32(field string, off int) uint32 {
	if !r.need(field, off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[off:])
}

func (r *rawReader) float32(field string, off int) float32 {
	return math.Float32frombits(r.uint32(field, off))
}
