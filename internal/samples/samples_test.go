package samples

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		samples Samples
		wantErr bool
	}{
		{name: "valid", samples: Samples{X: []float64{1, 2}, Y: []float64{0.5, 1}}},
		{name: "single point", samples: Samples{X: []float64{1}, Y: []float64{1}}},
		{name: "empty", samples: Samples{}, wantErr: true},
		{name: "length mismatch", samples: Samples{X: []float64{1, 2}, Y: []float64{1}}, wantErr: true},
		{name: "nan", samples: Samples{X: []float64{1}, Y: []float64{math.NaN()}}, wantErr: true},
		{name: "inf", samples: Samples{X: []float64{math.Inf(1)}, Y: []float64{1}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.samples.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSamples)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Samples{X: []float64{1, 2}, Y: []float64{3, 4}}
	c := orig.Clone()
	c.X[0] = 99
	c.Y[1] = 99
	assert.Equal(t, 1.0, orig.X[0])
	assert.Equal(t, 4.0, orig.Y[1])
}

func TestRange(t *testing.T) {
	lo, hi := Samples{X: []float64{3, 1, 2}, Y: []float64{1, 1, 1}}.Range()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestEncodeDecode(t *testing.T) {
	in := Samples{
		X: []float64{0.1, 0.2, 0.3, 1e-9},
		Y: []float64{0, 0.25, 1, 0.5},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, Samples{X: []float64{1}, Y: nil})
	require.ErrorIs(t, err, ErrInvalidSamples)
	assert.Zero(t, buf.Len())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not zstd")))
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Samples{X: []float64{1, 2, 3}, Y: []float64{1, 1, 1}}))

	// Re-encode a payload that claims more points than it carries.
	raw, err := decompress(buf.Bytes())
	require.NoError(t, err)
	var short bytes.Buffer
	require.NoError(t, compress(&short, raw[:len(raw)-8]))

	_, err = Decode(&short)
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestCreateFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quartz.xy.zst")
	in := Samples{X: []float64{10, 20}, Y: []float64{0.5, 1}}

	require.NoError(t, CreateFile(path, in))
	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	err = CreateFile(path, in)
	require.True(t, errors.Is(err, fs.ErrExist), "expected fs.ErrExist, got %v", err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.xy.zst"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
