package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// XYDText renders two columns in the whitespace-separated text format.
func XYDText(x, y []float64) string {
	var b strings.Builder
	b.WriteString("# generated\n")
	for i := range x {
		b.WriteString(strconv.FormatFloat(x[i], 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(y[i], 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteXYD writes a text-format file under dir and returns its path.
func WriteXYD(t testing.TB, dir, name string, x, y []float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(XYDText(x, y)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
