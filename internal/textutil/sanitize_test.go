package textutil

import (
	"strings"
	"testing"
)

func TestSpectrumName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "quartz.xyd", want: "quartz"},
		{in: "/data/runs/LiFePO4 batch 2.raw", want: "LiFePO4_batch_2"},
		{in: "scan:01?.raw", want: "scan-01"},
		{in: "sample.001.xyd", want: "sample.001"},
		{in: "..hidden.xyd", want: "hidden"},
		{in: "  spaced   out  .xyd", want: "spaced_out"},
		{in: ".xyd", want: "xyd"},
		{in: "", want: ""},
		{in: "???.raw", want: ""},
	}
	for _, tc := range tests {
		if got := SpectrumName(tc.in); got != tc.want {
			t.Errorf("SpectrumName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSpectrumNameTruncates(t *testing.T) {
	got := SpectrumName(strings.Repeat("é", 80) + ".xyd")
	if n := len([]rune(got)); n != MaxNameLength {
		t.Fatalf("expected %d runes, got %d", MaxNameLength, n)
	}
}

func TestSanitizeTag(t *testing.T) {
	if got := SanitizeTag("  battery   cathode "); got != "battery cathode" {
		t.Fatalf("unexpected tag %q", got)
	}
	if got := SanitizeTag(" \t "); got != "" {
		t.Fatalf("expected empty tag, got %q", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" battery  cathode", "", "mineral", "battery cathode", "  "})
	want := []string{"battery cathode", "mineral"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("NormalizeTags = %q, want %q", got, want)
	}
	if got := NormalizeTags(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
