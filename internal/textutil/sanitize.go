package textutil

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength matches the catalog's limit on spectrum names.
const MaxNameLength = 50

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SpectrumName turns an instrument file name into a default spectrum name:
// the directory and extension are dropped, unsafe characters are replaced,
// whitespace runs become a single underscore, and the result is cut to
// MaxNameLength runes. It returns "" when nothing usable remains.
func SpectrumName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = fileNameReplacer.Replace(base)

	var b strings.Builder
	pendingSpace := false
	for _, r := range base {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte('_')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	name := strings.TrimLeft(b.String(), ".")
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return strings.TrimRight(name, "_-")
}

// SanitizeTag trims a tag and collapses inner whitespace to single spaces.
// Empty input yields "".
func SanitizeTag(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeTags sanitises every tag, drops empty ones and removes duplicates
// while keeping the first occurrence's position. The result is never nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = SanitizeTag(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
