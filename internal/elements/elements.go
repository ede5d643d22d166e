// Package elements holds the periodic-table vocabulary that spectra are
// tagged with.
package elements

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownElement reports a symbol outside the periodic table.
var ErrUnknownElement = errors.New("unknown element")

// symbols lists every element in atomic-number order.
var symbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumber = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[s] = i + 1
	}
	return m
}()

// All returns the vocabulary in atomic-number order.
func All() []string {
	out := make([]string, len(symbols))
	copy(out, symbols[:])
	return out
}

// Normalize returns the canonical casing of symbol ("fe" and "FE" become
// "Fe"). Unknown symbols yield ErrUnknownElement.
func Normalize(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	canonical := cases.Title(language.Und).String(trimmed)
	if _, ok := atomicNumber[canonical]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}
	return canonical, nil
}

// Known reports whether symbol names an element, ignoring case.
func Known(symbol string) bool {
	_, err := Normalize(symbol)
	return err == nil
}

// AtomicNumber returns Z for a canonical symbol, or 0 when unknown.
func AtomicNumber(symbol string) int {
	return atomicNumber[symbol]
}

// NormalizeSet canonicalises every symbol and returns a sorted slice without
// duplicates. The first unknown symbol aborts with ErrUnknownElement.
func NormalizeSet(input []string) ([]string, error) {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, raw := range input {
		symbol, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out, nil
}
