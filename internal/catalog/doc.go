// Package catalog persists named spectra as pairs of files in one directory:
// a YAML descriptor (<name>.meta) holding the metadata, and a compressed
// sample container referenced from it.
//
// The descriptor is the commit point. Creates write the sample container
// first and the descriptor last, so an interrupted create never registers a
// catalog entry without data. Listings are memoised per Store and the memo is
// dropped before every mutating call returns.
//
// A Store serialises its own mutations but assumes it is the only writer of
// the directory. WriterLock adds an advisory cross-process lock for callers
// that need it.
package catalog
