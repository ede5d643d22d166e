// Package ingest turns uploaded instrument files into catalog records.
//
// Decoding always completes before anything is written, so a file that fails
// to decode never leaves a trace in the catalog. Several files can be decoded
// in parallel; saving stays sequential through the store.
package ingest
