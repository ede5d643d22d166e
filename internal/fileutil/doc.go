// Package fileutil provides the crash-safe file primitives the catalog is
// built on: temp-file-then-rename writes and renames that never clobber an
// existing file.
package fileutil
