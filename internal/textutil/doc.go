// Package textutil derives filesystem-safe catalog names and tags from
// free-form text such as uploaded file names.
package textutil
