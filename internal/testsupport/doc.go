// Package testsupport provides fixtures shared by package tests: temp-dir
// configs, text-format writers, and synthetic raw instrument dumps.
package testsupport
