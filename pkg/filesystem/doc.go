// Package filesystem provides filesystem implementations for mkp.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem and an afero-backed filesystem used for
// in-memory trees in tests.
package filesystem
