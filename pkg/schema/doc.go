// Package schema checks package metadata against a CUE schema.
//
// The schema in info.cue describes the well-known keys of an info record
// and leaves the record open. #Dist tightens it for packages written by
// Dist, which need a name and version to build their file name.
package schema
