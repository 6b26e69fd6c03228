// Package metadata holds the package metadata record and its codec.
//
// A container's info entry is a single dict literal. Encode writes it with
// sorted keys so identical metadata always produces identical bytes, and
// stamps version.packaged with PackagedBy. Decode accepts any dict literal
// and keeps keys it does not recognise.
//
// Info files written by hand may also use TOML, YAML or JSON; ParseInfo
// converts those into the same value types Decode produces.
package metadata
