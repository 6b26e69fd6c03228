// Package container reads and writes the package container format.
//
// A container is a tar archive, gzip compressed unless asked otherwise,
// whose first entry is "info" (the metadata literal) followed by one plain
// tar per category named "<category>.tar". Known categories are written in
// their declaration order and unknown ones after them, sorted. Entries that
// Build synthesizes carry a fixed modification time so that the same inputs
// give the same bytes.
package container
