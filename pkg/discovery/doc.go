// Package discovery finds the files under a package source tree that
// belong in a package.
//
// A source tree holds one directory per known category (agents, checks,
// web, ...). Every regular file below a category directory is packable
// unless some component of its path starts with "." or its name ends in
// "~". Paths are reported relative to the category directory, with
// forward slashes, sorted.
package discovery
