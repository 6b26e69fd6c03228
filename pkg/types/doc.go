// Package types defines the interfaces shared across mkp packages.
// Currently this is the filesystem collaborator used by discovery, container
// building and extraction, so that callers and tests can swap the OS
// filesystem for an in-memory one.
package types
