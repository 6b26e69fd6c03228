// Package testutil provides helpers shared by mkp tests.
//
// Key components:
//   - SourceTree: a package source directory on disk or in memory, with
//     helpers to add files under category directories
//   - Tar helpers: read container and category archives back into maps,
//     and hand-craft archives that mkp itself would never write
//   - Filesystem helpers: create, read and inspect files under t.TempDir()
//
// Usage guidelines:
//   - Prefer NewMemorySourceTree for discovery and build tests
//   - Use NewSourceTree when the test depends on real permissions or symlinks
//   - Define test content inline, not in external fixture files
package testutil
