// Package hashutil computes the checksums mkp reports for package files.
package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/types"
)

// Prefix marks the algorithm of a checksum string
const Prefix = "sha256:"

// Checksum returns "sha256:<hex>" of data
func Checksum(data []byte) string {
	return fmt.Sprintf("%s%x", Prefix, sha256.Sum256(data))
}

// FileChecksum returns the checksum of a file read through fsys
func FileChecksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFilesystem, "cannot read file for checksum").WithPath(path)
	}
	return Checksum(data), nil
}
