package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest is the hex MD5 of a page file's bytes
type Digest string

// Fingerprint hashes the full contents of the file at path
func Fingerprint(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open page '%s': %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash page '%s': %w", path, err)
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}

// IsDuplicate reports whether two digests are equal.
// An empty previous digest (first page) never matches.
func IsDuplicate(prev, current Digest) bool {
	return prev != "" && prev == current
}
