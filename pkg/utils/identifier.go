package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidDatasetID marks an identifier that cannot serve as a single URL path segment.
var ErrInvalidDatasetID = errors.New("dataset identifier must be a single path segment")

// NormalizeDatasetID turns a free-form query into the catalog's dataset token:
// trimmed, lowercased, spaces replaced with hyphens.
func NormalizeDatasetID(query string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")
}

// ValidateDatasetID rejects identifiers that would change the shape of a catalog URL
// or of an artifact file name: path separators, dot segments and control characters.
func ValidateDatasetID(id string) error {
	if id == "" || strings.Contains(id, "..") || strings.ContainsAny(id, "/\\\x00\n\r\t") {
		return fmt.Errorf("%w: %q", ErrInvalidDatasetID, id)
	}
	return nil
}

// HashKey creates a SHA256 hash of s.
// This is useful for creating consistent, safe keys for Redis.
func HashKey(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// JoinURL appends escaped path segments to base, keeping any path base already has.
func JoinURL(base string, segments ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return u.JoinPath(segments...).String(), nil
}
