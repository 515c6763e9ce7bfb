package dedup

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/BegaDeveloper/datasieve/internal/dataset"
)

// Digest is the hex SHA-256 of the record's canonical form.
func Digest(record dataset.Record) (string, error) {
	canonical, canonicalError := record.Canonical()
	if canonicalError != nil {
		return "", canonicalError
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
