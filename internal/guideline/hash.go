package guideline

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashing. The version suffix enables future
// algorithm migration.
const (
	DomainDocument = "refstack/guideline/v1"
	DomainReport   = "refstack/report/v1"
)

// HashWithDomain computes SHA-256 with domain separation over canonical bytes.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
