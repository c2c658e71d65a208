package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
)

// Content is the hashed payload of a chain record: everything a deliberation
// produced. Field order is fixed; encoding/json emits struct fields in
// declaration order and sorts map keys, so the marshaled form is canonical.
type Content struct {
	InputDigest string            `json:"input_digest"`
	Verdicts    []critics.Verdict `json:"verdicts"`
	Decision    decision.Decision `json:"decision"`
}

// Hash computes the record content hash: SHA-256 over the canonical JSON
// serialization, formatted as "sha256:<hex>".
func (c Content) Hash() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal audit content: %w", err)
	}
	return hashBytes(data), nil
}

// InputDigest computes the content digest identifying a submitted input.
func InputDigest(input string) string {
	return hashBytes([]byte(input))
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}
