// Package token decodes compact JWT license tokens and verifies their
// signatures against the licensing authority's public key.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Token is a decoded compact JWT. Digest is SHA-256 over the still-encoded
// header and payload joined by a literal dot, so the signature stays bound
// to the exact bytes the server signed rather than re-serialized JSON.
type Token struct {
	Header    map[string]any
	Body      map[string]any
	Signature []byte
	Digest    [sha256.Size]byte

	signingString string
}

// Decode splits a compact JWT into its three segments, parses header and
// payload as JSON, and computes the signing digest. Any malformed segment
// fails the whole decode.
func Decode(encoded string) (*Token, error) {
	encoded = strings.TrimSpace(encoded)
	parts := strings.Split(encoded, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 token segments, got %d", len(parts))
	}

	headerRaw, err := decodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token header: %w", err)
	}
	bodyRaw, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}
	signature, err := decodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token signature: %w", err)
	}

	t := &Token{
		Signature:     signature,
		signingString: parts[0] + "." + parts[1],
	}
	if err := json.Unmarshal(headerRaw, &t.Header); err != nil {
		return nil, fmt.Errorf("failed to parse token header: %w", err)
	}
	if err := json.Unmarshal(bodyRaw, &t.Body); err != nil {
		return nil, fmt.Errorf("failed to parse token payload: %w", err)
	}
	t.Digest = sha256.Sum256([]byte(t.signingString))
	return t, nil
}

// SigningString returns the encoded "header.payload" input the signature
// covers.
func (t *Token) SigningString() string {
	return t.signingString
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}
