package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Verify reports whether the token's signature is valid under the given
// PEM-encoded public key. The verification algorithm is pinned by the key
// type (RS256 for RSA keys, ES256 for EC keys); the token's alg header is
// deliberately never consulted, which forecloses algorithm-confusion
// attacks at the cost of flexibility.
func Verify(publicKeyPEM string, t *Token) bool {
	if t == nil || len(t.Signature) == 0 {
		return false
	}

	if key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM)); err == nil {
		return jwt.SigningMethodRS256.Verify(t.signingString, t.Signature, key) == nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM)); err == nil {
		return jwt.SigningMethodES256.Verify(t.signingString, t.Signature, key) == nil
	}
	return false
}
