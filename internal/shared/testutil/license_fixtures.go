package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestKey is a signing key pair with its PEM-encoded public half.
type TestKey struct {
	Signer    any
	PublicPEM string
	method    jwt.SigningMethod
}

// NewRSAKey generates an RSA test key.
func NewRSAKey(t *testing.T) *TestKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &TestKey{
		Signer:    priv,
		PublicPEM: marshalPublicPEM(t, &priv.PublicKey),
		method:    jwt.SigningMethodRS256,
	}
}

// NewECKey generates a P-256 test key.
func NewECKey(t *testing.T) *TestKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return &TestKey{
		Signer:    priv,
		PublicPEM: marshalPublicPEM(t, &priv.PublicKey),
		method:    jwt.SigningMethodES256,
	}
}

func marshalPublicPEM(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// SignToken builds a compact JWT over the given claims, signed with the
// key. The alg header reflects the signing method unless overridden via
// header.
func SignToken(t *testing.T, key *TestKey, claims map[string]any) string {
	t.Helper()
	return SignTokenWithHeader(t, key, map[string]any{
		"alg": key.method.Alg(),
		"typ": "JWT",
	}, claims)
}

// SignTokenWithHeader builds a compact JWT with an explicit header object.
func SignTokenWithHeader(t *testing.T, key *TestKey, header, claims map[string]any) string {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)
	claimsJSON, err := json.Marshal(claims)
	require.NoError(t, err)

	signingString := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	sig, err := key.method.Sign(signingString, key.Signer)
	require.NoError(t, err)
	return signingString + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// LicenseClaims builds the standard claim set issued by the licensing
// service.
func LicenseClaims(productID, deviceSig, method string) map[string]any {
	return map[string]any{
		"sig":    deviceSig,
		"p:id":   productID,
		"method": method,
		"trial":  false,
	}
}

// OnlineClaims builds claims for an online license validated at the given
// time.
func OnlineClaims(productID, deviceSig string, validated time.Time) map[string]any {
	claims := LicenseClaims(productID, deviceSig, "Online")
	claims["validated"] = validated.Unix()
	return claims
}

// TrialClaims builds claims for an online trial expiring at the given time.
func TrialClaims(productID, deviceSig string, exp, validated time.Time) map[string]any {
	claims := OnlineClaims(productID, deviceSig, validated)
	claims["trial"] = true
	claims["exp"] = exp.Unix()
	return claims
}

// OfflineClaims builds claims for an offline license.
func OfflineClaims(productID, deviceSig string) map[string]any {
	return LicenseClaims(productID, deviceSig, "Offline")
}
