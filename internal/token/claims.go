package token

import (
	"fmt"
)

// Claim names used by license tokens
const (
	ClaimSig       = "sig"
	ClaimProductID = "p:id"
	ClaimMethod    = "method"
	ClaimTrial     = "trial"
	ClaimExp       = "exp"
	ClaimValidated = "validated"
)

// Activation method claim values
const (
	MethodOnline  = "Online"
	MethodOffline = "Offline"
)

// StringClaim returns a string claim from the token body; a missing or
// mistyped claim is an error.
func (t *Token) StringClaim(name string) (string, error) {
	v, ok := t.Body[name]
	if !ok {
		return "", fmt.Errorf("claim %q missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("claim %q is not a string", name)
	}
	return s, nil
}

// BoolClaim returns a boolean claim from the token body.
func (t *Token) BoolClaim(name string) (bool, error) {
	v, ok := t.Body[name]
	if !ok {
		return false, fmt.Errorf("claim %q missing", name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("claim %q is not a boolean", name)
	}
	return b, nil
}

// Int64Claim returns a numeric claim from the token body as Unix seconds.
func (t *Token) Int64Claim(name string) (int64, error) {
	v, ok := t.Body[name]
	if !ok {
		return 0, fmt.Errorf("claim %q missing", name)
	}
	// encoding/json decodes JSON numbers into float64
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("claim %q is not a number", name)
	}
	return int64(f), nil
}
