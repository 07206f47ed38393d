package config

// File naming conventions shared across the library
const (
	// TokenFileName is the managed license token file inside LicenseDir.
	TokenFileName = "license-token.mb"
	// OfflineRequestFileName is the conventional name for a generated
	// offline activation request.
	OfflineRequestFileName = "OfflineActivationRequest.dt"
)
