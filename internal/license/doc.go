// Package license implements client-side license management for a paid
// desktop product. It activates the product against the remote licensing
// service, persists the issued token, revalidates it on a cadence, and
// reports license state to the host through an atomic status snapshot.
//
// # Architecture Overview
//
// The engine coordinates four collaborators:
//
//	- fingerprint: composite device identifier with tolerant comparison
//	- token: compact JWT decoding and pinned signature verification
//	- store: the managed license token file on disk
//	- HTTPClient: the transport to the licensing service
//
// # Check Flow
//
// Checking a stored token follows these steps:
//
//	1. Decode the compact JWT and verify its signature
//	2. Compare the bound fingerprint tolerantly (2-of-3 components)
//	3. Match the product id
//	4. Offline licenses pass immediately; trials check expiration
//	5. Online licenses past the validation window revalidate with the
//	   server, falling back to the grace period on failure
//
// # Activation
//
// Online activation registers the device, opens the activation page in the
// user's browser, and polls the issued request URL until the token arrives
// or the attempt budget runs out. Offline activation exchanges a generated
// device-token file for a license token issued elsewhere.
//
// # Threading
//
// CheckForExisting, RequestActivation, ReceiveOfflineLicenseToken, and
// Deactivate block on I/O and belong on a background goroutine. Status and
// GenerateOfflineDeviceToken are safe from any thread. The engine never
// serializes its own long-running operations; run one at a time.
package license
