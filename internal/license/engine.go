package license

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"licensekit/internal/config"
	apperrors "licensekit/internal/errors"
	"licensekit/internal/fingerprint"
	"licensekit/internal/store"
	"licensekit/internal/token"
)

const secondsPerDay = 86400

// ActivationResult is the outcome of an online activation attempt.
type ActivationResult int

const (
	// ActivationSuccess means a token was received and stored.
	ActivationSuccess ActivationResult = iota
	// ActivationTimeout means the poll loop exhausted its attempts before
	// the user completed the browser flow.
	ActivationTimeout
	// ActivationFail covers every other failure.
	ActivationFail
)

func (r ActivationResult) String() string {
	switch r {
	case ActivationSuccess:
		return "success"
	case ActivationTimeout:
		return "timeout"
	default:
		return "fail"
	}
}

// Engine coordinates activation, validation, deactivation, and status
// reporting for a single product. The token on disk is the source of truth;
// no license state other than the status flags is retained between calls.
//
// CheckForExisting, RequestActivation, ReceiveOfflineLicenseToken, and
// Deactivate block on filesystem and network I/O and must run off the UI
// thread. GenerateOfflineDeviceToken and Status are safe from any
// goroutine. The engine does not serialize its own long-running
// operations; callers must not run two of them concurrently.
type Engine struct {
	cfg       config.LicenseConfig
	publicKey string
	fp        fingerprint.DeviceFingerprint
	fpSet     bool

	fs      afero.Fs
	store   *store.TokenStore
	client  HTTPClient
	metrics *Metrics

	launchBrowser func(url string) error
	sleep         func(ctx context.Context, d time.Duration) bool
	now           func() time.Time

	activationURL string
	validationURL string
	revocationURL string

	flags statusFlags
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(client HTTPClient) Option {
	return func(e *Engine) { e.client = client }
}

// WithFilesystem replaces the OS filesystem, for tests.
func WithFilesystem(fs afero.Fs) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithMetrics attaches OpenTelemetry instruments.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithBrowserLauncher replaces the platform URL opener.
func WithBrowserLauncher(launch func(url string) error) Option {
	return func(e *Engine) { e.launchBrowser = launch }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFingerprint pins the device fingerprint instead of probing hardware.
func WithFingerprint(fp fingerprint.DeviceFingerprint) Option {
	return func(e *Engine) {
		e.fp = fp
		e.fpSet = true
	}
}

// New constructs an engine for the given context, probes the device
// fingerprint, and ensures the license directory exists.
func New(cfg config.LicenseConfig, opts ...Option) (*Engine, error) {
	publicKey, err := cfg.PublicKey()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:           cfg,
		publicKey:     publicKey,
		fs:            afero.NewOsFs(),
		launchBrowser: openBrowser,
		sleep:         sleepContext,
		now:           time.Now,
		activationURL: fmt.Sprintf("%s/api/client/activations/%s/request", cfg.APIEndpointBase, cfg.ProductID),
		validationURL: fmt.Sprintf("%s/api/client/licenses/%s/validate", cfg.APIEndpointBase, cfg.ProductID),
		revocationURL: fmt.Sprintf("%s/api/client/licenses/%s/revoke", cfg.APIEndpointBase, cfg.ProductID),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		e.client = NewHTTPClient(&http.Client{Timeout: 30 * time.Second})
	}
	if !e.fpSet {
		e.fp = fingerprint.Get(context.Background())
	}

	e.store = store.NewWithFs(e.fs, cfg.TokenPath())
	if err := e.store.EnsureDir(); err != nil {
		return nil, err
	}

	e.flags.trialDaysRemaining.Store(-1)
	return e, nil
}

// Fingerprint returns the device fingerprint computed at construction.
func (e *Engine) Fingerprint() fingerprint.DeviceFingerprint {
	return e.fp
}

// Status returns an atomic snapshot of the license state. Safe from any
// goroutine.
func (e *Engine) Status() LicenseStatus {
	return e.flags.snapshot()
}

// CheckForExisting checks the stored token, if any, and updates the status
// flags. Returns false when no token is installed.
func (e *Engine) CheckForExisting(ctx context.Context) bool {
	start := time.Now()
	if !e.store.Exists() {
		e.flags.active.Store(false)
		e.logDebug(ctx, "check_existing", "no license token on disk",
			slog.String("path", e.store.Path()),
		)
		return false
	}
	data, err := e.store.Load()
	if err != nil {
		e.flags.active.Store(false)
		e.logOperation(ctx, "check_existing", start, err)
		return false
	}
	ok := e.check(ctx, data)
	e.flags.active.Store(ok)
	e.logOperation(ctx, "check_existing", start, nil)
	return ok
}

// check is the central license predicate. It decodes and verifies the
// token, reconciles its claims against the device fingerprint, product id,
// and clock, and drives online revalidation with grace-period semantics.
// All failure kinds collapse to false; the status flags expose the
// user-facing distinctions.
func (e *Engine) check(ctx context.Context, tokenBytes []byte) bool {
	start := time.Now()
	ok, err := e.evaluate(ctx, tokenBytes)
	e.metrics.recordValidation(ctx, start, ok)
	if err != nil {
		e.logWarn(ctx, "license_check", "license check failed",
			slog.String("reason", err.Error()),
		)
	}
	return ok
}

func (e *Engine) evaluate(ctx context.Context, tokenBytes []byte) (bool, error) {
	tok, err := token.Decode(string(tokenBytes))
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	if !token.Verify(e.publicKey, tok) {
		return false, apperrors.ErrBadSignature
	}

	method, err := tok.StringClaim(token.ClaimMethod)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	trial, err := tok.BoolClaim(token.ClaimTrial)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	offline := method == token.MethodOffline

	e.flags.offline.Store(offline)
	e.flags.trial.Store(trial)
	e.flags.validationPending.Store(false)
	e.flags.gracePeriodExpired.Store(false)
	e.flags.trialDaysRemaining.Store(-1)

	sig, err := tok.StringClaim(token.ClaimSig)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	if !fingerprint.Compare(e.fp, sig) {
		e.metrics.recordFingerprintMismatch(ctx)
		return false, apperrors.ErrFingerprintMismatch
	}

	productID, err := tok.StringClaim(token.ClaimProductID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	if productID != e.cfg.ProductID {
		return false, apperrors.ErrWrongProduct
	}

	// Offline licenses are never revalidated and cannot be revoked.
	if offline {
		return true, nil
	}

	now := e.now()
	if trial {
		exp, err := tok.Int64Claim(token.ClaimExp)
		if err != nil {
			return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
		}
		e.flags.trialDaysRemaining.Store((exp - now.Unix()) / secondsPerDay)
		if exp < now.Unix() {
			e.flags.active.Store(false)
			return false, apperrors.ErrExpired
		}
	}

	validated, err := tok.Int64Claim(token.ClaimValidated)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	// Whole-day floor; a clock skewed into the past counts as recently
	// validated.
	deltaDays := (now.Unix() - validated) / secondsPerDay
	if deltaDays <= int64(e.cfg.Thresholds.AllowedDaysWithoutValidation) {
		return true, nil
	}

	if e.validate(ctx, tokenBytes) {
		return true, nil
	}

	withinGrace := deltaDays <= int64(e.cfg.Thresholds.GracePeriodDays)
	e.flags.validationPending.Store(true)
	e.flags.gracePeriodExpired.Store(!withinGrace)
	if !withinGrace {
		return false, apperrors.ErrStaleOffline
	}
	e.logInfo(ctx, "license_check", "revalidation deferred, within grace period",
		slog.Int64("days_since_validation", deltaDays),
	)
	return true, nil
}

// validate POSTs the token to the validation endpoint and, on acceptance,
// replaces the on-disk token with the refreshed one from the response.
func (e *Engine) validate(ctx context.Context, tokenBytes []byte) bool {
	resp := e.client.Post(ctx, e.validationURL, "text/plain", tokenBytes)
	if resp.StatusCode == 0 || resp.StatusCode >= 400 {
		e.logWarn(ctx, "license_validate", "online revalidation failed",
			slog.Int("status", resp.StatusCode),
		)
		return false
	}
	if err := e.store.Save(resp.Body); err != nil {
		// The server accepted the token; the stale copy stays usable until
		// the next refresh attempt.
		e.logError(ctx, "license_validate", "failed to persist refreshed token",
			slog.String("error", err.Error()),
		)
	}
	return true
}

type activationRequest struct {
	DeviceName      string `json:"deviceName"`
	DeviceSignature string `json:"deviceSignature"`
}

type activationURLs struct {
	Request string `json:"request"`
	Browser string `json:"browser"`
}

// RequestActivation drives the in-browser activation flow: it registers
// the device, opens the activation page in the user's browser, and polls
// the returned URL until a token is issued or the attempt budget runs out.
//
// The attempt budget is maxRetries / secondsBetweenRetries polls with
// secondsBetweenRetries seconds of sleep between them, so the total
// wall-clock bound is roughly maxRetries seconds plus one synchronous
// POST. Blocks for up to that long; run it on a background goroutine.
func (e *Engine) RequestActivation(ctx context.Context, maxRetries, secondsBetweenRetries int) ActivationResult {
	start := time.Now()
	result := e.requestActivation(ctx, maxRetries, secondsBetweenRetries)
	e.metrics.recordActivation(ctx, start, result.String())
	if result == ActivationSuccess {
		e.logOperation(ctx, "request_activation", start, nil)
	} else {
		e.logOperation(ctx, "request_activation", start, fmt.Errorf("activation %s", result))
	}
	return result
}

func (e *Engine) requestActivation(ctx context.Context, maxRetries, secondsBetweenRetries int) ActivationResult {
	e.flags.offline.Store(false)
	e.flags.validationPending.Store(false)
	e.flags.gracePeriodExpired.Store(false)
	e.flags.trialDaysRemaining.Store(-1)

	fail := func(reason string, attrs ...slog.Attr) ActivationResult {
		e.flags.active.Store(false)
		e.logWarn(ctx, "request_activation", reason, attrs...)
		return ActivationFail
	}

	payload, err := json.Marshal(activationRequest{
		DeviceName:      e.fp.DeviceName,
		DeviceSignature: e.fp.IDBase64,
	})
	if err != nil {
		return fail("failed to encode activation request")
	}

	resp := e.client.Post(ctx, e.activationURL, "application/json", payload)
	if resp.StatusCode == 0 || resp.StatusCode >= 400 {
		return fail("activation request rejected", slog.Int("status", resp.StatusCode))
	}

	var urls activationURLs
	if err := json.Unmarshal(resp.Body, &urls); err != nil || urls.Request == "" || urls.Browser == "" {
		return fail("activation response missing request/browser urls")
	}

	if err := e.launchBrowser(urls.Browser); err != nil {
		// The user can still open the page by hand; keep polling.
		e.logWarn(ctx, "request_activation", "failed to open browser",
			slog.String("url", urls.Browser),
			slog.String("error", err.Error()),
		)
	}

	if secondsBetweenRetries < 1 {
		secondsBetweenRetries = 1
	}
	maxAttempts := maxRetries / secondsBetweenRetries

	var tokenBody []byte
	received := false
	for attempt := 0; attempt < maxAttempts; attempt++ {
		poll := e.client.Get(ctx, urls.Request)
		if poll.StatusCode != 0 && poll.StatusCode != http.StatusNoContent && poll.StatusCode < 400 {
			tokenBody = poll.Body
			received = true
			break
		}
		e.logDebug(ctx, "request_activation", "token not ready",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxAttempts),
			slog.Int("status", poll.StatusCode),
		)
		if !e.sleep(ctx, time.Duration(secondsBetweenRetries)*time.Second) {
			return fail("activation cancelled")
		}
	}
	if !received {
		e.flags.active.Store(false)
		e.logWarn(ctx, "request_activation", "activation poll budget exhausted",
			slog.Int("max_attempts", maxAttempts),
		)
		return ActivationTimeout
	}

	tok, err := token.Decode(string(tokenBody))
	if err != nil {
		return fail("received token is malformed", slog.String("error", err.Error()))
	}
	if err := e.store.Save(tokenBody); err != nil {
		return fail("failed to store token", slog.String("error", err.Error()))
	}

	e.flags.active.Store(true)
	trial, err := tok.BoolClaim(token.ClaimTrial)
	if err != nil {
		return fail("received token is missing the trial claim")
	}
	e.flags.trial.Store(trial)
	if trial {
		exp, err := tok.Int64Claim(token.ClaimExp)
		if err != nil {
			return fail("received trial token is missing the exp claim")
		}
		e.flags.trialDaysRemaining.Store((exp - e.now().Unix()) / secondsPerDay)
	}
	return ActivationSuccess
}

// Deactivate revokes the stored license with the server and removes the
// token file.
func (e *Engine) Deactivate(ctx context.Context) error {
	start := time.Now()
	err := e.deactivate(ctx)
	e.logOperation(ctx, "deactivate", start, err)
	return err
}

func (e *Engine) deactivate(ctx context.Context) error {
	if !e.store.Exists() {
		return apperrors.ErrNoToken
	}
	tokenBytes, err := e.store.Load()
	if err != nil {
		return err
	}
	resp := e.client.Post(ctx, e.revocationURL, "text/plain", tokenBytes)
	if resp.StatusCode == 0 || resp.StatusCode >= 400 {
		return fmt.Errorf("%w: revocation returned status %d", apperrors.ErrTransport, resp.StatusCode)
	}
	if err := e.store.Remove(); err != nil {
		return err
	}
	e.flags.active.Store(false)
	return nil
}

type offlineDeviceToken struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProductID string `json:"productId"`
	Format    string `json:"format"`
}

// GenerateOfflineDeviceToken writes the offline activation request file for
// this device to destPath. The file holds base64 of the request JSON and is
// conventionally named with a .dt extension. Safe from any goroutine.
func (e *Engine) GenerateOfflineDeviceToken(destPath string) error {
	data, err := json.Marshal(offlineDeviceToken{
		ID:        e.fp.IDBase64,
		Name:      e.fp.DeviceName,
		ProductID: e.cfg.ProductID,
		Format:    "JWT",
	})
	if err != nil {
		return fmt.Errorf("failed to encode offline device token: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if err := afero.WriteFile(e.fs, destPath, []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("failed to write offline device token: %w", err)
	}
	return nil
}

// ReceiveOfflineLicenseToken installs a license token file delivered out of
// band (drag-and-drop or file picker) and re-checks it.
func (e *Engine) ReceiveOfflineLicenseToken(ctx context.Context, path string) (bool, error) {
	if err := e.store.CopyIn(path); err != nil {
		return false, err
	}
	return e.CheckForExisting(ctx), nil
}

// ReceiveOfflineLicenseTokenBytes installs a license token supplied as raw
// bytes. The payload must at least decode as a compact JWT before it is
// written.
func (e *Engine) ReceiveOfflineLicenseTokenBytes(ctx context.Context, data []byte) (bool, error) {
	if _, err := token.Decode(string(data)); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrDecodePayload, err)
	}
	if err := e.store.Save(data); err != nil {
		return false, err
	}
	return e.CheckForExisting(ctx), nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
