package license

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensekit/internal/config"
	apperrors "licensekit/internal/errors"
	"licensekit/internal/fingerprint"
	"licensekit/internal/shared/testutil"
)

const testProductID = "my-plugin"

// fakeClient is a scripted HTTPClient recording every call.
type fakeClient struct {
	mu        sync.Mutex
	getURLs   []string
	postURLs  []string
	postTypes []string
	postBody  [][]byte

	getFn  func(url string, call int) Response
	postFn func(url, contentType string, body []byte) Response
}

func (c *fakeClient) Get(_ context.Context, url string) Response {
	c.mu.Lock()
	c.getURLs = append(c.getURLs, url)
	call := len(c.getURLs)
	c.mu.Unlock()
	if c.getFn == nil {
		return Response{}
	}
	return c.getFn(url, call)
}

func (c *fakeClient) Post(_ context.Context, url, contentType string, body []byte) Response {
	c.mu.Lock()
	c.postURLs = append(c.postURLs, url)
	c.postTypes = append(c.postTypes, contentType)
	c.postBody = append(c.postBody, append([]byte(nil), body...))
	c.mu.Unlock()
	if c.postFn == nil {
		return Response{}
	}
	return c.postFn(url, contentType, body)
}

func (c *fakeClient) postCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.postURLs)
}

type engineFixture struct {
	engine *Engine
	client *fakeClient
	key    *testutil.TestKey
	fp     fingerprint.DeviceFingerprint
	now    time.Time
	sleeps *int
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()
	key := testutil.NewRSAKey(t)
	fp := fingerprint.FromComposite("studio-a", 0x01020304)
	now := time.Unix(1750000000, 0)
	client := &fakeClient{}
	sleeps := 0

	cfg := config.LicenseConfig{
		ProductID:       testProductID,
		APIEndpointBase: "https://api.example.com",
		PublicKeyPEM:    key.PublicPEM,
		LicenseDir:      "licenses",
		Thresholds: config.ValidationThresholds{
			AllowedDaysWithoutValidation: 2,
			GracePeriodDays:              30,
		},
	}
	engine, err := New(cfg,
		WithFilesystem(afero.NewMemMapFs()),
		WithFingerprint(fp),
		WithClock(func() time.Time { return now }),
		WithHTTPClient(client),
		WithBrowserLauncher(func(string) error { return nil }),
	)
	require.NoError(t, err)
	engine.sleep = func(context.Context, time.Duration) bool {
		sleeps++
		return true
	}

	return &engineFixture{
		engine: engine,
		client: client,
		key:    key,
		fp:     fp,
		now:    now,
		sleeps: &sleeps,
	}
}

func (f *engineFixture) installToken(t *testing.T, encoded string) {
	t.Helper()
	require.NoError(t, f.engine.store.Save([]byte(encoded)))
}

func (f *engineFixture) daysAgo(days int) time.Time {
	return f.now.Add(-time.Duration(days) * 24 * time.Hour)
}

func (f *engineFixture) daysAhead(days int) time.Time {
	return f.now.Add(time.Duration(days) * 24 * time.Hour)
}

func TestConstructionCreatesLicenseDir(t *testing.T) {
	f := newFixture(t)
	ok, err := afero.DirExists(f.engine.fs, "licenses")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStatusDefaults(t *testing.T) {
	f := newFixture(t)
	status := f.engine.Status()
	assert.False(t, status.Active)
	assert.False(t, status.Trial)
	assert.False(t, status.Offline)
	assert.False(t, status.OnlineValidationPending)
	assert.False(t, status.OfflineGracePeriodExceeded)
	assert.Equal(t, int64(-1), status.TrialDaysRemaining)
}

func TestCheckForExistingNoToken(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.False(t, status.Active)
	assert.False(t, status.Trial)
	assert.False(t, status.Offline)
	assert.False(t, status.OnlineValidationPending)
	assert.False(t, status.OfflineGracePeriodExceeded)
	assert.Zero(t, f.client.postCount())
}

func TestCheckValidOnlineWithinWindow(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(1))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.False(t, status.Offline)
	assert.False(t, status.OnlineValidationPending)
	// Within the validation window, no network call is issued.
	assert.Zero(t, f.client.postCount())
}

func TestCheckClockSkewIntoPast(t *testing.T) {
	f := newFixture(t)
	// Validated "in the future": treated as recently validated.
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAhead(3))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	assert.Zero(t, f.client.postCount())
}

func TestCheckRevalidationSuccess(t *testing.T) {
	f := newFixture(t)
	refreshed := testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.now))
	f.client.postFn = func(url, contentType string, body []byte) Response {
		assert.Equal(t, "https://api.example.com/api/client/licenses/my-plugin/validate", url)
		assert.Equal(t, "text/plain", contentType)
		return Response{StatusCode: 200, Body: []byte(refreshed)}
	}
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(10))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.False(t, status.OnlineValidationPending)

	// The on-disk token was replaced by the refreshed one.
	data, err := f.engine.store.Load()
	require.NoError(t, err)
	assert.Equal(t, refreshed, string(data))
}

func TestCheckRevalidationFailsWithinGrace(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 500}
	}
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(10))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.True(t, status.OnlineValidationPending)
	assert.False(t, status.OfflineGracePeriodExceeded)
	assert.False(t, status.Offline)
}

func TestCheckRevalidationFailsBeyondGrace(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 500}
	}
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(45))))

	assert.False(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.False(t, status.Active)
	assert.True(t, status.OnlineValidationPending)
	assert.True(t, status.OfflineGracePeriodExceeded)
}

func TestCheckTransportFailureWithinGrace(t *testing.T) {
	f := newFixture(t)
	// Status 0 models a transport failure; treated like >=400 here.
	f.client.postFn = func(string, string, []byte) Response {
		return Response{}
	}
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(10))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	assert.True(t, f.engine.Status().OnlineValidationPending)
}

func TestCheckOfflineLicense(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OfflineClaims(testProductID, f.fp.IDBase64)))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.True(t, status.Offline)
	assert.False(t, status.Trial)
	// Offline licenses are never revalidated.
	assert.Zero(t, f.client.postCount())
}

func TestCheckWrongProduct(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims("other-plugin", f.fp.IDBase64, f.daysAgo(1))))

	assert.False(t, f.engine.CheckForExisting(context.Background()))
	assert.False(t, f.engine.Status().Active)
}

func TestCheckFingerprintDrift(t *testing.T) {
	tests := []struct {
		name      string
		composite uint32
		want      bool
	}{
		{"identical", 0x01020304, true},
		{"cpu changed", 0xFF020304, true},
		{"volume changed", 0x01FF0304, true},
		{"mac changed", 0x0102FFFF, true},
		{"cpu and volume changed", 0xFFFF0304, false},
		{"volume and mac changed", 0x01FFFFFF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sig := fingerprint.EncodeComposite(tt.composite)
			f.installToken(t, testutil.SignToken(t, f.key,
				testutil.OnlineClaims(testProductID, sig, f.daysAgo(1))))

			assert.Equal(t, tt.want, f.engine.CheckForExisting(context.Background()))
		})
	}
}

func TestCheckExpiredTrial(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.TrialClaims(testProductID, f.fp.IDBase64, f.daysAgo(1), f.daysAgo(1))))

	assert.False(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.False(t, status.Active)
	assert.True(t, status.Trial)
	// Expiration defeats the license before any revalidation attempt.
	assert.Zero(t, f.client.postCount())
}

func TestCheckValidTrial(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.TrialClaims(testProductID, f.fp.IDBase64, f.daysAhead(5), f.daysAgo(1))))

	assert.True(t, f.engine.CheckForExisting(context.Background()))
	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.True(t, status.Trial)
	assert.Equal(t, int64(5), status.TrialDaysRemaining)
}

func TestCheckBadSignature(t *testing.T) {
	f := newFixture(t)
	forger := testutil.NewRSAKey(t)
	f.installToken(t, testutil.SignToken(t, forger,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(1))))

	assert.False(t, f.engine.CheckForExisting(context.Background()))
}

func TestCheckMalformedToken(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, "definitely-not-a-jwt")

	assert.False(t, f.engine.CheckForExisting(context.Background()))
	assert.False(t, f.engine.Status().Active)
}

func TestCheckMissingClaims(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		claims map[string]any
	}{
		{"no validated on online license", testutil.LicenseClaims(testProductID, f.fp.IDBase64, "Online")},
		{"no method", map[string]any{"sig": f.fp.IDBase64, "p:id": testProductID, "trial": false}},
		{"no trial", map[string]any{"sig": f.fp.IDBase64, "p:id": testProductID, "method": "Online"}},
		{"no sig", map[string]any{"p:id": testProductID, "method": "Online", "trial": false}},
		{"no exp on trial", map[string]any{
			"sig": f.fp.IDBase64, "p:id": testProductID, "method": "Online",
			"trial": true, "validated": f.daysAgo(1).Unix(),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.installToken(t, testutil.SignToken(t, f.key, tt.claims))
			assert.False(t, f.engine.CheckForExisting(context.Background()))
		})
	}
}

func activationResponses(t *testing.T, f *engineFixture, tokenBody string, notReadyPolls int) {
	t.Helper()
	f.client.postFn = func(url, contentType string, body []byte) Response {
		require.Equal(t, "https://api.example.com/api/client/activations/my-plugin/request", url)
		require.Equal(t, "application/json", contentType)

		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, f.fp.DeviceName, req["deviceName"])
		require.Equal(t, f.fp.IDBase64, req["deviceSignature"])

		return Response{StatusCode: 200, Body: []byte(`{"request":"https://poll.example.com/r/1","browser":"https://activate.example.com/a/1"}`)}
	}
	f.client.getFn = func(url string, call int) Response {
		require.Equal(t, "https://poll.example.com/r/1", url)
		if call <= notReadyPolls {
			return Response{StatusCode: 204}
		}
		return Response{StatusCode: 200, Body: []byte(tokenBody)}
	}
}

func TestRequestActivationSuccess(t *testing.T) {
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.now))
	activationResponses(t, f, issued, 2)

	var opened string
	f.engine.launchBrowser = func(url string) error {
		opened = url
		return nil
	}

	result := f.engine.RequestActivation(context.Background(), 30, 5)
	assert.Equal(t, ActivationSuccess, result)
	assert.Equal(t, "https://activate.example.com/a/1", opened)
	assert.Equal(t, 2, *f.sleeps)

	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.False(t, status.Trial)

	data, err := f.engine.store.Load()
	require.NoError(t, err)
	assert.Equal(t, issued, string(data))
}

func TestRequestActivationTrial(t *testing.T) {
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.TrialClaims(testProductID, f.fp.IDBase64, f.daysAhead(10), f.now))
	activationResponses(t, f, issued, 0)

	result := f.engine.RequestActivation(context.Background(), 30, 5)
	assert.Equal(t, ActivationSuccess, result)

	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.True(t, status.Trial)
	assert.Equal(t, int64(10), status.TrialDaysRemaining)
}

func TestRequestActivationTimeout(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 200, Body: []byte(`{"request":"https://poll.example.com/r/1","browser":"https://activate.example.com/a/1"}`)}
	}
	f.client.getFn = func(string, int) Response {
		return Response{StatusCode: 204}
	}

	result := f.engine.RequestActivation(context.Background(), 10, 2)
	assert.Equal(t, ActivationTimeout, result)
	assert.False(t, f.engine.Status().Active)
	// floor(10 / 2) attempts, each followed by a sleep
	assert.Len(t, f.client.getURLs, 5)
	assert.Equal(t, 5, *f.sleeps)
}

func TestRequestActivationPollStatusHandling(t *testing.T) {
	// 0, 204, and >=400 all mean "not yet"; the first <400 non-204
	// response carries the token.
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.now))
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 200, Body: []byte(`{"request":"https://poll.example.com/r/1","browser":"https://activate.example.com/a/1"}`)}
	}
	statuses := []int{0, 404, 500, 204, 200}
	f.client.getFn = func(_ string, call int) Response {
		st := statuses[call-1]
		if st == 200 {
			return Response{StatusCode: 200, Body: []byte(issued)}
		}
		return Response{StatusCode: st}
	}

	result := f.engine.RequestActivation(context.Background(), 60, 5)
	assert.Equal(t, ActivationSuccess, result)
	assert.Len(t, f.client.getURLs, 5)
}

func TestRequestActivationRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", 500},
		{"not found", 404},
		{"transport failure", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.client.postFn = func(string, string, []byte) Response {
				return Response{StatusCode: tt.status}
			}
			result := f.engine.RequestActivation(context.Background(), 30, 5)
			assert.Equal(t, ActivationFail, result)
			assert.False(t, f.engine.Status().Active)
		})
	}
}

func TestRequestActivationMissingURLs(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 200, Body: []byte(`{}`)}
	}
	assert.Equal(t, ActivationFail, f.engine.RequestActivation(context.Background(), 30, 5))
}

func TestRequestActivationMalformedToken(t *testing.T) {
	f := newFixture(t)
	activationResponses(t, f, "not-a-jwt", 0)

	assert.Equal(t, ActivationFail, f.engine.RequestActivation(context.Background(), 30, 5))
	assert.False(t, f.engine.Status().Active)
}

func TestRequestActivationCancelled(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 200, Body: []byte(`{"request":"https://poll.example.com/r/1","browser":"https://activate.example.com/a/1"}`)}
	}
	f.client.getFn = func(string, int) Response {
		return Response{StatusCode: 204}
	}
	f.engine.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := f.engine.RequestActivation(ctx, 30, 5)
	assert.Equal(t, ActivationFail, result)
}

func TestRequestActivationResetsFlags(t *testing.T) {
	f := newFixture(t)
	f.engine.flags.offline.Store(true)
	f.engine.flags.validationPending.Store(true)
	f.engine.flags.gracePeriodExpired.Store(true)
	f.engine.flags.trialDaysRemaining.Store(12)

	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 500}
	}
	_ = f.engine.RequestActivation(context.Background(), 30, 5)

	status := f.engine.Status()
	assert.False(t, status.Offline)
	assert.False(t, status.OnlineValidationPending)
	assert.False(t, status.OfflineGracePeriodExceeded)
	assert.Equal(t, int64(-1), status.TrialDaysRemaining)
}

func TestDeactivateNoToken(t *testing.T) {
	f := newFixture(t)
	err := f.engine.Deactivate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoToken)
}

func TestDeactivateSuccess(t *testing.T) {
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.OfflineClaims(testProductID, f.fp.IDBase64))
	f.installToken(t, issued)
	f.engine.flags.active.Store(true)

	f.client.postFn = func(url, contentType string, body []byte) Response {
		assert.Equal(t, "https://api.example.com/api/client/licenses/my-plugin/revoke", url)
		assert.Equal(t, "text/plain", contentType)
		assert.Equal(t, issued, string(body))
		return Response{StatusCode: 200}
	}

	require.NoError(t, f.engine.Deactivate(context.Background()))
	assert.False(t, f.engine.store.Exists())
	assert.False(t, f.engine.Status().Active)
}

func TestDeactivateServerRejects(t *testing.T) {
	f := newFixture(t)
	f.installToken(t, "some-token")
	f.engine.flags.active.Store(true)

	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 500}
	}

	err := f.engine.Deactivate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	// The token file stays; revocation was not acknowledged.
	assert.True(t, f.engine.store.Exists())
	assert.True(t, f.engine.Status().Active)
}

func TestGenerateOfflineDeviceToken(t *testing.T) {
	f := newFixture(t)
	dest := "out/OfflineActivationRequest.dt"
	require.NoError(t, f.engine.GenerateOfflineDeviceToken(dest))

	raw, err := afero.ReadFile(f.engine.fs, dest)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(decoded, &payload))
	assert.Equal(t, f.fp.IDBase64, payload["id"])
	assert.Equal(t, f.fp.DeviceName, payload["name"])
	assert.Equal(t, testProductID, payload["productId"])
	assert.Equal(t, "JWT", payload["format"])
}

func TestReceiveOfflineLicenseToken(t *testing.T) {
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.OfflineClaims(testProductID, f.fp.IDBase64))
	src := "downloads/license-token.mb"
	require.NoError(t, afero.WriteFile(f.engine.fs, src, []byte(issued), 0o644))

	active, err := f.engine.ReceiveOfflineLicenseToken(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, active)

	status := f.engine.Status()
	assert.True(t, status.Active)
	assert.True(t, status.Offline)
}

func TestReceiveOfflineLicenseTokenMissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.ReceiveOfflineLicenseToken(context.Background(), "downloads/nope.mb")
	assert.Error(t, err)
}

func TestReceiveOfflineLicenseTokenBytes(t *testing.T) {
	f := newFixture(t)
	issued := testutil.SignToken(t, f.key,
		testutil.OfflineClaims(testProductID, f.fp.IDBase64))

	active, err := f.engine.ReceiveOfflineLicenseTokenBytes(context.Background(), []byte(issued))
	require.NoError(t, err)
	assert.True(t, active)
	assert.True(t, f.engine.store.Exists())
}

func TestReceiveOfflineLicenseTokenBytesRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	active, err := f.engine.ReceiveOfflineLicenseTokenBytes(context.Background(), []byte("garbage"))
	assert.ErrorIs(t, err, apperrors.ErrDecodePayload)
	assert.False(t, active)
	// Nothing was written.
	assert.False(t, f.engine.store.Exists())
}

func TestStatusReadableDuringOperations(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 500}
	}
	f.installToken(t, testutil.SignToken(t, f.key,
		testutil.OnlineClaims(testProductID, f.fp.IDBase64, f.daysAgo(10))))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			f.engine.CheckForExisting(context.Background())
		}
	}()

	for i := 0; i < 1000; i++ {
		status := f.engine.Status()
		// Each flag is a plain boolean; snapshots may tear but never
		// contain garbage.
		_ = status
	}
	<-done

	assert.True(t, f.engine.Status().OnlineValidationPending)
}

func TestActivationResultString(t *testing.T) {
	assert.Equal(t, "success", ActivationSuccess.String())
	assert.Equal(t, "timeout", ActivationTimeout.String())
	assert.Equal(t, "fail", ActivationFail.String())
	assert.Equal(t, "fail", ActivationResult(99).String())
}

func TestSecondsBetweenRetriesFloor(t *testing.T) {
	f := newFixture(t)
	f.client.postFn = func(string, string, []byte) Response {
		return Response{StatusCode: 200, Body: []byte(`{"request":"https://poll.example.com/r/1","browser":"https://activate.example.com/a/1"}`)}
	}
	f.client.getFn = func(string, int) Response {
		return Response{StatusCode: 204}
	}

	// A zero interval is clamped to one second, bounding attempts at
	// maxRetries rather than dividing by zero.
	result := f.engine.RequestActivation(context.Background(), 3, 0)
	assert.Equal(t, ActivationTimeout, result)
	assert.Len(t, f.client.getURLs, 3)
}
