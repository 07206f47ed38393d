package license

import "sync/atomic"

// LicenseStatus is a snapshot of the licensing state, safe to read from any
// goroutine.
//
// The snapshot is assembled from independent atomic loads, so a reader
// racing a status update may briefly observe a partially-updated mix (for
// example OnlineValidationPending true alongside a stale Active). Hosts
// poll frequently; eventual consistency is sufficient.
type LicenseStatus struct {
	Active                     bool  `json:"active"`
	Trial                      bool  `json:"trial"`
	Offline                    bool  `json:"offline"`
	OnlineValidationPending    bool  `json:"online_validation_pending"`
	OfflineGracePeriodExceeded bool  `json:"offline_grace_period_exceeded"`
	TrialDaysRemaining         int64 `json:"trial_days_remaining"`
}

// statusFlags is the atomic group backing LicenseStatus. Each field is an
// independent atomic with release-store / acquire-load semantics; there is
// no explicit state enum, the flag set is the state.
type statusFlags struct {
	active             atomic.Bool
	trial              atomic.Bool
	offline            atomic.Bool
	validationPending  atomic.Bool
	gracePeriodExpired atomic.Bool
	trialDaysRemaining atomic.Int64
}

func (f *statusFlags) snapshot() LicenseStatus {
	return LicenseStatus{
		Active:                     f.active.Load(),
		Trial:                      f.trial.Load(),
		Offline:                    f.offline.Load(),
		OnlineValidationPending:    f.validationPending.Load(),
		OfflineGracePeriodExceeded: f.gracePeriodExpired.Load(),
		TrialDaysRemaining:         f.trialDaysRemaining.Load(),
	}
}
