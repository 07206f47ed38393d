// Package http exposes the license engine to a local host UI as a chi
// router. The library never starts a server itself; the host mounts the
// router wherever it serves its interface.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "licensekit/internal/errors"
	"licensekit/internal/license"
)

// Default activation poll budget used when the request omits it.
const (
	defaultActivationRetries      = 120
	defaultSecondsBetweenRetries  = 5
	activationHandlerExtraTimeout = 30 * time.Second
)

// LicenseHandler handles license-related HTTP requests from the host UI
type LicenseHandler struct {
	engine *license.Engine
	logger *slog.Logger
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(engine *license.Engine, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		engine: engine,
		logger: logger.With(slog.String("handler", "license")),
	}
}

// ActivateRequest is the POST /activate payload
type ActivateRequest struct {
	MaxRetries            int `json:"max_retries"`
	SecondsBetweenRetries int `json:"seconds_between_retries"`
}

// Bind implements the render.Binder interface
func (a *ActivateRequest) Bind(r *http.Request) error {
	if a.MaxRetries < 0 || a.SecondsBetweenRetries < 0 {
		return errors.New("retry parameters must be non-negative")
	}
	if a.MaxRetries == 0 {
		a.MaxRetries = defaultActivationRetries
	}
	if a.SecondsBetweenRetries == 0 {
		a.SecondsBetweenRetries = defaultSecondsBetweenRetries
	}
	return nil
}

// OfflineRequestPayload is the POST /offline/request payload
type OfflineRequestPayload struct {
	DestPath string `json:"dest_path"`
}

// Bind implements the render.Binder interface
func (o *OfflineRequestPayload) Bind(r *http.Request) error {
	if o.DestPath == "" {
		return errors.New("dest_path is required")
	}
	return nil
}

// StatusResponse wraps a license status snapshot
type StatusResponse struct {
	Status license.LicenseStatus `json:"status"`
}

// ActivateResponse reports an activation outcome alongside the new status
type ActivateResponse struct {
	Result string                `json:"result"`
	Status license.LicenseStatus `json:"status"`
}

// Routes returns a chi router for license endpoints
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)
	r.Get("/device", h.GetDevice)

	// Activation can block for the whole poll budget; give it headroom
	// beyond the default timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(time.Duration(defaultActivationRetries)*time.Second + activationHandlerExtraTimeout))
		r.Post("/activate", h.Activate)
	})

	r.Post("/check", h.Check)
	r.Post("/deactivate", h.Deactivate)
	r.Post("/offline/request", h.OfflineRequest)
	r.Post("/offline/license", h.OfflineLicense)

	return r
}

// GetStatus handles GET /status
func (h *LicenseHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatusResponse{Status: h.engine.Status()})
}

// GetDevice handles GET /device, reporting the identity the product would
// activate under.
func (h *LicenseHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	fp := h.engine.Fingerprint()
	render.JSON(w, r, map[string]string{
		"device_name":      fp.DeviceName,
		"device_signature": fp.IDBase64,
	})
}

// Check handles POST /check, re-reading the stored token
func (h *LicenseHandler) Check(w http.ResponseWriter, r *http.Request) {
	active := h.engine.CheckForExisting(r.Context())
	h.logger.InfoContext(r.Context(), "license check requested", slog.Bool("active", active))
	render.JSON(w, r, StatusResponse{Status: h.engine.Status()})
}

// Activate handles POST /activate, blocking until the activation flow
// resolves
func (h *LicenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	data := &ActivateRequest{}
	if err := render.Bind(r, data); err != nil {
		h.renderError(w, r, apperrors.New(http.StatusBadRequest, apperrors.CodeInvalidRequest, err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "activation requested",
		slog.Int("max_retries", data.MaxRetries),
		slog.Int("seconds_between_retries", data.SecondsBetweenRetries),
	)
	result := h.engine.RequestActivation(r.Context(), data.MaxRetries, data.SecondsBetweenRetries)
	render.JSON(w, r, ActivateResponse{
		Result: result.String(),
		Status: h.engine.Status(),
	})
}

// Deactivate handles POST /deactivate
func (h *LicenseHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Deactivate(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "deactivation failed", slog.String("error", err.Error()))
		h.renderError(w, r, apperrors.FromLicenseError(err))
		return
	}
	render.JSON(w, r, StatusResponse{Status: h.engine.Status()})
}

// OfflineRequest handles POST /offline/request, writing the offline
// activation request file
func (h *LicenseHandler) OfflineRequest(w http.ResponseWriter, r *http.Request) {
	data := &OfflineRequestPayload{}
	if err := render.Bind(r, data); err != nil {
		h.renderError(w, r, apperrors.New(http.StatusBadRequest, apperrors.CodeInvalidRequest, err.Error()))
		return
	}
	if err := h.engine.GenerateOfflineDeviceToken(data.DestPath); err != nil {
		h.logger.ErrorContext(r.Context(), "offline request generation failed", slog.String("error", err.Error()))
		h.renderError(w, r, apperrors.ErrAPIFileSystem)
		return
	}
	render.JSON(w, r, map[string]string{"path": data.DestPath})
}

// OfflineLicense handles POST /offline/license, installing a token sent as
// the request body
func (h *LicenseHandler) OfflineLicense(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		h.renderError(w, r, apperrors.New(http.StatusBadRequest, apperrors.CodeInvalidRequest, "request body must contain a license token"))
		return
	}
	active, err := h.engine.ReceiveOfflineLicenseTokenBytes(r.Context(), body)
	if err != nil {
		h.logger.WarnContext(r.Context(), "offline token rejected", slog.String("error", err.Error()))
		h.renderError(w, r, apperrors.FromLicenseError(err))
		return
	}
	h.logger.InfoContext(r.Context(), "offline token installed", slog.Bool("active", active))
	render.JSON(w, r, StatusResponse{Status: h.engine.Status()})
}

func (h *LicenseHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError) {
	if err := render.Render(w, r, apiErr); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render error response", slog.String("error", err.Error()))
	}
}
