// Package handler exposes portal login and the member dashboard over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"memberportal/internal/auth/models"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/httputil"
	authmw "memberportal/pkg/platform/middleware/auth"
	"memberportal/pkg/platform/middleware/metadata"
	"memberportal/pkg/platform/middleware/request"
	"memberportal/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/auth_mocks.go -package=mocks Service

type Service interface {
	RequestOTP(ctx context.Context, idNumber string) (*models.OTPIssued, error)
	VerifyOTP(ctx context.Context, idNumber, code, userAgent string) (*models.LoginResult, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
	Me(ctx context.Context, sessionID id.SessionID) (*models.AuthenticatedUser, error)
	UpdateMe(ctx context.Context, sessionID id.SessionID, u models.UserUpdate) (*models.AuthenticatedUser, error)
	Card(ctx context.Context, sessionID id.SessionID) ([]byte, error)
}

type Handler struct {
	service   Service
	validator authmw.JWTValidator
	sessions  authmw.SessionChecker
	logger    *slog.Logger
	timeout   time.Duration
	otpLimit  func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithOTPLimit wraps the login code endpoints in mw.
func WithOTPLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.otpLimit = mw
		}
	}
}

func New(service Service, validator authmw.JWTValidator, sessions authmw.SessionChecker, logger *slog.Logger, timeout time.Duration, opts ...Option) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	h := &Handler{
		service:   service,
		validator: validator,
		sessions:  sessions,
		logger:    logger,
		timeout:   timeout,
		otpLimit:  passthrough,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func passthrough(next http.Handler) http.Handler { return next }

type otpRequest struct {
	IDNumber string `json:"idNumber"`
}

type verifyRequest struct {
	IDNumber string `json:"idNumber"`
	Code     string `json:"code"`
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(request.Recovery(h.logger))
		authRouter.Use(request.RequestID)
		authRouter.Use(request.Logger(h.logger))
		authRouter.Use(request.Timeout(h.timeout))
		authRouter.Use(request.ContentTypeJSON)
		authRouter.Use(metadata.ClientMetadata)

		authRouter.With(h.otpLimit).Post("/auth/otp/request", h.handleRequestOTP)
		authRouter.With(h.otpLimit).Post("/auth/otp/verify", h.handleVerifyOTP)

		authRouter.Group(func(protected chi.Router) {
			protected.Use(authmw.RequireAuth(h.validator, h.sessions, h.logger))
			protected.Post("/auth/logout", h.handleLogout)
			protected.Get("/me", h.handleMe)
			protected.Patch("/me", h.handleUpdateMe)
			protected.Get("/me/card", h.handleCard)
		})
	})
}

func (h *Handler) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[otpRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	issued, err := h.service.RequestOTP(ctx, req.IDNumber)
	if err != nil {
		h.fail(ctx, w, "failed to issue login code", err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, issued)
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[verifyRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	if req.IDNumber == "" || req.Code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "idNumber and code are required"))
		return
	}
	result, err := h.service.VerifyOTP(ctx, req.IDNumber, req.Code, requestcontext.UserAgent(ctx))
	if err != nil {
		h.fail(ctx, w, "login failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx, requestcontext.SessionID(ctx)); err != nil {
		h.fail(ctx, w, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.service.Me(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to load profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	update, ok := httputil.DecodeJSON[models.UserUpdate](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	user, err := h.service.UpdateMe(ctx, requestcontext.SessionID(ctx), *update)
	if err != nil {
		h.fail(ctx, w, "failed to update profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	svg, err := h.service.Card(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to render card", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if de, ok := dErrors.As(err); !ok || dErrors.ToHTTPStatus(de.Code) >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
