// Package handler exposes the registration wizard and its pick lists over
// HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"memberportal/internal/backend"
	"memberportal/internal/registration/models"
	"memberportal/internal/registration/wizard"
	"memberportal/internal/resolution"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/httputil"
	"memberportal/pkg/platform/middleware/request"
)

//go:generate mockgen -source=handler.go -destination=mocks/registration_mocks.go -package=mocks Service Geo MembershipTypes

// Service is the wizard surface the handler drives.
type Service interface {
	Start(ctx context.Context) (*models.RegistrationSession, error)
	Get(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error)
	UpdateForm(ctx context.Context, regID id.RegistrationID, patch models.FormPatch) (*models.RegistrationSession, error)
	ResolveID(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error)
	Advance(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, wizard.AdvanceResult, error)
	Retreat(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error)
	Payment(ctx context.Context, regID id.RegistrationID) (models.PaymentSnapshot, error)
	RetryVerification(ctx context.Context, regID id.RegistrationID) (models.PaymentSnapshot, error)
	Discard(ctx context.Context, regID id.RegistrationID) error
}

// Geo serves the geography pick lists.
type Geo interface {
	Provinces(ctx context.Context, query string) ([]backend.Option, error)
	Municipalities(ctx context.Context, province, query string) ([]backend.Option, error)
	Wards(ctx context.Context, province, municipality, query string) ([]backend.Option, error)
	VotingStations(ctx context.Context, ward, query string) ([]backend.Option, error)
	CascadeFor(ctx context.Context, province string) (*resolution.Cascade, error)
}

type MembershipTypes interface {
	MembershipTypes(ctx context.Context) ([]backend.MembershipType, error)
}

type Handler struct {
	service Service
	geo     Geo
	types   MembershipTypes
	logger  *slog.Logger
	timeout time.Duration
	limit   func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithLookupLimit wraps the endpoints that reach the backend for a fresh
// lookup (starting a registration and resolving an ID number) in mw.
func WithLookupLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.limit = mw
		}
	}
}

func New(service Service, geo Geo, types MembershipTypes, logger *slog.Logger, timeout time.Duration, opts ...Option) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	h := &Handler{
		service: service,
		geo:     geo,
		types:   types,
		logger:  logger,
		timeout: timeout,
		limit:   func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(registrationRouter chi.Router) {
		registrationRouter.Use(request.Recovery(h.logger))
		registrationRouter.Use(request.RequestID)
		registrationRouter.Use(request.Logger(h.logger))
		registrationRouter.Use(request.Timeout(h.timeout))
		registrationRouter.Use(request.ContentTypeJSON)
		registrationRouter.With(h.limit).Post("/registrations", h.handleStart)
		registrationRouter.Route("/registrations/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDiscard)
			r.Patch("/form", h.handleUpdateForm)
			r.With(h.limit).Post("/id-resolution", h.handleResolveID)
			r.Post("/advance", h.handleAdvance)
			r.Post("/retreat", h.handleRetreat)
			r.Get("/payment", h.handlePayment)
			r.Post("/payment/retry", h.handleRetryVerification)
		})
		registrationRouter.Get("/membership-types", h.handleMembershipTypes)
		registrationRouter.Get("/geo/provinces", h.handleProvinces)
		registrationRouter.Get("/geo/municipalities", h.handleMunicipalities)
		registrationRouter.Get("/geo/wards", h.handleWards)
		registrationRouter.Get("/geo/voting-stations", h.handleVotingStations)
		registrationRouter.Get("/geo/cascade", h.handleCascade)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.service.Start(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to start registration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.service.Get)
}

func (h *Handler) handleResolveID(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.service.ResolveID)
}

func (h *Handler) handleRetreat(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.service.Retreat)
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(context.Context, id.RegistrationID) (*models.RegistrationSession, error)) {
	ctx := r.Context()
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	session, err := fn(ctx, regID)
	if err != nil {
		h.fail(ctx, w, "registration request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	patch, ok := httputil.DecodeJSON[models.FormPatch](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	session, err := h.service.UpdateForm(ctx, regID, *patch)
	if err != nil {
		h.fail(ctx, w, "failed to update registration form", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	session, result, err := h.service.Advance(ctx, regID)
	if err != nil {
		h.fail(ctx, w, "failed to advance registration", err)
		return
	}
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, AdvanceResponse{
		Result:  result,
		Session: toSessionResponse(session),
	})
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	h.withPayment(w, r, h.service.Payment)
}

func (h *Handler) handleRetryVerification(w http.ResponseWriter, r *http.Request) {
	h.withPayment(w, r, h.service.RetryVerification)
}

func (h *Handler) withPayment(w http.ResponseWriter, r *http.Request, fn func(context.Context, id.RegistrationID) (models.PaymentSnapshot, error)) {
	ctx := r.Context()
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	snap, err := fn(ctx, regID)
	if err != nil {
		h.fail(ctx, w, "payment request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponse(snap))
}

func (h *Handler) handleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	if err := h.service.Discard(ctx, regID); err != nil {
		h.fail(ctx, w, "failed to discard registration", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMembershipTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	types, err := h.types.MembershipTypes(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list membership types", backend.ToDomain(err, "failed to list membership types"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handleProvinces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeOptions(w, r, func(ctx context.Context) ([]backend.Option, error) {
		return h.geo.Provinces(ctx, q.Get("q"))
	})
}

func (h *Handler) handleMunicipalities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeOptions(w, r, func(ctx context.Context) ([]backend.Option, error) {
		return h.geo.Municipalities(ctx, q.Get("province"), q.Get("q"))
	})
}

func (h *Handler) handleWards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeOptions(w, r, func(ctx context.Context) ([]backend.Option, error) {
		return h.geo.Wards(ctx, q.Get("province"), q.Get("municipality"), q.Get("q"))
	})
}

func (h *Handler) handleVotingStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeOptions(w, r, func(ctx context.Context) ([]backend.Option, error) {
		return h.geo.VotingStations(ctx, q.Get("ward"), q.Get("q"))
	})
}

func (h *Handler) handleCascade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cascade, err := h.geo.CascadeFor(ctx, r.URL.Query().Get("province"))
	if err != nil {
		h.fail(ctx, w, "geo lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cascade)
}

func (h *Handler) writeOptions(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]backend.Option, error)) {
	ctx := r.Context()
	opts, err := fetch(ctx)
	if err != nil {
		h.fail(ctx, w, "geo lookup failed", err)
		return
	}
	if opts == nil {
		opts = []backend.Option{}
	}
	httputil.WriteJSON(w, http.StatusOK, opts)
}

func (h *Handler) registrationID(w http.ResponseWriter, r *http.Request) (id.RegistrationID, bool) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return id.RegistrationID{}, false
	}
	return regID, true
}

// fail logs server-side failures loudly and client mistakes quietly.
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
