// Package handler serves the admin view of the member directory.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"memberportal/internal/members/models"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/httputil"
	"memberportal/pkg/platform/middleware/admin"
	"memberportal/pkg/platform/middleware/request"
	liststr "memberportal/pkg/platform/strings"
)

//go:generate mockgen -source=handler.go -destination=mocks/members_mocks.go -package=mocks Service

type Service interface {
	List(ctx context.Context, f models.Filter) (*models.Page, error)
}

type Handler struct {
	service    Service
	adminToken string
	logger     *slog.Logger
}

func New(service Service, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{service: service, adminToken: adminToken, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(request.Recovery(h.logger))
		adminRouter.Use(request.RequestID)
		adminRouter.Use(request.Logger(h.logger))
		adminRouter.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		adminRouter.Get("/admin/members", h.handleList)
	})
}

// handleList answers GET /admin/members?q=&province=&limit=&offset=.
// province may repeat or hold a comma-separated list.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
		return
	}
	offset, err := optionalInt(q.Get("offset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "offset must be a non-negative integer"))
		return
	}

	page, err := h.service.List(ctx, models.Filter{
		Query:     q.Get("q"),
		Provinces: liststr.SplitQueryValues(q["province"]),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list members",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
