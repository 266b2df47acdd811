package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"memberportal/internal/members/handler/mocks"
	"memberportal/internal/members/models"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/middleware/admin"
	"memberportal/pkg/testutil"
)

func newRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, "secret", slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func adminRequest(t *testing.T, path string) *http.Request {
	req := testutil.NewRequest(t, http.MethodGet, path)
	req.Header.Set(admin.HeaderAdminToken, "secret")
	return req
}

func TestListRequiresAdminToken(t *testing.T) {
	router, _ := newRouter(t)
	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/members"))
	testutil.AssertStatusAndError(t, rec, http.StatusForbidden, "forbidden")
}

func TestListPassesFilter(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().List(gomock.Any(), models.Filter{
		Query:     "nkosi",
		Provinces: []string{"GP", "WC"},
		Limit:     10,
		Offset:    20,
	}).Return(&models.Page{Members: []*models.Member{}, Total: 0, Limit: 10, Offset: 20}, nil)

	rec := testutil.DoRequest(router, adminRequest(t, "/admin/members?q=nkosi&province=GP,WC&province=GP&limit=10&offset=20"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"members":[],"total":0,"limit":10,"offset":20}`, rec.Body.String())
}

func TestListReturnsMembers(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(&models.Page{
		Members: []*models.Member{{FirstName: "Thandi", MembershipNumber: "MBR20260000001", Status: models.StatusActive}},
		Total:   1,
		Limit:   50,
	}, nil)

	rec := testutil.DoRequest(router, adminRequest(t, "/admin/members"))

	assert.Equal(t, http.StatusOK, rec.Code)
	page := testutil.UnmarshalResponse[models.Page](t, rec)
	assert.Equal(t, 1, page.Total)
	if assert.Len(t, page.Members, 1) {
		assert.Equal(t, "MBR20260000001", page.Members[0].MembershipNumber)
	}
}

func TestListRejectsBadPaging(t *testing.T) {
	router, _ := newRouter(t)
	rec := testutil.DoRequest(router, adminRequest(t, "/admin/members?limit=-1"))
	testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "bad_request")
}

func TestListHidesInternalErrors(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "pq: connection refused"))

	rec := testutil.DoRequest(router, adminRequest(t, "/admin/members"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
