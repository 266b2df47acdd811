package members

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberportal/internal/events"
	"memberportal/internal/members/models"
	"memberportal/internal/members/store"
	regmodels "memberportal/internal/registration/models"
	dErrors "memberportal/pkg/domain-errors"
)

var joinTime = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *events.MemoryPublisher) {
	pub := events.NewMemoryPublisher()
	return NewService(store.NewInMemoryStore(),
		WithPublisher(pub),
		WithClock(func() time.Time { return joinTime }),
	), pub
}

func paidForm() regmodels.FormData {
	return regmodels.FormData{
		IDNumber:       "0001025205087",
		FirstName:      "Thandi",
		LastName:       "Nkosi",
		Email:          "thandi@example.co.za",
		Cellphone:      "0737504787",
		Address:        "12 Long Street",
		Province:       "GP",
		Municipality:   "JHB",
		Ward:           "79800074",
		VotingStation:  "VS1",
		MembershipType: "standard",
	}
}

func TestEnrollGeneratesMembershipNumber(t *testing.T) {
	svc, pub := newTestService()

	number, err := svc.Enroll(context.Background(), paidForm(), regmodels.RegistrationResult{Successful: true}, "ref-1")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^MBR2026\d{7}$`), number)

	m, err := svc.FindByIDNumber(context.Background(), "0001025205087")
	require.NoError(t, err)
	assert.Equal(t, number, m.MembershipNumber)
	assert.Equal(t, models.StatusActive, m.Status)
	assert.Equal(t, "ref-1", m.PaymentReference)

	registered := pub.OfType(events.MemberRegistered)
	require.Len(t, registered, 1)
	assert.Equal(t, number, registered[0].Data["membership_number"])
}

func TestEnrollPrefersBackendNumber(t *testing.T) {
	svc, _ := newTestService()

	number, err := svc.Enroll(context.Background(), paidForm(), regmodels.RegistrationResult{MembershipNumber: "B-42"}, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "B-42", number)
}

func TestReEnrollKeepsNumberAndJoinDate(t *testing.T) {
	svc, _ := newTestService()
	first, err := svc.Enroll(context.Background(), paidForm(), regmodels.RegistrationResult{}, "ref-1")
	require.NoError(t, err)
	original, err := svc.FindByIDNumber(context.Background(), "0001025205087")
	require.NoError(t, err)

	svc.now = func() time.Time { return joinTime.AddDate(1, 0, 0) }
	second, err := svc.Enroll(context.Background(), paidForm(), regmodels.RegistrationResult{}, "ref-2")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	renewed, err := svc.FindByIDNumber(context.Background(), "0001025205087")
	require.NoError(t, err)
	assert.Equal(t, original.ID, renewed.ID)
	assert.Equal(t, joinTime, renewed.JoinDate)
	assert.Equal(t, "ref-2", renewed.PaymentReference)
}

func TestUpdateContact(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Enroll(context.Background(), paidForm(), regmodels.RegistrationResult{}, "ref-1")
	require.NoError(t, err)
	m, err := svc.FindByIDNumber(context.Background(), "0001025205087")
	require.NoError(t, err)

	email := "new@example.org"
	updated, err := svc.UpdateContact(context.Background(), m.ID, models.ContactUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "0737504787", updated.Cellphone)

	bad := "123456789"
	_, err = svc.UpdateContact(context.Background(), m.ID, models.ContactUpdate{Cellphone: &bad})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestListClampsAndFilters(t *testing.T) {
	svc, _ := newTestService()
	for i, province := range []string{"GP", "WC", "GP"} {
		f := paidForm()
		f.IDNumber = f.IDNumber[:12] + string(rune('0'+i))
		f.Province = province
		_, err := svc.Enroll(context.Background(), f, regmodels.RegistrationResult{}, "ref")
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), models.Filter{Provinces: []string{"GP"}, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Members, 2)
	assert.Equal(t, maxLimit, page.Limit)

	page, err = svc.List(context.Background(), models.Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Members, 1)
}

func TestFindByIDNumberMissing(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.FindByIDNumber(context.Background(), "0001025205087")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRenderCard(t *testing.T) {
	svg, err := RenderCard(&models.Member{
		FirstName:        "Thandi",
		LastName:         "<script>",
		MembershipNumber: "MBR20260000001",
		MembershipType:   "standard",
		Province:         "GP",
		Municipality:     "JHB",
		Status:           models.StatusActive,
		JoinDate:         joinTime,
	})
	require.NoError(t, err)
	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "MBR20260000001")
	assert.Contains(t, out, "JHB, GP")
	assert.Contains(t, out, "01 Mar 2026")
	assert.NotContains(t, out, "<script>")
}
