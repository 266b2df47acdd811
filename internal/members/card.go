package members

import (
	"bytes"
	"context"
	"html/template"

	"memberportal/internal/members/models"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
)

var cardTemplate = template.Must(template.New("card").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="640" height="400" viewBox="0 0 640 400" role="img" aria-label="Membership card for {{.Name}}">
  <rect width="640" height="400" rx="24" fill="#0b3d2e"/>
  <rect x="24" y="24" width="592" height="352" rx="16" fill="#ffffff" fill-opacity="0.06"/>
  <text x="48" y="84" font-family="sans-serif" font-size="28" font-weight="700" fill="#f4c430">MEMBERSHIP CARD</text>
  <text x="48" y="160" font-family="sans-serif" font-size="34" fill="#ffffff">{{.Name}}</text>
  <text x="48" y="204" font-family="monospace" font-size="26" fill="#ffffff">{{.MembershipNumber}}</text>
  <text x="48" y="262" font-family="sans-serif" font-size="18" fill="#cfe8dc">{{.MembershipType}}</text>
  <text x="48" y="292" font-family="sans-serif" font-size="18" fill="#cfe8dc">{{.Region}}</text>
  <text x="48" y="344" font-family="sans-serif" font-size="16" fill="#cfe8dc">Member since {{.JoinDate}}</text>
  <text x="592" y="344" text-anchor="end" font-family="sans-serif" font-size="16" fill="{{.StatusColour}}">{{.Status}}</text>
</svg>
`))

type cardData struct {
	Name             string
	MembershipNumber string
	MembershipType   string
	Region           string
	JoinDate         string
	Status           string
	StatusColour     string
}

// RenderCard draws the virtual membership card as SVG.
func RenderCard(m *models.Member) ([]byte, error) {
	region := m.Province
	if m.Municipality != "" {
		region = m.Municipality + ", " + m.Province
	}
	data := cardData{
		Name:             m.FullName(),
		MembershipNumber: m.MembershipNumber,
		MembershipType:   m.MembershipType,
		Region:           region,
		JoinDate:         m.JoinDate.Format("02 Jan 2006"),
		Status:           "ACTIVE",
		StatusColour:     "#7ddc9a",
	}
	if m.Status != models.StatusActive {
		data.Status = "PAYMENT PENDING"
		data.StatusColour = "#f4a261"
	}
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Card renders the card of a directory member.
func (s *Service) Card(ctx context.Context, memberID id.MemberID) ([]byte, error) {
	m, err := s.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	svg, err := RenderCard(m)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render membership card")
	}
	return svg, nil
}
