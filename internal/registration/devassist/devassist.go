// Package devassist is the developer-assistance mode: validation off and new
// sessions pre-filled with a demo profile. It only exists in binaries built
// with the devassist tag; elsewhere Compiled is a constant false and the
// runtime flag is ignored.
package devassist

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"memberportal/internal/registration/models"
)

// Enabled reports whether the mode is active for this process.
func Enabled(runtimeFlag bool) bool {
	return Compiled && runtimeFlag
}

type profile struct {
	IDNumber              string `yaml:"id_number"`
	FirstName             string `yaml:"first_name"`
	LastName              string `yaml:"last_name"`
	Race                  string `yaml:"race"`
	Language              string `yaml:"language"`
	Nationality           string `yaml:"nationality"`
	EmploymentStatus      string `yaml:"employment_status"`
	Occupation            string `yaml:"occupation"`
	Disability            string `yaml:"disability"`
	Email                 string `yaml:"email"`
	Cellphone             string `yaml:"cellphone"`
	Address               string `yaml:"address"`
	AddressLine2          string `yaml:"address_line2"`
	PostalCode            string `yaml:"postal_code"`
	MembershipType        string `yaml:"membership_type"`
	AcceptTerms           bool   `yaml:"accept_terms"`
	PaymentMethod         string `yaml:"payment_method"`
	PaymentAmount         string `yaml:"payment_amount"`
	MinimumDonationAmount string `yaml:"minimum_donation_amount"`
}

// parseProfile decodes a demo profile into a patch plus the server-supplied
// minimum, which a patch cannot carry.
func parseProfile(raw []byte) (models.FormPatch, string, error) {
	var p profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return models.FormPatch{}, "", fmt.Errorf("decode demo profile: %w", err)
	}
	return models.FormPatch{
		IDNumber:         &p.IDNumber,
		FirstName:        &p.FirstName,
		LastName:         &p.LastName,
		Race:             &p.Race,
		Language:         &p.Language,
		Nationality:      &p.Nationality,
		EmploymentStatus: &p.EmploymentStatus,
		Occupation:       &p.Occupation,
		Disability:       &p.Disability,
		Email:            &p.Email,
		Cellphone:        &p.Cellphone,
		Address:          &p.Address,
		AddressLine2:     &p.AddressLine2,
		PostalCode:       &p.PostalCode,
		MembershipType:   &p.MembershipType,
		AcceptTerms:      &p.AcceptTerms,
		PaymentMethod:    &p.PaymentMethod,
		PaymentAmount:    &p.PaymentAmount,
	}, p.MinimumDonationAmount, nil
}
