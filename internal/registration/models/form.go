package models

import (
	"time"

	"memberportal/internal/idnumber"
)

// Field names as exposed to clients and used as ErrorMap keys.
const (
	FieldIDNumber              = "idNumber"
	FieldFirstName             = "firstName"
	FieldLastName              = "lastName"
	FieldDateOfBirth           = "dateOfBirth"
	FieldGender                = "gender"
	FieldRace                  = "race"
	FieldLanguage              = "language"
	FieldNationality           = "nationality"
	FieldEmploymentStatus      = "employmentStatus"
	FieldOccupation            = "occupation"
	FieldDisability            = "disability"
	FieldEmail                 = "email"
	FieldCellphone             = "cellphone"
	FieldAddress               = "address"
	FieldAddressLine2          = "addressLine2"
	FieldPostalCode            = "postalCode"
	FieldProvince              = "province"
	FieldMunicipality          = "municipality"
	FieldWard                  = "ward"
	FieldVotingStation         = "votingStation"
	FieldMembershipType        = "membershipType"
	FieldAcceptTerms           = "acceptTerms"
	FieldPaymentMethod         = "paymentMethod"
	FieldPaymentAmount         = "paymentAmount"
	FieldMinimumDonationAmount = "minimumDonationAmount"
)

// ErrorMap maps field name to a user-facing message. Empty means valid.
type ErrorMap map[string]string

// FormData is the registration aggregate, one per registration session.
type FormData struct {
	IDNumber              string `json:"idNumber"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	DateOfBirth           string `json:"dateOfBirth"`
	Gender                string `json:"gender"`
	Race                  string `json:"race"`
	Language              string `json:"language"`
	Nationality           string `json:"nationality"`
	EmploymentStatus      string `json:"employmentStatus"`
	Occupation            string `json:"occupation,omitempty"`
	Disability            string `json:"disability"`
	Email                 string `json:"email"`
	Cellphone             string `json:"cellphone"`
	Address               string `json:"address"`
	AddressLine2          string `json:"addressLine2,omitempty"`
	PostalCode            string `json:"postalCode,omitempty"`
	Province              string `json:"province"`
	Municipality          string `json:"municipality"`
	Ward                  string `json:"ward"`
	VotingStation         string `json:"votingStation"`
	MembershipType        string `json:"membershipType"`
	AcceptTerms           bool   `json:"acceptTerms"`
	PaymentMethod         string `json:"paymentMethod"`
	PaymentAmount         string `json:"paymentAmount"`
	MinimumDonationAmount string `json:"minimumDonationAmount"`
	PaymentCompleted      bool   `json:"paymentCompleted"`
}

// FormPatch is a partial update. Nil fields are left untouched. Derived and
// server-supplied fields (date of birth, gender, minimum donation, payment
// completion) are not patchable.
type FormPatch struct {
	IDNumber         *string `json:"idNumber,omitempty"`
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Race             *string `json:"race,omitempty"`
	Language         *string `json:"language,omitempty"`
	Nationality      *string `json:"nationality,omitempty"`
	EmploymentStatus *string `json:"employmentStatus,omitempty"`
	Occupation       *string `json:"occupation,omitempty"`
	Disability       *string `json:"disability,omitempty"`
	Email            *string `json:"email,omitempty"`
	Cellphone        *string `json:"cellphone,omitempty"`
	Address          *string `json:"address,omitempty"`
	AddressLine2     *string `json:"addressLine2,omitempty"`
	PostalCode       *string `json:"postalCode,omitempty"`
	Province         *string `json:"province,omitempty"`
	Municipality     *string `json:"municipality,omitempty"`
	Ward             *string `json:"ward,omitempty"`
	VotingStation    *string `json:"votingStation,omitempty"`
	MembershipType   *string `json:"membershipType,omitempty"`
	AcceptTerms      *bool   `json:"acceptTerms,omitempty"`
	PaymentMethod    *string `json:"paymentMethod,omitempty"`
	PaymentAmount    *string `json:"paymentAmount,omitempty"`
}

// Apply merges p into f and returns the names of fields whose value changed,
// including cascaded and derived ones. Geography is applied parent first so a
// patch may set a whole chain at once; a child set without its parents is
// rejected in the returned ErrorMap and left unchanged.
func (f *FormData) Apply(p FormPatch, now time.Time) (changed []string, rejected ErrorMap) {
	rejected = ErrorMap{}
	set := func(field string, dst *string, src *string) {
		if src == nil || *dst == *src {
			return
		}
		*dst = *src
		changed = append(changed, field)
	}

	if p.IDNumber != nil && *p.IDNumber != f.IDNumber {
		f.IDNumber = *p.IDNumber
		changed = append(changed, FieldIDNumber)
		changed = append(changed, f.deriveFromIDNumber(now)...)
	}
	set(FieldFirstName, &f.FirstName, p.FirstName)
	set(FieldLastName, &f.LastName, p.LastName)
	set(FieldRace, &f.Race, p.Race)
	set(FieldLanguage, &f.Language, p.Language)
	set(FieldNationality, &f.Nationality, p.Nationality)
	set(FieldEmploymentStatus, &f.EmploymentStatus, p.EmploymentStatus)
	set(FieldOccupation, &f.Occupation, p.Occupation)
	set(FieldDisability, &f.Disability, p.Disability)
	set(FieldEmail, &f.Email, p.Email)
	set(FieldCellphone, &f.Cellphone, p.Cellphone)
	set(FieldAddress, &f.Address, p.Address)
	set(FieldAddressLine2, &f.AddressLine2, p.AddressLine2)
	set(FieldPostalCode, &f.PostalCode, p.PostalCode)

	if p.Province != nil {
		changed = append(changed, f.SetProvince(*p.Province)...)
	}
	if p.Municipality != nil {
		c, msg := f.SetMunicipality(*p.Municipality)
		changed = append(changed, c...)
		if msg != "" {
			rejected[FieldMunicipality] = msg
		}
	}
	if p.Ward != nil {
		c, msg := f.SetWard(*p.Ward)
		changed = append(changed, c...)
		if msg != "" {
			rejected[FieldWard] = msg
		}
	}
	if p.VotingStation != nil {
		c, msg := f.SetVotingStation(*p.VotingStation)
		changed = append(changed, c...)
		if msg != "" {
			rejected[FieldVotingStation] = msg
		}
	}

	set(FieldMembershipType, &f.MembershipType, p.MembershipType)
	if p.AcceptTerms != nil && *p.AcceptTerms != f.AcceptTerms {
		f.AcceptTerms = *p.AcceptTerms
		changed = append(changed, FieldAcceptTerms)
	}
	set(FieldPaymentMethod, &f.PaymentMethod, p.PaymentMethod)
	set(FieldPaymentAmount, &f.PaymentAmount, p.PaymentAmount)
	return changed, rejected
}

// deriveFromIDNumber keeps date of birth and gender in step with the identity
// number. A number that does not parse clears both.
func (f *FormData) deriveFromIDNumber(now time.Time) []string {
	var dob, gender string
	if derived, ok := idnumber.Parse(f.IDNumber, now); ok {
		dob, gender = derived.DateOfBirth, string(derived.Gender)
	}
	var changed []string
	if f.DateOfBirth != dob {
		f.DateOfBirth = dob
		changed = append(changed, FieldDateOfBirth)
	}
	if f.Gender != gender {
		f.Gender = gender
		changed = append(changed, FieldGender)
	}
	return changed
}

// SetProvince changes the province and clears every dependent selection.
func (f *FormData) SetProvince(v string) []string {
	if f.Province == v {
		return nil
	}
	f.Province = v
	return append([]string{FieldProvince}, f.clearBelowProvince()...)
}

// SetMunicipality requires a province and clears ward and voting station.
func (f *FormData) SetMunicipality(v string) ([]string, string) {
	if f.Municipality == v {
		return nil, ""
	}
	if v != "" && f.Province == "" {
		return nil, "Select a province first"
	}
	f.Municipality = v
	return append([]string{FieldMunicipality}, f.clearBelowMunicipality()...), ""
}

// SetWard requires province and municipality and clears the voting station.
func (f *FormData) SetWard(v string) ([]string, string) {
	if f.Ward == v {
		return nil, ""
	}
	if v != "" && (f.Province == "" || f.Municipality == "") {
		return nil, "Select a province and municipality first"
	}
	f.Ward = v
	return append([]string{FieldWard}, f.clearBelowWard()...), ""
}

// SetVotingStation requires a ward.
func (f *FormData) SetVotingStation(v string) ([]string, string) {
	if f.VotingStation == v {
		return nil, ""
	}
	if v != "" && f.Ward == "" {
		return nil, "Select a ward first"
	}
	f.VotingStation = v
	return []string{FieldVotingStation}, ""
}

func (f *FormData) clearBelowProvince() []string {
	var cleared []string
	if f.Municipality != "" {
		f.Municipality = ""
		cleared = append(cleared, FieldMunicipality)
	}
	return append(cleared, f.clearBelowMunicipality()...)
}

func (f *FormData) clearBelowMunicipality() []string {
	var cleared []string
	if f.Ward != "" {
		f.Ward = ""
		cleared = append(cleared, FieldWard)
	}
	return append(cleared, f.clearBelowWard()...)
}

func (f *FormData) clearBelowWard() []string {
	if f.VotingStation == "" {
		return nil
	}
	f.VotingStation = ""
	return []string{FieldVotingStation}
}

// SetGeography replaces the whole chain at once, as returned by an identity
// lookup. Missing links truncate the chain so the cascade invariant holds.
func (f *FormData) SetGeography(province, municipality, ward, votingStation string) []string {
	changed := f.SetProvince(province)
	if province == "" {
		return changed
	}
	c, _ := f.SetMunicipality(municipality)
	changed = append(changed, c...)
	if municipality == "" {
		return changed
	}
	c, _ = f.SetWard(ward)
	changed = append(changed, c...)
	if ward == "" {
		return changed
	}
	c, _ = f.SetVotingStation(votingStation)
	return append(changed, c...)
}
