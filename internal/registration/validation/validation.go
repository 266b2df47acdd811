// Package validation holds the per-step validators. Each is a pure function
// of the aggregate; when validation is disabled every validator reports no
// errors, so the bypass can never be partial.
package validation

import (
	"math/big"
	"regexp"
	"strings"

	"memberportal/internal/idnumber"
	"memberportal/internal/registration/models"
)

// Func validates the fields one step owns.
type Func func(f models.FormData, enabled bool) models.ErrorMap

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cellphonePattern = regexp.MustCompile(`^0[0-9]{9}$`)
)

const (
	MsgIDRequired        = "ID number is required"
	MsgIDLength          = "ID number must be exactly 13 digits"
	MsgIDDigits          = "ID number must contain only digits"
	MsgEmailRequired     = "Email is required"
	MsgEmailFormat       = "Enter a valid email address"
	MsgCellphoneRequired = "Cellphone number is required"
	MsgCellphoneFormat   = "Cellphone number must be 10 digits starting with 0"
	MsgAcceptTerms       = "You must accept the membership oath"
	MsgAmountRequired    = "Payment amount is required"
	MsgAmountNumeric     = "Payment amount must be a number"
)

// ForStep returns the validator owned by step.
func ForStep(step models.Step) Func {
	switch step {
	case models.StepIDNumber:
		return IDNumber
	case models.StepPersonalDetails:
		return PersonalDetails
	case models.StepContactDetails:
		return ContactDetails
	case models.StepMembershipDetails:
		return MembershipDetails
	case models.StepMembershipOath:
		return MembershipOath
	case models.StepPayment:
		return Payment
	}
	return func(models.FormData, bool) models.ErrorMap { return models.ErrorMap{} }
}

func IDNumber(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	switch {
	case f.IDNumber == "":
		errs[models.FieldIDNumber] = MsgIDRequired
	case len(f.IDNumber) != idnumber.Length:
		errs[models.FieldIDNumber] = MsgIDLength
	case !idnumber.Valid(f.IDNumber):
		errs[models.FieldIDNumber] = MsgIDDigits
	}
	return errs
}

func PersonalDetails(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	required(errs, models.FieldFirstName, f.FirstName, "First name is required")
	required(errs, models.FieldLastName, f.LastName, "Last name is required")
	required(errs, models.FieldDateOfBirth, f.DateOfBirth, "Date of birth is required")
	required(errs, models.FieldGender, f.Gender, "Gender is required")
	required(errs, models.FieldRace, f.Race, "Race is required")
	required(errs, models.FieldLanguage, f.Language, "Language is required")
	required(errs, models.FieldNationality, f.Nationality, "Nationality is required")
	required(errs, models.FieldEmploymentStatus, f.EmploymentStatus, "Employment status is required")
	return errs
}

func ContactDetails(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs[models.FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs[models.FieldEmail] = MsgEmailFormat
	}
	switch {
	case f.Cellphone == "":
		errs[models.FieldCellphone] = MsgCellphoneRequired
	case !cellphonePattern.MatchString(f.Cellphone):
		errs[models.FieldCellphone] = MsgCellphoneFormat
	}
	required(errs, models.FieldAddress, f.Address, "Address is required")
	return errs
}

func MembershipDetails(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	required(errs, models.FieldMembershipType, f.MembershipType, "Membership type is required")
	return errs
}

func MembershipOath(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	if !f.AcceptTerms {
		errs[models.FieldAcceptTerms] = MsgAcceptTerms
	}
	return errs
}

// Payment requires an amount of at least the server-supplied minimum. The
// message always names the minimum.
func Payment(f models.FormData, enabled bool) models.ErrorMap {
	errs := models.ErrorMap{}
	if !enabled {
		return errs
	}
	minimum := strings.TrimSpace(f.MinimumDonationAmount)
	if minimum == "" {
		minimum = "0"
	}
	amount := strings.TrimSpace(f.PaymentAmount)
	if amount == "" {
		errs[models.FieldPaymentAmount] = MsgAmountRequired + " (minimum R" + minimum + ")"
		return errs
	}
	got, ok := ParseAmount(amount)
	if !ok {
		errs[models.FieldPaymentAmount] = MsgAmountNumeric
		return errs
	}
	floor, ok := ParseAmount(minimum)
	if !ok {
		floor = new(big.Rat)
	}
	if got.Cmp(floor) < 0 {
		errs[models.FieldPaymentAmount] = "Minimum donation amount is R" + minimum
	}
	return errs
}

// ParseAmount parses a plain decimal string such as "150" or "99.50".
func ParseAmount(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/eE") {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return nil, false
	}
	return r, true
}

func required(errs models.ErrorMap, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
	}
}
