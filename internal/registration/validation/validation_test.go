package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memberportal/internal/registration/models"
)

func validForm() models.FormData {
	return models.FormData{
		IDNumber:              "0001025205087",
		FirstName:             "Thandi",
		LastName:              "Nkosi",
		DateOfBirth:           "2000-01-02",
		Gender:                "Male",
		Race:                  "African",
		Language:              "isiZulu",
		Nationality:           "South African",
		EmploymentStatus:      "Employed",
		Disability:            "No",
		Email:                 "thandi@example.co.za",
		Cellphone:             "0737504787",
		Address:               "12 Long Street",
		MembershipType:        "standard",
		AcceptTerms:           true,
		PaymentAmount:         "20",
		MinimumDonationAmount: "20",
	}
}

func TestEveryStepPassesForCompleteForm(t *testing.T) {
	f := validForm()
	for step := models.StepIDNumber; step <= models.FinalStep; step++ {
		assert.Empty(t, ForStep(step)(f, true), step.String())
	}
}

func TestDisabledValidationReportsNothing(t *testing.T) {
	var empty models.FormData
	for step := models.StepIDNumber; step <= models.FinalStep; step++ {
		assert.Empty(t, ForStep(step)(empty, false), step.String())
		assert.NotEmpty(t, ForStep(step)(empty, true), step.String())
	}
}

func TestIDNumber(t *testing.T) {
	tests := []struct {
		id  string
		msg string
	}{
		{"", MsgIDRequired},
		{"123", MsgIDLength},
		{"00010252050871", MsgIDLength},
		{"00010252O5087", MsgIDDigits},
		{"0001025205087", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			errs := IDNumber(models.FormData{IDNumber: tt.id}, true)
			assert.Equal(t, tt.msg, errs[models.FieldIDNumber])
		})
	}
}

func TestCellphone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"0737504787", true},
		{"123456789", false},
		{"08375047801", false},
		{"1737504787", false},
		{"07375O4787", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			f := validForm()
			f.Cellphone = tt.phone
			errs := ContactDetails(f, true)
			if tt.valid {
				assert.NotContains(t, errs, models.FieldCellphone)
			} else {
				assert.Equal(t, MsgCellphoneFormat, errs[models.FieldCellphone])
			}
		})
	}
}

func TestEmail(t *testing.T) {
	for _, bad := range []string{"plain", "a@b", "a b@c.d", "@c.d"} {
		f := validForm()
		f.Email = bad
		assert.Equal(t, MsgEmailFormat, ContactDetails(f, true)[models.FieldEmail], bad)
	}
}

func TestPayment(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		minimum string
		want    string
	}{
		{"empty amount", "", "50", "minimum"},
		{"below minimum", "49.99", "50", "minimum"},
		{"equal to minimum", "50", "50", ""},
		{"above minimum with cents", "50.01", "50.00", ""},
		{"not a number", "fifty", "50", "numeric"},
		{"fraction syntax rejected", "100/2", "50", "numeric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Payment(models.FormData{PaymentAmount: tt.amount, MinimumDonationAmount: tt.minimum}, true)
			msg := errs[models.FieldPaymentAmount]
			switch tt.want {
			case "minimum":
				assert.Contains(t, msg, "R"+tt.minimum)
			case "numeric":
				assert.Equal(t, MsgAmountNumeric, msg)
			default:
				assert.Empty(t, msg)
			}
		})
	}
}

func TestOath(t *testing.T) {
	f := validForm()
	f.AcceptTerms = false
	assert.Equal(t, MsgAcceptTerms, MembershipOath(f, true)[models.FieldAcceptTerms])
}
