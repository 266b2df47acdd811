package models

// Per-step projections of FormData returned to clients.

type IDStepView struct {
	IDNumber    string `json:"idNumber"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

type PersonalView struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Race             string `json:"race"`
	Language         string `json:"language"`
	Nationality      string `json:"nationality"`
	EmploymentStatus string `json:"employmentStatus"`
	Occupation       string `json:"occupation,omitempty"`
	Disability       string `json:"disability"`
}

type ContactView struct {
	Email         string `json:"email"`
	Cellphone     string `json:"cellphone"`
	Address       string `json:"address"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Province      string `json:"province"`
	Municipality  string `json:"municipality"`
	Ward          string `json:"ward"`
	VotingStation string `json:"votingStation"`
}

type MembershipView struct {
	MembershipType string `json:"membershipType"`
}

type OathView struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	AcceptTerms bool   `json:"acceptTerms"`
}

type PaymentView struct {
	MembershipType        string `json:"membershipType"`
	PaymentMethod         string `json:"paymentMethod"`
	PaymentAmount         string `json:"paymentAmount"`
	MinimumDonationAmount string `json:"minimumDonationAmount"`
	PaymentCompleted      bool   `json:"paymentCompleted"`
}

// StepView returns the projection for step. Exactly one field is set.
type StepView struct {
	ID         *IDStepView     `json:"id,omitempty"`
	Personal   *PersonalView   `json:"personal,omitempty"`
	Contact    *ContactView    `json:"contact,omitempty"`
	Membership *MembershipView `json:"membership,omitempty"`
	Oath       *OathView       `json:"oath,omitempty"`
	Payment    *PaymentView    `json:"payment,omitempty"`
}

// ViewFor projects f onto the fields step owns.
func (f FormData) ViewFor(step Step) StepView {
	switch step {
	case StepIDNumber:
		return StepView{ID: &IDStepView{IDNumber: f.IDNumber, DateOfBirth: f.DateOfBirth, Gender: f.Gender}}
	case StepPersonalDetails:
		return StepView{Personal: &PersonalView{
			FirstName:        f.FirstName,
			LastName:         f.LastName,
			DateOfBirth:      f.DateOfBirth,
			Gender:           f.Gender,
			Race:             f.Race,
			Language:         f.Language,
			Nationality:      f.Nationality,
			EmploymentStatus: f.EmploymentStatus,
			Occupation:       f.Occupation,
			Disability:       f.Disability,
		}}
	case StepContactDetails:
		return StepView{Contact: &ContactView{
			Email:         f.Email,
			Cellphone:     f.Cellphone,
			Address:       f.Address,
			AddressLine2:  f.AddressLine2,
			PostalCode:    f.PostalCode,
			Province:      f.Province,
			Municipality:  f.Municipality,
			Ward:          f.Ward,
			VotingStation: f.VotingStation,
		}}
	case StepMembershipDetails:
		return StepView{Membership: &MembershipView{MembershipType: f.MembershipType}}
	case StepMembershipOath:
		return StepView{Oath: &OathView{FirstName: f.FirstName, LastName: f.LastName, AcceptTerms: f.AcceptTerms}}
	case StepPayment:
		return StepView{Payment: &PaymentView{
			MembershipType:        f.MembershipType,
			PaymentMethod:         f.PaymentMethod,
			PaymentAmount:         f.PaymentAmount,
			MinimumDonationAmount: f.MinimumDonationAmount,
			PaymentCompleted:      f.PaymentCompleted,
		}}
	}
	return StepView{}
}
