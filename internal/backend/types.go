package backend

// Envelope is the response shape every backend endpoint shares.
type Envelope[T any] struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message,omitempty"`
	Data       T      `json:"data"`
}

// RegistrationRequest carries the identity, contact, membership and consent
// fields of a completed wizard.
type RegistrationRequest struct {
	IDNumber         string `json:"idNumber"`
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
	Email            string `json:"email"`
	Cellphone        string `json:"cellphone"`
	Address          string `json:"address"`
	AddressLine2     string `json:"addressLine2,omitempty"`
	PostalCode       string `json:"postalCode,omitempty"`
	Province         string `json:"province"`
	Municipality     string `json:"municipality"`
	Ward             string `json:"ward"`
	VotingStation    string `json:"votingStation"`
	MembershipType   string `json:"membershipType"`
	AcceptTerms      bool   `json:"acceptTerms"`
	PaymentMethod    string `json:"paymentMethod"`
	PaymentAmount    string `json:"paymentAmount"`
}

type RegistrationData struct {
	SubscriptionID   string `json:"subscriptionId"`
	MembershipNumber string `json:"membershipNumber,omitempty"`
}

type PaymentInitRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	IDNumber       string `json:"idNumber"`
	Email          string `json:"email"`
}

type PaymentInitData struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

type PaymentVerifyRequest struct {
	Reference string `json:"reference"`
}

// PaymentVerifyData.Success is distinct from Envelope.Successful; a payment
// is only verified when both are true.
type PaymentVerifyData struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// VotingInfo is the electoral-roll geography for an identity number.
type VotingInfo struct {
	ProvinceID      string `json:"provinceID"`
	MunicipalityID  string `json:"municipalityID"`
	WardID          string `json:"wardId"`
	VotingStationID string `json:"votingStationId"`
}

// Option is a label/value pair for selection lists.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type MembershipType struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	MinimumDonationAmount string `json:"minimumDonationAmount"`
}
