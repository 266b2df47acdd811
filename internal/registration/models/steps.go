package models

// Step is a zero-based index into the fixed wizard sequence.
type Step int

const (
	StepIDNumber Step = iota
	StepPersonalDetails
	StepContactDetails
	StepMembershipDetails
	StepMembershipOath
	StepPayment
)

// FinalStep is the step whose advance triggers registration and payment.
const FinalStep = StepPayment

var stepTitles = [...]string{
	StepIDNumber:          "ID Number",
	StepPersonalDetails:   "Personal Details",
	StepContactDetails:    "Contact Details",
	StepMembershipDetails: "Membership Details",
	StepMembershipOath:    "Membership Oath",
	StepPayment:           "Payment",
}

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stepTitles[s]
}

// Valid reports whether s lies within the sequence.
func (s Step) Valid() bool {
	return s >= StepIDNumber && s <= FinalStep
}

// StepCount is the number of steps in the sequence.
func StepCount() int {
	return len(stepTitles)
}
