package models

import (
	"time"

	id "memberportal/pkg/domain"
)

// Status is a directory record's membership standing.
type Status string

const (
	StatusActive         Status = "active"
	StatusPendingPayment Status = "pending_payment"
)

// Member is the directory projection of a completed registration.
type Member struct {
	ID               id.MemberID `json:"id"`
	IDNumber         string      `json:"idNumber"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	Email            string      `json:"email"`
	Cellphone        string      `json:"cellphone"`
	Address          string      `json:"address"`
	Province         string      `json:"province"`
	Municipality     string      `json:"municipality"`
	Ward             string      `json:"ward"`
	VotingStation    string      `json:"votingStation"`
	MembershipType   string      `json:"membershipType"`
	MembershipNumber string      `json:"membershipNumber"`
	PaymentReference string      `json:"paymentReference,omitempty"`
	Status           Status      `json:"status"`
	JoinDate         time.Time   `json:"joinDate"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// FullName joins first and last name.
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Filter narrows a directory listing. Query matches names, identity number
// and membership number case-insensitively.
type Filter struct {
	Query     string
	Provinces []string
	Limit     int
	Offset    int
}

// Page is one slice of a listing plus the total matching count.
type Page struct {
	Members []*Member `json:"members"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}

// ContactUpdate is the member-editable part of a record. Nil leaves a field.
type ContactUpdate struct {
	Email     *string `json:"email,omitempty"`
	Cellphone *string `json:"cellphone,omitempty"`
	Address   *string `json:"address,omitempty"`
}
