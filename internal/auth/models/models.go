// Package models holds the portal's authenticated-session types.
package models

import (
	"time"

	id "memberportal/pkg/domain"
)

// AuthenticatedUser is the member profile held for a logged-in session.
type AuthenticatedUser struct {
	UserID           id.UserID `json:"userId"`
	IDNumber         string    `json:"idNumber"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Cellphone        string    `json:"cellphone"`
	Address          string    `json:"address"`
	Province         string    `json:"province"`
	Municipality     string    `json:"municipality"`
	Ward             string    `json:"ward"`
	VotingStation    string    `json:"votingStation"`
	MembershipType   string    `json:"membershipType"`
	MembershipNumber string    `json:"membershipNumber"`
	JoinDate         time.Time `json:"joinDate"`
}

// UserUpdate is a partial profile edit. Nil fields are left alone.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	Cellphone *string `json:"cellphone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Cellphone == nil && u.Address == nil
}

// Apply copies the set fields onto the user.
func (u UserUpdate) Apply(user *AuthenticatedUser) {
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Cellphone != nil {
		user.Cellphone = *u.Cellphone
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
}

// Session is one login: the user, the bearer token issued for it and the
// device it came from.
type Session struct {
	ID        id.SessionID      `json:"id"`
	User      AuthenticatedUser `json:"user"`
	Token     string            `json:"token"`
	TokenJTI  string            `json:"tokenJti"`
	Device    string            `json:"device"`
	CreatedAt time.Time         `json:"createdAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Expired reports whether the session's token has run out at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// OTPIssued describes a sent login code without revealing it.
type OTPIssued struct {
	Destination string    `json:"destination"`
	ExpiresAt   time.Time `json:"expiresAt"`
	// DevCode is only filled in dev-assist builds.
	DevCode string `json:"devCode,omitempty"`
}

// LoginResult is returned when a code is exchanged for a session.
type LoginResult struct {
	AccessToken string            `json:"accessToken"`
	TokenType   string            `json:"tokenType"`
	ExpiresAt   time.Time         `json:"expiresAt"`
	Device      string            `json:"device"`
	User        AuthenticatedUser `json:"user"`
}
