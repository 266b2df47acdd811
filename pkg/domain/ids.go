// Package domain holds the typed identifiers shared across bounded contexts.
// Parsing happens once at the trust boundary; everything past it works with
// the typed value so a registration ID can never be passed where a user ID is
// expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "memberportal/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	SessionID      uuid.UUID
	RegistrationID uuid.UUID
	MemberID       uuid.UUID
)

// maxIDLength bounds input before it reaches the UUID parser.
const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return id, nil
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID("user ID", s)
	return UserID(id), err
}

func ParseSessionID(s string) (SessionID, error) {
	id, err := parseUUID("session ID", s)
	return SessionID(id), err
}

func ParseRegistrationID(s string) (RegistrationID, error) {
	id, err := parseUUID("registration ID", s)
	return RegistrationID(id), err
}

func ParseMemberID(s string) (MemberID, error) {
	id, err := parseUUID("member ID", s)
	return MemberID(id), err
}

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewSessionID() SessionID           { return SessionID(uuid.New()) }
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.New()) }
func NewMemberID() MemberID             { return MemberID(uuid.New()) }

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id SessionID) String() string      { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }
func (id MemberID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MemberID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id RegistrationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id MemberID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *RegistrationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MemberID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
