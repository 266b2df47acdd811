package domain

import "testing"

func FuzzParseUserID(f *testing.F) {
	for _, seed := range []string{
		"",
		"550e8400-e29b-41d4-a716-446655440000",
		"00000000-0000-0000-0000-000000000000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"8001015009087",
		"550e8400-e29b-41d4-a716-446655440000\x00",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		parsed, err := ParseUserID(input)
		if err != nil {
			return
		}
		again, err := ParseUserID(parsed.String())
		if err != nil {
			t.Fatalf("canonical form %q rejected: %v", parsed.String(), err)
		}
		if again != parsed {
			t.Fatalf("round trip of %q changed value", input)
		}
	})
}

// Every typed ID wraps the same UUID parser, so they must agree on validity.
func FuzzTypedIDsAgree(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("registration")

	f.Fuzz(func(t *testing.T, input string) {
		_, userErr := ParseUserID(input)
		_, sessionErr := ParseSessionID(input)
		_, registrationErr := ParseRegistrationID(input)
		_, memberErr := ParseMemberID(input)

		valid := userErr == nil
		for _, err := range []error{sessionErr, registrationErr, memberErr} {
			if (err == nil) != valid {
				t.Fatalf("typed parsers disagree on %q", input)
			}
		}
	})
}
