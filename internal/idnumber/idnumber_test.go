package idnumber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberportal/pkg/testutil"
)

var now = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	testutil.Given(t, "a 13-digit identity number", func(t *testing.T) {
		tests := []struct {
			id     string
			dob    string
			gender Gender
		}{
			{"0001025205087", "2000-01-02", GenderMale},
			{"8501014800089", "1985-01-01", GenderFemale},
			{"2612314999081", "2026-12-31", GenderFemale},
			{"2701015000081", "1927-01-01", GenderMale},
			{"9902295000085", "1999-02-29", GenderMale},
		}
		for _, tt := range tests {
			testutil.Then(t, tt.id+" derives "+tt.dob, func(t *testing.T) {
				got, ok := Parse(tt.id, now)
				require.True(t, ok)
				assert.Equal(t, tt.dob, got.DateOfBirth)
				assert.Equal(t, tt.gender, got.Gender)
			})
		}
	})

	testutil.Given(t, "malformed input", func(t *testing.T) {
		for _, id := range []string{"", "000102520508", "00010252050871", "00010252O5087", " 001025205087", "٠٠٠١٠٢٥٢٠٥٠٨٧"} {
			testutil.Then(t, "no derivation for "+id, func(t *testing.T) {
				_, ok := Parse(id, now)
				assert.False(t, ok)
			})
		}
	})
}

func TestParseCenturyBoundaryFollowsClock(t *testing.T) {
	id := "2701015000081"

	got, ok := Parse(id, now)
	require.True(t, ok)
	assert.Equal(t, "1927-01-01", got.DateOfBirth)

	got, ok = Parse(id, now.AddDate(1, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "2027-01-01", got.DateOfBirth)
}

func FuzzParse(f *testing.F) {
	f.Add("0001025205087")
	f.Add("abc")
	f.Fuzz(func(t *testing.T, id string) {
		got, ok := Parse(id, now)
		if ok != Valid(id) {
			t.Fatalf("Parse ok=%v but Valid=%v for %q", ok, Valid(id), id)
		}
		if ok && len(got.DateOfBirth) != len("2000-01-02") {
			t.Fatalf("unexpected date %q", got.DateOfBirth)
		}
	})
}
