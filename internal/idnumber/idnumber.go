// Package idnumber derives date of birth and gender from a 13-digit South
// African identity number. Derivation is local; the checksum digit is left to
// the backend, which reports it as a lookup failure.
package idnumber

import (
	"fmt"
	"strconv"
	"time"
)

// Length is the number of digits in an identity number.
const Length = 13

// Gender as encoded in digits 6-9.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// genderThreshold is the lowest sequence number assigned to males.
const genderThreshold = 5000

// Derived holds the values an identity number encodes.
type Derived struct {
	DateOfBirth string // YYYY-MM-DD
	Gender      Gender
}

// Valid reports whether id is exactly 13 ASCII digits.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// Parse derives date of birth and gender. ok is false unless id is exactly 13
// digits. The century is 19xx when YY is greater than now's two-digit year,
// 20xx otherwise; month and day are copied through without calendar checks.
func Parse(id string, now time.Time) (Derived, bool) {
	if !Valid(id) {
		return Derived{}, false
	}

	yy, _ := strconv.Atoi(id[0:2])
	century := 2000
	if yy > now.Year()%100 {
		century = 1900
	}

	gender := GenderMale
	if seq, _ := strconv.Atoi(id[6:10]); seq < genderThreshold {
		gender = GenderFemale
	}

	return Derived{
		DateOfBirth: fmt.Sprintf("%04d-%s-%s", century+yy, id[2:4], id[4:6]),
		Gender:      gender,
	}, true
}
