//go:build devassist

package devassist

import (
	_ "embed"
	"time"

	"memberportal/internal/registration/models"
)

// Compiled is true only in devassist builds.
const Compiled = true

//go:embed demo_profile.yaml
var demoProfile []byte

// Prefill seeds f with the embedded demo profile.
func Prefill(f *models.FormData, now time.Time) error {
	patch, minimum, err := parseProfile(demoProfile)
	if err != nil {
		return err
	}
	f.Apply(patch, now)
	f.MinimumDonationAmount = minimum
	return nil
}
