//go:build !devassist

package devassist

import (
	"time"

	"memberportal/internal/registration/models"
)

// Compiled is true only in devassist builds.
const Compiled = false

// Prefill is a no-op outside devassist builds.
func Prefill(*models.FormData, time.Time) error {
	return nil
}
