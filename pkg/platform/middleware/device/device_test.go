package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"memberportal/pkg/requestcontext"
)

const chromeLinux = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestLabel(t *testing.T) {
	t.Run("desktop browser", func(t *testing.T) {
		label := Label(chromeLinux)
		assert.Contains(t, label, "Chrome 120")
		assert.Contains(t, label, "Linux")
	})

	t.Run("empty header", func(t *testing.T) {
		assert.Equal(t, unknownLabel, Label("  "))
	})
}

func TestFromContext(t *testing.T) {
	ctx := requestcontext.WithClientMetadata(context.Background(), "127.0.0.1", chromeLinux)
	assert.Equal(t, Label(chromeLinux), FromContext(ctx))
}
