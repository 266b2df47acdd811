package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "  ", want: nil},
		{name: "single", input: "GP", want: []string{"GP"}},
		{name: "trims and dedupes", input: " GP, WC ,GP,,", want: []string{"GP", "WC"}},
		{name: "only separators", input: ",,,", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestSplitQueryValues(t *testing.T) {
	assert.Equal(t, []string{"GP", "WC", "KZN"}, SplitQueryValues([]string{"GP,WC", "KZN", "GP"}))
	assert.Nil(t, SplitQueryValues(nil))
}
