package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"thandi@example.co.za", "t*****@example.co.za"},
		{"a@b.org", "a*@b.org"},
		{"zoë.m@mail.co.za", "z****@mail.co.za"},
		{"no-at-sign", "**********"},
		{"@example.org", "************"},
		{"trailing@", "*********"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*******787", MaskPhone("0737504787"))
	assert.Equal(t, "**", MaskPhone("07"))
}
