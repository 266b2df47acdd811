// Package email holds helpers for showing member contact details without
// revealing them in full.
package email

import (
	"strings"
	"unicode/utf8"
)

// Mask keeps the first character of the local part and the whole domain:
// "thandi@example.co.za" becomes "t*****@example.co.za". Values without a
// usable "@" are masked entirely.
func Mask(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at <= 0 || at == len(address)-1 {
		return strings.Repeat("*", utf8.RuneCountInString(address))
	}
	local := address[:at]
	first, size := utf8.DecodeRuneInString(local)
	rest := utf8.RuneCountInString(local[size:])
	if rest == 0 {
		rest = 1
	}
	return string(first) + strings.Repeat("*", rest) + address[at:]
}

// MaskPhone keeps the last three digits of a number.
func MaskPhone(number string) string {
	n := utf8.RuneCountInString(number)
	if n <= 3 {
		return strings.Repeat("*", n)
	}
	runes := []rune(number)
	return strings.Repeat("*", n-3) + string(runes[n-3:])
}
