package utils

import (
	"strings"
	"unicode"
)

// IsValidEmail applies a light shape check: something before the "@" and a
// dotted domain after it. Deliverability is proven by the verification
// email, not here.
func IsValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// IsComplexPassword enforces the signup policy: at least eight characters
// mixing upper case, lower case, a digit and a symbol.
func IsComplexPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
