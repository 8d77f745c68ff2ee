package casemap

import "strings"

// Fold lowercases s with rfc1459 casemapping, where []\~ are the upper
// case forms of {}|^.
func Fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '[':
			return '{'
		case r == ']':
			return '}'
		case r == '\\':
			return '|'
		case r == '~':
			return '^'
		}
		return r
	}, s)
}

func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
