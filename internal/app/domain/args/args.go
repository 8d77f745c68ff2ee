package args

import (
	"fmt"
	"strings"
)

type Kind int

const (
	String Kind = iota
	Integer
	ChannelName
	Remainder
)

// Unbounded as MaxArity lifts the upper arity limit.
const Unbounded = -1

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case ChannelName:
		return "channel"
	case Remainder:
		return "remainder"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Validator is an extra check on the raw token after kind coercion succeeded.
type Validator func(token string) bool

type Spec struct {
	Name      string
	Kind      Kind
	Validator Validator
}

func Param(name string, kind Kind) Spec {
	return Spec{Name: name, Kind: kind}
}

func ValidatedParam(name string, kind Kind, validator Validator) Spec {
	return Spec{Name: name, Kind: kind, Validator: validator}
}

// Shape is one candidate interpretation of a token sequence. Shapes of a
// command are tried in declaration order and the first that binds wins.
type Shape struct {
	MinArity          int
	MaxArity          int
	Slots             []Spec
	AllowTrailingJoin bool
}

func (s Shape) acceptsArity(n int) bool {
	if n < s.MinArity {
		return false
	}
	return s.MaxArity == Unbounded || n <= s.MaxArity
}

func (s Shape) arity() string {
	switch {
	case s.MaxArity == Unbounded:
		return fmt.Sprintf("%d or more", s.MinArity)
	case s.MinArity == s.MaxArity:
		return fmt.Sprintf("exactly %d", s.MinArity)
	}
	return fmt.Sprintf("%d to %d", s.MinArity, s.MaxArity)
}

// String renders the shape as a usage line, e.g. "<nickname> <minutes:integer> [reason...]".
func (s Shape) String() string {
	parts := make([]string, 0, len(s.Slots))
	for i, slot := range s.Slots {
		last := i == len(s.Slots)-1
		switch {
		case slot.Kind == Remainder && last && s.AllowTrailingJoin:
			parts = append(parts, "["+slot.Name+"...]")
		case slot.Kind == String:
			parts = append(parts, "<"+slot.Name+">")
		default:
			parts = append(parts, "<"+slot.Name+":"+slot.Kind.String()+">")
		}
	}
	return strings.Join(parts, " ")
}

// IsChannelName reports whether name starts with one of prefixes and
// contains none of the characters forbidden in channel names.
func IsChannelName(name, prefixes string) bool {
	if prefixes == "" {
		prefixes = DefaultChannelPrefixes
	}
	if len(name) < 2 || len(name) > 50 {
		return false
	}
	if !strings.ContainsRune(prefixes, rune(name[0])) {
		return false
	}
	return !strings.ContainsAny(name, " ,\x07")
}

const DefaultChannelPrefixes = "#&"
