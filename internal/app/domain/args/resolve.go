package args

import (
	"fmt"
	"strconv"
	"strings"
)

type Resolver struct {
	chanTypes func() string
}

// NewResolver takes the source of channel prefixes; it is read on every
// resolution so prefixes advertised by the server apply immediately.
func NewResolver(chanTypes func() string) *Resolver {
	if chanTypes == nil {
		chanTypes = func() string { return DefaultChannelPrefixes }
	}
	return &Resolver{chanTypes: chanTypes}
}

// Resolve binds tokens to the first shape that accepts them. A shape that
// fails does not consume input: the next shape sees the same tokens.
func (r *Resolver) Resolve(tokens []string, shapes []Shape) (Arguments, error) {
	prefixes := r.chanTypes()
	failures := make([]ShapeFailure, 0, len(shapes))

	for _, shape := range shapes {
		values, err := bind(tokens, shape, prefixes)
		if err != nil {
			failures = append(failures, ShapeFailure{Shape: shape, Err: err})
			continue
		}
		return values, nil
	}

	return nil, &ResolutionError{
		Tokens:   append([]string(nil), tokens...),
		Failures: failures,
	}
}

func bind(tokens []string, shape Shape, prefixes string) (Arguments, error) {
	if !shape.acceptsArity(len(tokens)) {
		return nil, fmt.Errorf("%w: got %d, want %s", errArity, len(tokens), shape.arity())
	}

	values := make(Arguments, len(shape.Slots))
	pos := 0
	for i, slot := range shape.Slots {
		last := i == len(shape.Slots)-1

		if last && shape.AllowTrailingJoin {
			rest := tokens[pos:]
			pos = len(tokens)

			if len(rest) == 0 {
				if slot.Kind != Remainder {
					return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Err: errMissingToken}
				}
				values[slot.Name] = ""
				continue
			}
			if len(rest) > 1 && slot.Kind != Remainder && slot.Kind != String {
				return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Token: strings.Join(rest, " "), Err: errNotJoinable}
			}

			v, err := coerce(slot, strings.Join(rest, " "), prefixes)
			if err != nil {
				return nil, err
			}
			values[slot.Name] = v
			continue
		}

		if pos >= len(tokens) {
			if slot.Kind == Remainder {
				values[slot.Name] = ""
				continue
			}
			return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Err: errMissingToken}
		}

		v, err := coerce(slot, tokens[pos], prefixes)
		if err != nil {
			return nil, err
		}
		values[slot.Name] = v
		pos++
	}

	if pos < len(tokens) {
		return nil, fmt.Errorf("%w: %d left", errExtraTokens, len(tokens)-pos)
	}
	return values, nil
}

func coerce(slot Spec, token string, prefixes string) (any, error) {
	var v any
	switch slot.Kind {
	case Integer:
		n, err := strconv.ParseUint(token, 10, 31)
		if err != nil {
			return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Token: token, Err: errNotInteger}
		}
		v = int(n)
	case ChannelName:
		if !IsChannelName(token, prefixes) {
			return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Token: token, Err: errNotChannel}
		}
		v = ChannelRef(token)
	default:
		v = token
	}

	if slot.Validator != nil && !slot.Validator(token) {
		return nil, &SlotError{Slot: slot.Name, Kind: slot.Kind, Token: token, Err: errRejected}
	}
	return v, nil
}
