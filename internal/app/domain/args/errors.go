package args

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoMatchingShape = errors.New("no matching shape")

	errArity        = errors.New("arity mismatch")
	errMissingToken = errors.New("missing token")
	errExtraTokens  = errors.New("unconsumed tokens")
	errNotInteger   = errors.New("not a non-negative integer")
	errNotChannel   = errors.New("not a channel name")
	errRejected     = errors.New("rejected by validator")
	errNotJoinable  = errors.New("kind cannot absorb several tokens")
)

type SlotError struct {
	Slot  string
	Kind  Kind
	Token string
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %q (%s) with token %q: %v", e.Slot, e.Kind, e.Token, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

type ShapeFailure struct {
	Shape Shape
	Err   error
}

// ResolutionError is returned when no shape binds the tokens. It keeps
// every attempted shape with the reason it was rejected.
type ResolutionError struct {
	Tokens   []string
	Failures []ShapeFailure
}

func (e *ResolutionError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrNoMatchingShape.Error())
	fmt.Fprintf(&sb, " for %d token(s)", len(e.Tokens))
	for i, f := range e.Failures {
		fmt.Fprintf(&sb, "; #%d %q: %v", i+1, f.Shape.String(), f.Err)
	}
	return sb.String()
}

func (e *ResolutionError) Unwrap() error {
	return ErrNoMatchingShape
}

func (e *ResolutionError) Shapes() []Shape {
	shapes := make([]Shape, 0, len(e.Failures))
	for _, f := range e.Failures {
		shapes = append(shapes, f.Shape)
	}
	return shapes
}
