package book

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"
)

// ErrUnknownBinding is returned when a binding name is not recognised.
var ErrUnknownBinding = errors.New("unknown binding type")

// Side names a cover.
type Side int

const (
	SideFront Side = iota
	SideBack
)

func (s Side) String() string {
	if s == SideBack {
		return "back"
	}
	return "front"
}

// Sign is +1 for the front cover and -1 for the back cover. Front-side
// geometry extends along +X from its hinge, back-side geometry along -X.
func (s Side) Sign() float64 {
	if s == SideBack {
		return -1
	}
	return 1
}

// ClosedAngle is the hinge rotation (radians about Y) that folds the cover shut.
func (s Side) ClosedAngle() float64 {
	return -s.Sign() * gomath.Pi / 2
}

// OpenAngle is the hinge rotation of a fully opened, flat cover.
func (s Side) OpenAngle() float64 {
	return 0
}

// Binding selects how the page block hangs in the case.
type Binding uint8

const (
	// Swiss binding: one block glued to the front board, flat opening.
	Swiss Binding = iota
	// Classic binding: the block hinges with the back board instead.
	Classic
)

// Carrier is the cover whose spine-side face carries the page block.
func (b Binding) Carrier() Side {
	if b == Classic {
		return SideBack
	}
	return SideFront
}

func (b Binding) String() string {
	if b == Classic {
		return "classic"
	}
	return "swiss"
}

// Toggle returns the other binding.
func (b Binding) Toggle() Binding {
	if b == Classic {
		return Swiss
	}
	return Classic
}

// ParseBinding accepts the binding names used on the control surface.
func ParseBinding(s string) (Binding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swiss", "flat":
		return Swiss, nil
	case "classic", "split":
		return Classic, nil
	}
	return Swiss, fmt.Errorf("%w: %q", ErrUnknownBinding, s)
}

// MarshalText implements encoding.TextMarshaler (YAML and flag support).
func (b Binding) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Binding) UnmarshalText(text []byte) error {
	parsed, err := ParseBinding(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
