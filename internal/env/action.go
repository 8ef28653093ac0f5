package env

import (
	"fmt"
	"math/rand"
)

// Action is one discrete motor command
type Action uint8

const (
	ActionLeftUp Action = iota
	ActionLeftDown
	ActionRightUp
	ActionRightDown
	// ActionFreeze stops both motors. It is part of the figure model but is
	// never drawn for a genome.
	ActionFreeze
)

// GenomeAlphabet lists the symbols a genome is built from
var GenomeAlphabet = []Action{ActionLeftUp, ActionLeftDown, ActionRightUp, ActionRightDown}

var actionNames = [...]string{
	ActionLeftUp:    "left_up",
	ActionLeftDown:  "left_down",
	ActionRightUp:   "right_up",
	ActionRightDown: "right_down",
	ActionFreeze:    "freeze",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Valid reports whether a is a known command
func (a Action) Valid() bool {
	return int(a) < len(actionNames)
}

// ParseAction is the inverse of String
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// MarshalText encodes the action by name so saved genomes stay readable
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown action %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name
func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// RandomAction draws uniformly from GenomeAlphabet
func RandomAction(rng *rand.Rand) Action {
	return GenomeAlphabet[rng.Intn(len(GenomeAlphabet))]
}
