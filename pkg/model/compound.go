package model

import (
	"strings"
	"unicode/utf8"
)

// Compound represents one of the tyre compound types used in a race weekend.
type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
	CompoundUnknown      Compound = "UNKNOWN"
)

// TrackedCompounds are the compounds used for stint statistics, models and strategies
var TrackedCompounds = []Compound{CompoundMedium, CompoundHard}

// ParseCompound normalizes arg. Values outside the known set are kept as is (uppercase).
// An empty value yields CompoundUnknown.
func ParseCompound(arg string) Compound {
	s := strings.ToUpper(strings.TrimSpace(arg))
	if s == "" {
		return CompoundUnknown
	}
	return Compound(s)
}

func (c Compound) String() string {
	return string(c)
}

// Short returns the first letter of the compound, used in strategy names
func (c Compound) Short() string {
	r, _ := utf8.DecodeRuneInString(string(c))
	if r == utf8.RuneError {
		return "?"
	}
	return string(r)
}

func (c Compound) IsTracked() bool {
	for _, t := range TrackedCompounds {
		if c == t {
			return true
		}
	}
	return false
}
