package model

import "fmt"

// Stint is a continuous run of laps on one tyre set.
// LapStart and LapEnd are inclusive lap numbers.
type Stint struct {
	Driver   string   `json:"driver"`
	Compound Compound `json:"compound"`
	LapStart int      `json:"lapStart"`
	LapEnd   int      `json:"lapEnd"`
}

func (s Stint) Laps() int {
	return s.LapEnd - s.LapStart + 1
}

func (s Stint) String() string {
	return fmt.Sprintf("%s %d-%d (%d)", s.Compound, s.LapStart, s.LapEnd, s.Laps())
}
