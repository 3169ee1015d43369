package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompound(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want Compound
	}{
		{"upper", "MEDIUM", CompoundMedium},
		{"lower", "hard", CompoundHard},
		{"mixed with spaces", " Medium ", CompoundMedium},
		{"intermediate", "intermediate", CompoundIntermediate},
		{"empty", "", CompoundUnknown},
		{"blank", "   ", CompoundUnknown},
		{"other", "hypersoft", Compound("HYPERSOFT")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCompound(tt.arg))
		})
	}
}

func TestCompound(t *testing.T) {
	assert.Equal(t, "M", CompoundMedium.Short())
	assert.Equal(t, "H", CompoundHard.Short())
	assert.Equal(t, "?", Compound("").Short())
	assert.Equal(t, "Ü", Compound("ÜBERSOFT").Short())
	assert.Equal(t, "?", Compound("\xffX").Short())
	assert.True(t, CompoundMedium.IsTracked())
	assert.True(t, CompoundHard.IsTracked())
	assert.False(t, CompoundSoft.IsTracked())
	assert.False(t, CompoundIntermediate.IsTracked())
}

func TestLapObservation(t *testing.T) {
	tests := []struct {
		name        string
		lap         LapObservation
		pitAffected bool
		validDelta  bool
		modelSample bool
	}{
		{"clean lap", LapObservation{TimeDelta: 0.3}, false, true, true},
		{"in lap", LapObservation{PitIn: true, TimeDelta: 20}, true, true, false},
		{"out lap", LapObservation{PitOut: true, TimeDelta: 22}, true, true, false},
		{"inf delta", LapObservation{TimeDelta: math.Inf(-1)}, false, false, false},
		{"nan delta", LapObservation{TimeDelta: math.NaN()}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pitAffected, tt.lap.IsPitAffected())
			assert.Equal(t, tt.validDelta, tt.lap.HasValidDelta())
			assert.Equal(t, tt.modelSample, tt.lap.IsModelSample())
		})
	}
}

func TestDriverLaps(t *testing.T) {
	d := DriverLaps{
		"VER": {{Driver: "VER", LapNumber: 1}, {Driver: "VER", LapNumber: 2}},
		"ALO": {{Driver: "ALO", LapNumber: 1}},
		"HAM": {},
	}
	assert.Equal(t, []string{"ALO", "HAM", "VER"}, d.Drivers())
	assert.Equal(t, 3, d.NumLaps())
	assert.Equal(t, []LapObservation{
		{Driver: "ALO", LapNumber: 1},
		{Driver: "VER", LapNumber: 1},
		{Driver: "VER", LapNumber: 2},
	}, d.All())
}

func TestStint(t *testing.T) {
	s := Stint{Driver: "VER", Compound: CompoundHard, LapStart: 15, LapEnd: 56}
	assert.Equal(t, 42, s.Laps())
	assert.Equal(t, "HARD 15-56 (42)", s.String())
}
