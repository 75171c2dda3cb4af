package geometry

import (
	"math"
	"strconv"
)

// Length is a distance in nanometres.
type Length int64

// Common length units.
const (
	Nanometre  Length = 1
	Micrometre Length = 1000
	Millimetre Length = 1000000
)

// FromMM converts millimetres to a Length, rounding to the nearest nanometre.
func FromMM(mm float64) Length {
	return Length(math.Round(mm * float64(Millimetre)))
}

// MM returns the length in millimetres.
func (l Length) MM() float64 {
	return float64(l) / float64(Millimetre)
}

// Abs returns the absolute value of l.
func (l Length) Abs() Length {
	if l < 0 {
		return -l
	}
	return l
}

// String formats the length in millimetres, e.g. "0.15mm".
func (l Length) String() string {
	return strconv.FormatFloat(l.MM(), 'f', -1, 64) + "mm"
}
