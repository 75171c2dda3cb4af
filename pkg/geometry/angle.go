package geometry

import "math"

// Angle is an angle in microdegrees. Positive values are counter-clockwise.
type Angle int64

// Common angles.
const (
	Microdegree Angle = 1
	Degree      Angle = 1000000
	Deg0        Angle = 0
	Deg90       Angle = 90 * Degree
	Deg180      Angle = 180 * Degree
	Deg270      Angle = 270 * Degree
	Deg360      Angle = 360 * Degree
)

// AngleFromDeg converts degrees to an Angle.
func AngleFromDeg(deg float64) Angle {
	return Angle(math.Round(deg * float64(Degree)))
}

// AngleFromRad converts radians to an Angle.
func AngleFromRad(rad float64) Angle {
	return AngleFromDeg(rad * 180 / math.Pi)
}

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 {
	return float64(a) / float64(Degree)
}

// Rad returns the angle in radians.
func (a Angle) Rad() float64 {
	return a.Deg() * math.Pi / 180
}

// Normalized maps the angle into [0°, 360°).
func (a Angle) Normalized() Angle {
	a %= Deg360
	if a < 0 {
		a += Deg360
	}
	return a
}
