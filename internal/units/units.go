// Package units provides shared constants and conversions for the distance
// and speed units used on crossover output.
package units

import "fmt"

// Distance unit identifiers.
const (
	Meters        = "m"
	Kilometers    = "km"
	Miles         = "mi"
	NauticalMiles = "nm"
	Feet          = "ft"
)

// Speed unit identifiers.
const (
	MPS   = "mps"
	KMPH  = "kmph"
	MPH   = "mph"
	Knots = "kn"
)

// Conversion constants. Distances are carried internally in meters, times in
// seconds.
const (
	MetersPerKilometer  = 1000.0
	MetersPerMile       = 1609.344
	MetersPerNauticalMi = 1852.0
	MetersPerFoot       = 0.3048
	SecondsPerHour      = 3600.0
)

// ValidDistanceUnits contains all accepted distance unit values.
var ValidDistanceUnits = []string{Meters, Kilometers, Miles, NauticalMiles, Feet}

// ValidSpeedUnits contains all accepted speed unit values.
var ValidSpeedUnits = []string{MPS, KMPH, MPH, Knots}

// DistanceScale returns the factor that converts meters to the given unit.
func DistanceScale(unit string) (float64, error) {
	switch unit {
	case Meters:
		return 1.0, nil
	case Kilometers:
		return 1.0 / MetersPerKilometer, nil
	case Miles:
		return 1.0 / MetersPerMile, nil
	case NauticalMiles:
		return 1.0 / MetersPerNauticalMi, nil
	case Feet:
		return 1.0 / MetersPerFoot, nil
	default:
		return 0, fmt.Errorf("unknown distance unit %q (valid: m, km, mi, nm, ft)", unit)
	}
}

// SpeedScale returns the factor that converts meters per second to the given
// speed unit.
func SpeedScale(unit string) (float64, error) {
	switch unit {
	case MPS:
		return 1.0, nil
	case KMPH:
		return SecondsPerHour / MetersPerKilometer, nil
	case MPH:
		return SecondsPerHour / MetersPerMile, nil
	case Knots:
		return SecondsPerHour / MetersPerNauticalMi, nil
	default:
		return 0, fmt.Errorf("unknown speed unit %q (valid: mps, kmph, mph, kn)", unit)
	}
}

// ConvertSpeed converts a speed in meters per second to the target unit.
// Unknown units fall back to m/s.
func ConvertSpeed(speedMPS float64, targetUnit string) float64 {
	scale, err := SpeedScale(targetUnit)
	if err != nil {
		return speedMPS
	}
	return speedMPS * scale
}
