// Package units converts between the canonical storage unit (grams) and the
// display unit a caller asked for. Quantities are persisted in grams only;
// conversion happens at the request boundary.
package units

import "fmt"

type Unit string

const (
	Grams  Unit = "g"
	Ounces Unit = "oz"
)

const gramsPerOunce = 28.349523125

// ParseUnit accepts the wire forms "g" and "oz".
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Grams, Ounces:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// ToGrams converts a display value to canonical grams.
func ToGrams(value float64, unit Unit) float64 {
	if unit == Ounces {
		return value * gramsPerOunce
	}
	return value
}

// FromGrams converts canonical grams to a display value.
func FromGrams(grams float64, unit Unit) float64 {
	if unit == Ounces {
		return grams / gramsPerOunce
	}
	return grams
}
