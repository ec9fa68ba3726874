// Package age formats and parses the free-text pet ages stored on listings,
// e.g. "1 year" or "6 months".
package age

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/petadopt/petadopt-backend/pkg/enums"
	pferrors "github.com/petadopt/petadopt-backend/pkg/errors"
)

// Age is a parsed age value.
type Age struct {
	Value int
	Unit  enums.AgeUnit
}

// String renders the age using Format.
func (a Age) String() string {
	return Format(a.Value, a.Unit)
}

// Format renders "<value> <unit>", dropping the plural suffix when value is 1.
func Format(value int, unit enums.AgeUnit) string {
	label := unit.String()
	if value == 1 {
		label = unit.Singular()
	}
	return fmt.Sprintf("%d %s", value, label)
}

// Parse reads a stored age back into its parts. Singular and plural units are
// accepted, and a bare integer is read as whole years. ok is false for empty or
// unrecognised input.
func Parse(s string) (Age, bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		value, err := strconv.Atoi(fields[0])
		if err != nil || value <= 0 {
			return Age{}, false
		}
		return Age{Value: value, Unit: enums.AgeUnitYears}, true
	case 2:
		value, err := strconv.Atoi(fields[0])
		if err != nil || value <= 0 {
			return Age{}, false
		}
		unit, err := enums.ParseAgeUnit(fields[1])
		if err != nil {
			return Age{}, false
		}
		return Age{Value: value, Unit: unit}, true
	default:
		return Age{}, false
	}
}

// FromForm turns the age_value/age_unit form pair into a stored age. An empty
// value means no age was given; the unit defaults to years.
func FromForm(value, unit string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return nil, pferrors.New(pferrors.CodeValidation, "Age must be a positive whole number.")
	}

	parsedUnit := enums.AgeUnitYears
	if strings.TrimSpace(unit) != "" {
		parsedUnit, err = enums.ParseAgeUnit(unit)
		if err != nil {
			return nil, pferrors.New(pferrors.CodeValidation, "Age unit must be years or months.")
		}
	}

	formatted := Format(n, parsedUnit)
	return &formatted, nil
}
