package enums

import (
	"fmt"
	"strings"
)

// PetStatus tracks where a listing is in the adoption lifecycle.
type PetStatus string

const (
	PetStatusAvailable PetStatus = "available"
	PetStatusPending   PetStatus = "pending"
	PetStatusAdopted   PetStatus = "adopted"
)

var validPetStatuses = []PetStatus{
	PetStatusAvailable,
	PetStatusPending,
	PetStatusAdopted,
}

// PetStatuses returns every status in display order.
func PetStatuses() []PetStatus {
	out := make([]PetStatus, len(validPetStatuses))
	copy(out, validPetStatuses)
	return out
}

// String implements fmt.Stringer.
func (s PetStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PetStatus.
func (s PetStatus) IsValid() bool {
	for _, candidate := range validPetStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label returns the capitalised form used in the UI.
func (s PetStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParsePetStatus converts raw input into a PetStatus.
func ParsePetStatus(value string) (PetStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPetStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pet status %q", value)
}

// Species identifies the kind of animal on a listing.
type Species string

const (
	SpeciesDog Species = "Dog"
	SpeciesCat Species = "Cat"
)

var validSpecies = []Species{
	SpeciesDog,
	SpeciesCat,
}

// AllSpecies returns every supported species in display order.
func AllSpecies() []Species {
	out := make([]Species, len(validSpecies))
	copy(out, validSpecies)
	return out
}

// String implements fmt.Stringer.
func (s Species) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Species.
func (s Species) IsValid() bool {
	for _, candidate := range validSpecies {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpecies converts raw input into a Species, ignoring case ("dog" -> Dog).
func ParseSpecies(value string) (Species, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validSpecies {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid species %q", value)
}

// AgeUnit is the unit an age value is counted in.
type AgeUnit string

const (
	AgeUnitYears  AgeUnit = "years"
	AgeUnitMonths AgeUnit = "months"
)

var validAgeUnits = []AgeUnit{
	AgeUnitYears,
	AgeUnitMonths,
}

// AgeUnits returns every supported unit in display order.
func AgeUnits() []AgeUnit {
	out := make([]AgeUnit, len(validAgeUnits))
	copy(out, validAgeUnits)
	return out
}

// String implements fmt.Stringer.
func (u AgeUnit) String() string {
	return string(u)
}

// Singular returns the unit without its plural suffix.
func (u AgeUnit) Singular() string {
	return strings.TrimSuffix(string(u), "s")
}

// IsValid reports whether the value is a known AgeUnit.
func (u AgeUnit) IsValid() bool {
	for _, candidate := range validAgeUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseAgeUnit accepts the plural or singular spelling of a unit.
func ParseAgeUnit(value string) (AgeUnit, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validAgeUnits {
		if string(candidate) == normalized || candidate.Singular() == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid age unit %q", value)
}
