package age

import (
	"testing"

	"github.com/petadopt/petadopt-backend/pkg/enums"
	pferrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFormatSingularAndPlural(t *testing.T) {
	require.Equal(t, "1 year", Format(1, enums.AgeUnitYears))
	require.Equal(t, "1 month", Format(1, enums.AgeUnitMonths))
	require.Equal(t, "3 years", Format(3, enums.AgeUnitYears))
	require.Equal(t, "6 months", Format(6, enums.AgeUnitMonths))
}

func TestParseRoundTrip(t *testing.T) {
	for _, unit := range enums.AgeUnits() {
		for _, value := range []int{1, 2, 11} {
			formatted := Format(value, unit)
			parsed, ok := Parse(formatted)
			require.True(t, ok, formatted)
			require.Equal(t, Age{Value: value, Unit: unit}, parsed)
			require.Equal(t, formatted, parsed.String())
		}
	}
}

func TestParseAcceptsLegacyForms(t *testing.T) {
	parsed, ok := Parse("4")
	require.True(t, ok)
	require.Equal(t, Age{Value: 4, Unit: enums.AgeUnitYears}, parsed)

	parsed, ok = Parse("2 year")
	require.True(t, ok)
	require.Equal(t, "2 years", parsed.String())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "old", "two years", "0 years", "-1 months", "3 weeks", "1 year old"} {
		_, ok := Parse(raw)
		require.False(t, ok, raw)
	}
}

func TestFromForm(t *testing.T) {
	got, err := FromForm("1", "years")
	require.NoError(t, err)
	require.Equal(t, "1 year", *got)

	got, err = FromForm("6", "months")
	require.NoError(t, err)
	require.Equal(t, "6 months", *got)

	got, err = FromForm("3", "")
	require.NoError(t, err)
	require.Equal(t, "3 years", *got)

	got, err = FromForm("  ", "months")
	require.NoError(t, err)
	require.Nil(t, got)

	for _, bad := range []string{"0", "-2", "abc", "1.5"} {
		_, err = FromForm(bad, "years")
		require.Error(t, err, bad)
		require.True(t, pferrors.Is(err, pferrors.CodeValidation))
	}

	_, err = FromForm("2", "fortnights")
	require.True(t, pferrors.Is(err, pferrors.CodeValidation))
}
