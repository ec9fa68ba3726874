package pets

import (
	"context"
	"testing"

	"github.com/petadopt/petadopt-backend/pkg/age"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCreatePetDefaultsAndOptionalFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	ageValue, err := age.FromForm("1", "years")
	require.NoError(t, err)

	created, err := svc.CreatePet(ctx, adminActor, CreatePetInput{
		Name:        "  Max ",
		Species:     enums.SpeciesDog,
		Breed:       strPtr("Beagle"),
		Age:         ageValue,
		Gender:      strPtr(""),
		Vaccinated:  true,
		Description: strPtr("Loves walks"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Max", created.Name)
	require.Equal(t, enums.PetStatusAvailable, created.Status)
	require.Equal(t, "1 year", created.Age)
	require.Equal(t, "Beagle", created.Breed)
	require.Empty(t, created.Gender)
	require.True(t, created.Vaccinated)
	require.False(t, created.SpayedNeutered)
	require.False(t, created.UpdatedAt.Before(created.CreatedAt))
}

func TestCreatePetValidation(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	cases := []struct {
		input   CreatePetInput
		message string
	}{
		{CreatePetInput{Species: enums.SpeciesCat}, MessageNameSpeciesRequired},
		{CreatePetInput{Name: "Luna"}, MessageNameSpeciesRequired},
		{CreatePetInput{Name: "Luna", Species: "Parrot"}, MessageInvalidSpecies},
		{CreatePetInput{Name: "Luna", Species: enums.SpeciesCat, Status: "sold"}, MessageInvalidStatus},
	}
	for _, tc := range cases {
		_, err := svc.CreatePet(ctx, adminActor, tc.input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		require.Equal(t, tc.message, typed.Message())
	}
	require.EqualValues(t, 0, countPets(t, client))
}

func TestNonAdminMutationsNeverChangeStore(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	existing, err := svc.CreatePet(ctx, adminActor, CreatePetInput{Name: "Milo", Species: enums.SpeciesDog})
	require.NoError(t, err)

	_, err = svc.CreatePet(ctx, adopterActor, CreatePetInput{Name: "Sneaky", Species: enums.SpeciesCat})
	requireForbidden(t, err, "Only admins can add pets.")

	pending := enums.PetStatusPending
	_, err = svc.UpdatePet(ctx, adopterActor, existing.ID, UpdatePetInput{Status: &pending})
	requireForbidden(t, err, "Only admins can edit pets.")

	_, err = svc.DeletePet(ctx, adopterActor, existing.ID)
	requireForbidden(t, err, "Only admins can delete pets.")

	_, err = svc.CreatePet(ctx, nil, CreatePetInput{Name: "Ghost", Species: enums.SpeciesCat})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	require.EqualValues(t, 1, countPets(t, client))
	reloaded, err := svc.GetPet(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, enums.PetStatusAvailable, reloaded.Status)
}

func TestUpdatePetAppliesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreatePet(ctx, adminActor, CreatePetInput{
		Name:    "Leo",
		Species: enums.SpeciesDog,
		Breed:   strPtr("Boxer"),
		Age:     strPtr("1 year"),
	})
	require.NoError(t, err)

	pending := enums.PetStatusPending
	twoYears, err := age.FromForm("2", "years")
	require.NoError(t, err)
	spayed := true

	updated, err := svc.UpdatePet(ctx, adminActor, created.ID, UpdatePetInput{
		Status:         &pending,
		Age:            twoYears,
		Breed:          strPtr(""),
		SpayedNeutered: &spayed,
	})
	require.NoError(t, err)
	require.Equal(t, "Leo", updated.Name)
	require.Equal(t, enums.PetStatusPending, updated.Status)
	require.Equal(t, "2 years", updated.Age)
	require.Empty(t, updated.Breed)
	require.True(t, updated.SpayedNeutered)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	require.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestUpdatePetMissingAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	name := "Ghost"
	_, err := svc.UpdatePet(ctx, adminActor, 999, UpdatePetInput{Name: &name})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	blank := "  "
	_, err = svc.UpdatePet(ctx, adminActor, 1, UpdatePetInput{Name: &blank})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDeletePetRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	keep, err := svc.CreatePet(ctx, adminActor, CreatePetInput{Name: "Keep", Species: enums.SpeciesCat})
	require.NoError(t, err)
	drop, err := svc.CreatePet(ctx, adminActor, CreatePetInput{Name: "Drop", Species: enums.SpeciesDog})
	require.NoError(t, err)

	deleted, err := svc.DeletePet(ctx, adminActor, drop.ID)
	require.NoError(t, err)
	require.Equal(t, "Drop", deleted.Name)
	require.EqualValues(t, 1, countPets(t, client))

	_, err = svc.GetPet(ctx, drop.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.DeletePet(ctx, adminActor, 12345)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	require.EqualValues(t, 1, countPets(t, client))

	_, err = svc.GetPet(ctx, keep.ID)
	require.NoError(t, err)
}

func TestListingViews(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, input := range []CreatePetInput{
		{Name: "Max", Species: enums.SpeciesDog},
		{Name: "Luna", Species: enums.SpeciesCat, Status: enums.PetStatusPending},
		{Name: "Rex", Species: enums.SpeciesDog, Status: enums.PetStatusAdopted},
		{Name: "Tom", Species: enums.SpeciesCat},
	} {
		_, err := svc.CreatePet(ctx, adminActor, input)
		require.NoError(t, err)
	}

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	available, err := svc.ListByStatus(ctx, enums.PetStatusAvailable)
	require.NoError(t, err)
	require.Equal(t, []string{"Max", "Tom"}, names(available))

	cats, err := svc.ListBySpecies(ctx, enums.SpeciesCat, enums.PetStatusAvailable)
	require.NoError(t, err)
	require.Equal(t, []string{"Tom"}, names(cats))

	counts, err := svc.StatusCounts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[enums.PetStatusAvailable])
	require.EqualValues(t, 1, counts[enums.PetStatusPending])
	require.EqualValues(t, 1, counts[enums.PetStatusAdopted])

	_, err = svc.ListByStatus(ctx, "lost")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func requireForbidden(t *testing.T, err error, message string) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Equal(t, message, typed.Message())
}

func names(pets []PetDTO) []string {
	out := make([]string, 0, len(pets))
	for _, pet := range pets {
		out = append(out, pet.Name)
	}
	return out
}
