package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/petadopt/petadopt-backend/api/middleware"
	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/api/validators"
	"github.com/petadopt/petadopt-backend/api/views"
	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/pkg/age"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/logger"
)

type petForm struct {
	Name           string `form:"name" label:"Name" validate:"max=100"`
	Species        string `form:"species"`
	Breed          string `form:"breed" label:"Breed" validate:"max=100"`
	AgeValue       string `form:"age_value"`
	AgeUnit        string `form:"age_unit"`
	Gender         string `form:"gender" label:"Gender" validate:"max=10"`
	SpayedNeutered bool   `form:"spayed_neutered"`
	Vaccinated     bool   `form:"vaccinated"`
	Description    string `form:"description" label:"Description" validate:"max=5000"`
	ImageURL       string `form:"image_url" label:"Image URL" validate:"omitempty,max=255,url"`
	Status         string `form:"status"`
}

func (f petForm) values() views.PetFormValues {
	return views.PetFormValues{
		Name:           f.Name,
		Species:        f.Species,
		Breed:          f.Breed,
		AgeValue:       f.AgeValue,
		AgeUnit:        f.AgeUnit,
		Gender:         f.Gender,
		SpayedNeutered: f.SpayedNeutered,
		Vaccinated:     f.Vaccinated,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
		Status:         f.Status,
	}
}

// species keeps unrecognised input as-is so the service reports it.
func (f petForm) species() enums.Species {
	raw := strings.TrimSpace(f.Species)
	if parsed, err := enums.ParseSpecies(raw); err == nil {
		return parsed
	}
	return enums.Species(raw)
}

func (f petForm) status() enums.PetStatus {
	raw := strings.TrimSpace(f.Status)
	if parsed, err := enums.ParsePetStatus(raw); err == nil {
		return parsed
	}
	return enums.PetStatus(raw)
}

func (f petForm) toCreateInput() (pets.CreatePetInput, error) {
	storedAge, err := age.FromForm(f.AgeValue, f.AgeUnit)
	if err != nil {
		return pets.CreatePetInput{}, err
	}
	return pets.CreatePetInput{
		Name:           validators.SanitizeString(f.Name, 100),
		Species:        f.species(),
		Breed:          &f.Breed,
		Age:            storedAge,
		Gender:         &f.Gender,
		SpayedNeutered: f.SpayedNeutered,
		Vaccinated:     f.Vaccinated,
		Description:    &f.Description,
		Status:         f.status(),
		ImageURL:       &f.ImageURL,
	}, nil
}

// toUpdateInput treats the form as complete: blank optional fields clear the
// stored value, and a missing status leaves it unchanged.
func (f petForm) toUpdateInput() (pets.UpdatePetInput, error) {
	storedAge, err := age.FromForm(f.AgeValue, f.AgeUnit)
	if err != nil {
		return pets.UpdatePetInput{}, err
	}
	if storedAge == nil {
		cleared := ""
		storedAge = &cleared
	}
	name := validators.SanitizeString(f.Name, 100)
	species := f.species()
	input := pets.UpdatePetInput{
		Name:           &name,
		Species:        &species,
		Breed:          &f.Breed,
		Age:            storedAge,
		Gender:         &f.Gender,
		SpayedNeutered: &f.SpayedNeutered,
		Vaccinated:     &f.Vaccinated,
		Description:    &f.Description,
		ImageURL:       &f.ImageURL,
	}
	if strings.TrimSpace(f.Status) != "" {
		status := f.status()
		input.Status = &status
	}
	if species == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, pets.MessageNameSpeciesRequired)
	}
	return input, nil
}

func addFormView(shell views.Shell, values views.PetFormValues, message string) views.PetFormView {
	if values.AgeUnit == "" {
		values.AgeUnit = string(enums.AgeUnitYears)
	}
	return views.PetFormView{
		Shell:   shell,
		Heading: "Add a pet",
		Action:  "/pet/add",
		Submit:  "Add pet",
		Error:   message,
		Values:  values,
	}
}

func editFormView(shell views.Shell, id uint, name string, values views.PetFormValues, message string) views.PetFormView {
	return views.PetFormView{
		Shell:      shell,
		Heading:    "Edit " + name,
		Action:     fmt.Sprintf("/pet/%d/edit", id),
		Submit:     "Save changes",
		Error:      message,
		ShowStatus: true,
		Values:     values,
	}
}

// PetAddForm renders the empty add form.
func PetAddForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.RenderHTML(w, http.StatusOK, views.PetFormPage(addFormView(shell(w, r), views.PetFormValues{}, "")))
	}
}

// PetCreate stores a new listing and reports it on the dashboard.
func PetCreate(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var form petForm
		err := validators.DecodeForm(r, &form)
		var input pets.CreatePetInput
		if err == nil {
			input, err = form.toCreateInput()
		}
		var created *pets.PetDTO
		if err == nil {
			created, err = svc.CreatePet(ctx, middleware.PrincipalFromContext(ctx), input)
		}
		if err != nil {
			if handled := handleMutationError(w, r, logg, err); handled {
				return
			}
			responses.RenderHTML(w, responses.StatusFor(err), views.PetFormPage(
				addFormView(shell(w, r), form.values(), responses.PublicMessage(err)),
			))
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "pet_id", created.ID), "pets.created")
		}
		responses.Redirect(w, r, middleware.DashboardPath,
			responses.Success(fmt.Sprintf("Pet %s added successfully!", created.Name)))
	}
}

// PetEditForm renders the edit form pre-filled from the stored listing.
func PetEditForm(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		pet, err := svc.GetPet(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.RenderHTML(w, http.StatusOK, views.PetFormPage(
			editFormView(shell(w, r), pet.ID, pet.Name, views.PetFormValuesFrom(*pet), ""),
		))
	}
}

// PetUpdate persists the edit form.
func PetUpdate(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		existing, err := svc.GetPet(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var form petForm
		err = validators.DecodeForm(r, &form)
		var input pets.UpdatePetInput
		if err == nil {
			input, err = form.toUpdateInput()
		}
		var updated *pets.PetDTO
		if err == nil {
			updated, err = svc.UpdatePet(ctx, middleware.PrincipalFromContext(ctx), id, input)
		}
		if err != nil {
			if handled := handleMutationError(w, r, logg, err); handled {
				return
			}
			responses.RenderHTML(w, responses.StatusFor(err), views.PetFormPage(
				editFormView(shell(w, r), existing.ID, existing.Name, form.values(), responses.PublicMessage(err)),
			))
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "pet_id", updated.ID), "pets.updated")
		}
		responses.Redirect(w, r, middleware.DashboardPath,
			responses.Success(fmt.Sprintf("Pet %s updated successfully!", updated.Name)))
	}
}

// PetDelete removes the listing without a confirmation step.
func PetDelete(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		deleted, err := svc.DeletePet(ctx, middleware.PrincipalFromContext(ctx), id)
		if err != nil {
			if handled := handleMutationError(w, r, logg, err); handled {
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "pet_id", deleted.ID), "pets.deleted")
		}
		responses.Redirect(w, r, middleware.DashboardPath,
			responses.Success(fmt.Sprintf("Pet %s deleted successfully!", deleted.Name)))
	}
}

// handleMutationError answers everything except validation failures, which
// the caller re-renders in its form.
func handleMutationError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) bool {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeValidation:
		return false
	case pkgerrors.CodeForbidden:
		responses.Redirect(w, r, middleware.DashboardPath, responses.Danger(responses.PublicMessage(err)))
	case pkgerrors.CodeUnauthorized:
		responses.Redirect(w, r, middleware.LoginPath, responses.Info(responses.PublicMessage(err)))
	default:
		responses.WriteError(r.Context(), logg, w, err)
	}
	return true
}
