package pets

import (
	"time"

	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/petadopt/petadopt-backend/pkg/enums"
)

// PetDTO is the listing shape handed to views. Nullable columns collapse to "".
type PetDTO struct {
	ID             uint
	Name           string
	Species        enums.Species
	Breed          string
	Age            string
	Gender         string
	SpayedNeutered bool
	Vaccinated     bool
	Description    string
	Status         enums.PetStatus
	ImageURL       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreatePetInput holds the validated values for a new listing. Optional
// pointers left nil (or pointing at "") are stored as NULL.
type CreatePetInput struct {
	Name           string
	Species        enums.Species
	Breed          *string
	Age            *string
	Gender         *string
	SpayedNeutered bool
	Vaccinated     bool
	Description    *string
	Status         enums.PetStatus
	ImageURL       *string
}

// UpdatePetInput holds optional mutation values; nil leaves a field untouched
// and a pointer to "" clears a nullable column.
type UpdatePetInput struct {
	Name           *string
	Species        *enums.Species
	Breed          *string
	Age            *string
	Gender         *string
	SpayedNeutered *bool
	Vaccinated     *bool
	Description    *string
	Status         *enums.PetStatus
	ImageURL       *string
}

// StatusCounts maps each status to its number of listings.
type StatusCounts map[enums.PetStatus]int64

// Total sums every status.
func (c StatusCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

func FromModel(p *models.Pet) *PetDTO {
	if p == nil {
		return nil
	}
	return &PetDTO{
		ID:             p.ID,
		Name:           p.Name,
		Species:        p.Species,
		Breed:          deref(p.Breed),
		Age:            deref(p.Age),
		Gender:         deref(p.Gender),
		SpayedNeutered: p.SpayedNeutered,
		Vaccinated:     p.Vaccinated,
		Description:    deref(p.Description),
		Status:         p.Status,
		ImageURL:       deref(p.ImageURL),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromModels(rows []models.Pet) []PetDTO {
	out := make([]PetDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
