package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petadopt/petadopt-backend/internal/authz"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/metrics"
	"gorm.io/gorm"
)

const (
	MessageNameSpeciesRequired = "Name and species are required."
	MessageInvalidSpecies      = "Species must be Dog or Cat."
	MessageInvalidStatus       = "Status must be available, pending or adopted."
	MessagePetNotFound         = "Pet not found."
)

// Actions named in the Forbidden message for non-admin callers.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Service exposes pet listing reads and admin-only mutations.
type Service interface {
	CreatePet(ctx context.Context, actor *authz.Principal, input CreatePetInput) (*PetDTO, error)
	UpdatePet(ctx context.Context, actor *authz.Principal, id uint, input UpdatePetInput) (*PetDTO, error)
	DeletePet(ctx context.Context, actor *authz.Principal, id uint) (*PetDTO, error)
	GetPet(ctx context.Context, id uint) (*PetDTO, error)
	ListAll(ctx context.Context) ([]PetDTO, error)
	ListByStatus(ctx context.Context, status enums.PetStatus) ([]PetDTO, error)
	ListBySpecies(ctx context.Context, species enums.Species, status enums.PetStatus) ([]PetDTO, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	metrics  *metrics.ListingMetrics
}

// NewService constructs a pet service instance. listingMetrics may be nil.
func NewService(repo *Repository, dbClient *db.Client, listingMetrics *metrics.ListingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pet repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, metrics: listingMetrics}, nil
}

// CreatePet stores a new listing; status defaults to available.
func (s *service) CreatePet(ctx context.Context, actor *authz.Principal, input CreatePetInput) (*PetDTO, error) {
	if err := authz.RequireAdminFor(actor, ActionAdd); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || input.Species == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageNameSpeciesRequired)
	}
	if !input.Species.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidSpecies)
	}
	status := input.Status
	if status == "" {
		status = enums.PetStatusAvailable
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidStatus)
	}

	pet := &models.Pet{
		Name:           name,
		Species:        input.Species,
		Breed:          optional(input.Breed),
		Age:            optional(input.Age),
		Gender:         optional(input.Gender),
		SpayedNeutered: input.SpayedNeutered,
		Vaccinated:     input.Vaccinated,
		Description:    optional(input.Description),
		Status:         status,
		ImageURL:       optional(input.ImageURL),
	}

	var created *models.Pet
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.repo.WithTx(tx).Create(ctx, pet)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pet")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.metrics.Inc("create")
	return FromModel(created), nil
}

// UpdatePet applies the non-nil fields of input to the listing.
func (s *service) UpdatePet(ctx context.Context, actor *authz.Principal, id uint, input UpdatePetInput) (*PetDTO, error) {
	if err := authz.RequireAdminFor(actor, ActionEdit); err != nil {
		return nil, err
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var updated *models.Pet
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		pet, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}

		applyUpdate(pet, input)
		updated, err = txRepo.Save(ctx, pet)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pet")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.metrics.Inc("update")
	return FromModel(updated), nil
}

// DeletePet removes the listing and returns it as it was before deletion.
func (s *service) DeletePet(ctx context.Context, actor *authz.Principal, id uint) (*PetDTO, error) {
	if err := authz.RequireAdminFor(actor, ActionDelete); err != nil {
		return nil, err
	}

	var deleted *models.Pet
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		pet, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return mapLookupError(err)
		}
		deleted = pet
		return nil
	}); err != nil {
		return nil, err
	}

	s.metrics.Inc("delete")
	return FromModel(deleted), nil
}

func (s *service) GetPet(ctx context.Context, id uint) (*PetDTO, error) {
	pet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return FromModel(pet), nil
}

func (s *service) ListAll(ctx context.Context) ([]PetDTO, error) {
	return s.list(ctx, ListFilter{})
}

func (s *service) ListByStatus(ctx context.Context, status enums.PetStatus) ([]PetDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidStatus)
	}
	return s.list(ctx, ListFilter{Status: &status})
}

func (s *service) ListBySpecies(ctx context.Context, species enums.Species, status enums.PetStatus) ([]PetDTO, error) {
	if !species.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidSpecies)
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidStatus)
	}
	return s.list(ctx, ListFilter{Species: &species, Status: &status})
}

func (s *service) StatusCounts(ctx context.Context) (StatusCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pets")
	}
	return counts, nil
}

func (s *service) list(ctx context.Context, filter ListFilter) ([]PetDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pets")
	}
	return fromModels(rows), nil
}

func validateUpdate(input UpdatePetInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, MessageNameSpeciesRequired)
	}
	if input.Species != nil && !input.Species.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidSpecies)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, MessageInvalidStatus)
	}
	return nil
}

func applyUpdate(pet *models.Pet, input UpdatePetInput) {
	if input.Name != nil {
		pet.Name = strings.TrimSpace(*input.Name)
	}
	if input.Species != nil {
		pet.Species = *input.Species
	}
	if input.Breed != nil {
		pet.Breed = optional(input.Breed)
	}
	if input.Age != nil {
		pet.Age = optional(input.Age)
	}
	if input.Gender != nil {
		pet.Gender = optional(input.Gender)
	}
	if input.SpayedNeutered != nil {
		pet.SpayedNeutered = *input.SpayedNeutered
	}
	if input.Vaccinated != nil {
		pet.Vaccinated = *input.Vaccinated
	}
	if input.Description != nil {
		pet.Description = optional(input.Description)
	}
	if input.Status != nil {
		pet.Status = *input.Status
	}
	if input.ImageURL != nil {
		pet.ImageURL = optional(input.ImageURL)
	}
}

// optional trims value and maps blank input to NULL.
func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, MessagePetNotFound)
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
}
