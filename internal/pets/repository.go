package pets

import (
	"context"

	"github.com/petadopt/petadopt-backend/internal/repo"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	"gorm.io/gorm"
)

// ListFilter narrows a listing query; nil fields match everything.
type ListFilter struct {
	Status  *enums.PetStatus
	Species *enums.Species
}

// Repository persists pet listings.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts the listing and fills its id and timestamps.
func (r *Repository) Create(ctx context.Context, pet *models.Pet) (*models.Pet, error) {
	if err := r.DB(ctx).Create(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

// FindByID loads a listing; gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Pet, error) {
	return repo.First[models.Pet](r.DB(ctx), "id = ?", id)
}

// Save writes every column of an already loaded listing.
func (r *Repository) Save(ctx context.Context, pet *models.Pet) (*models.Pet, error) {
	if err := r.DB(ctx).Save(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

// Delete removes the listing; gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return repo.DeleteWhere[models.Pet](r.DB(ctx), "id = ?", id)
}

// List returns listings matching filter ordered by id ascending.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Pet, error) {
	query := r.DB(ctx).Model(&models.Pet{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Species != nil {
		query = query.Where("species = ?", *filter.Species)
	}
	var out []models.Pet
	if err := query.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountByStatus returns the number of listings per status; statuses without
// listings are reported as zero.
func (r *Repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var rows []struct {
		Status enums.PetStatus
		Total  int64
	}
	if err := r.DB(ctx).
		Model(&models.Pet{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := StatusCounts{}
	for _, status := range enums.PetStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
