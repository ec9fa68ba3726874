package models

import (
	"time"

	"github.com/petadopt/petadopt-backend/pkg/enums"
)

// Pet represents a listing shown to adopters.
type Pet struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"column:name;type:varchar(100);not null"`
	Species        enums.Species   `gorm:"column:species;type:varchar(50);not null"`
	Breed          *string         `gorm:"column:breed;type:varchar(100)"`
	Age            *string         `gorm:"column:age;type:varchar(50)"`
	Gender         *string         `gorm:"column:gender;type:varchar(10)"`
	SpayedNeutered bool            `gorm:"column:spayed_neutered;not null;default:false"`
	Vaccinated     bool            `gorm:"column:vaccinated;not null;default:false"`
	Description    *string         `gorm:"column:description;type:text"`
	Status         enums.PetStatus `gorm:"column:status;type:varchar(20);not null;default:available;index"`
	ImageURL       *string         `gorm:"column:image_url;type:varchar(255)"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
