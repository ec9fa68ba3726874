package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by domain repositories to share one GORM handle.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx when one is given.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// First loads the first T matching the condition, ordered by primary key.
// A miss is reported as gorm.ErrRecordNotFound.
func First[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := db.Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWhere removes every T matching the condition and reports
// gorm.ErrRecordNotFound when nothing matched.
func DeleteWhere[T any](db *gorm.DB, query string, args ...any) error {
	var model T
	result := db.Where(query, args...).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
