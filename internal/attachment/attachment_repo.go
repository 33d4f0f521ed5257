// Package attachment checks references to files owned by the upload service.
package attachment

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Exists reports whether ref names a live row of the external files table.
func (r *repository) Exists(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("files").
		Where("id::text = ?", ref).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
