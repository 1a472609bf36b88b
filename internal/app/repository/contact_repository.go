package repository

import (
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
)

type ContactRepository struct {
	*BaseRepository[model.Contact]
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{BaseRepository: NewBaseRepository[model.Contact](db)}
}
