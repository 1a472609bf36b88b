package repository

import (
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
)

// UserRepository adds user-specific lookups on top of the generic CRUD.
// Email uniqueness is enforced here against live rows only, so an address
// freed by a soft delete can register again.
type UserRepository struct {
	*BaseRepository[model.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{BaseRepository: NewBaseRepository[model.User](db)}
}

func (r *UserRepository) CreateWithUniqueEmail(user *model.User) error {
	return r.Create(user, WithUniqueFields(map[string]interface{}{
		"email": user.Email,
	}))
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	return r.Get(map[string]interface{}{"email": email})
}
