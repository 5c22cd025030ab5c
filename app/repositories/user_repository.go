package repositories

import (
	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/pkg/orm"
)

// UserRepository persists and retrieves API accounts.
type UserRepository struct {
	q func() *orm.Query
}

func NewUserRepository() *UserRepository {
	return &UserRepository{q: orm.DB}
}

func NewUserRepositoryWith(q func() *orm.Query) *UserRepository {
	return &UserRepository{q: q}
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.q().Where("email = ?", email).First(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.q().Where("id = ?", id).First(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user.
func (r *UserRepository) Create(u *models.User) error {
	return r.q().Create(u)
}
