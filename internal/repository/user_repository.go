package repository

import (
	"studyforge_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdateProfile(id uint, name string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("name", name).Error
}

func (r *UserRepository) UpdateAvatar(id uint, url string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("avatar", url).Error
}
