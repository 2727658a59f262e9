package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/repository"

	"github.com/google/uuid"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetProfile(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

func (s *UserService) UpdateProfile(id uint, name string) error {
	return s.UserRepo.UpdateProfile(id, name)
}

// UploadAvatar stores the file under a random name and records its URL on
// the user.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	url, err := s.Storage.Upload(ctx, filename, file, header.Size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(userID, url); err != nil {
		return "", err
	}
	return url, nil
}
