package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// UserService defines the interface for user-related operations
type UserService interface {
	GetUserByUsername(username string) (models.User, error)
	CreateUser(username, password, role string) (models.User, error)
	EnsureAdmin(username, password string) (bool, error)
}

// userService implements the UserService interface
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) UserService {
	return &userService{
		db: db,
	}
}

// GetUserByUsername returns a user by username
func (s *userService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	result := s.db.Where("username = ?", username).First(&user)
	return user, result.Error
}

// CreateUser hashes the password and stores a new user
func (s *userService) CreateUser(username, password, role string) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
	}
	result := s.db.Create(&user)
	return user, result.Error
}

// EnsureAdmin creates the admin account if it does not exist yet.
// It reports whether a user was created.
func (s *userService) EnsureAdmin(username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.GetUserByUsername(username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.CreateUser(username, password, "admin"); err != nil {
		return false, err
	}
	return true, nil
}
