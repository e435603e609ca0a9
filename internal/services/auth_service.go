package services

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Authenticate(username, password string) (models.User, error)
	GenerateToken(user models.User) (string, error)
	ParseToken(tokenString string) (*models.Claims, error)
}

// authService implements the AuthService interface
type authService struct {
	db        *gorm.DB
	secretKey []byte
	ttl       time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(db *gorm.DB, secretKey []byte, ttl time.Duration) AuthService {
	return &authService{
		db:        db,
		secretKey: secretKey,
		ttl:       ttl,
	}
}

// Authenticate verifies user credentials and returns the user if valid
func (s *authService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	result := s.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		return models.User{}, result.Error
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// GenerateToken creates a new JWT token for the user
func (s *authService) GenerateToken(user models.User) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken validates a token string and returns its claims
func (s *authService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
