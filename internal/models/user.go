package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// User is an operator allowed to read the submission journal
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique" json:"username"`
	HashedPassword string    `json:"-" gorm:"column:hashed_password"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Claims for JWT authentication
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
