package dto

import "github.com/codetrack-dev/codetrack-api/internal/models"

// RegisterRequest is the payload for creating a tracker account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and the authenticated profile.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Role     string `json:"role"`
}

// NewUserResponse builds a response DTO from a model.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Points:   user.Points,
		Role:     user.Role,
	}
}
