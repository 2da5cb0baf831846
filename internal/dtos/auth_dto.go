package dtos

import "github.com/justsurfingit/jobboard-web/internal/models"

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// AuthResponse is what /auth/login and /auth/signup return on success.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CompanyCreationRequest struct {
	Name   string `json:"name" form:"name" binding:"required"`
	Domain string `json:"domain" form:"domain"`
	// Comma separated, as the admin form sends it.
	Cities string `json:"cities" form:"cities"`
}
