package handler

import "github.com/storefront/catalog-api/internal/core/domain"

// messageResponse is the body of confirmations and of every error.
type messageResponse struct {
	Message string `json:"message"`
}

// productRequest documents the product body. Price also accepts a numeric string.
type productRequest struct {
	Title       string  `json:"title" example:"Desk lamp"`
	Price       float64 `json:"price" example:"24.99"`
	Description string  `json:"description" example:"Adjustable LED desk lamp"`
	Image       string  `json:"image" example:"https://cdn.example.com/lamp.png"`
}

type registerRequest struct {
	Name     string `json:"name" example:"Jane Doe"`
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"secret1"`
}

type loginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"secret1"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
