package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Product is a catalog entry. ID is assigned by storage on insert.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput carries the validated, normalized fields of a create or update.
type ProductInput struct {
	Title       string
	Price       float64
	Description string
	Image       string
}

// ValidProductID reports whether id has the shape of a storage identifier.
func ValidProductID(id string) bool {
	return primitive.IsValidObjectID(id)
}
