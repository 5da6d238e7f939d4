package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductPayload is the raw product body. Price stays raw so that both JSON
// numbers and numeric strings can be accepted.
type ProductPayload struct {
	Title       string          `json:"title"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

type productFields struct {
	Title       string  `validate:"required,max=200"`
	Price       float64 `validate:"gte=0"`
	Description string  `validate:"required,max=2000"`
	Image       string  `validate:"required,url"`
}

// ValidateProduct validates a create or update body and returns the trimmed,
// numerically coerced input.
func ValidateProduct(p ProductPayload) (domain.ProductInput, error) {
	price, err := parsePrice(p.Price)
	if err != nil {
		return domain.ProductInput{}, err
	}

	f := productFields{
		Title:       strings.TrimSpace(p.Title),
		Price:       price,
		Description: strings.TrimSpace(p.Description),
		Image:       strings.TrimSpace(p.Image),
	}
	if err := check(f); err != nil {
		return domain.ProductInput{}, err
	}

	return domain.ProductInput{
		Title:       f.Title,
		Price:       f.Price,
		Description: f.Description,
		Image:       f.Image,
	}, nil
}

// parsePrice accepts a JSON number or a string holding a number.
func parsePrice(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, domain.NewValidationError("Price is required")
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, domain.NewValidationError("Price must be a valid number")
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return 0, domain.NewValidationError("Price is required")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, domain.NewValidationError("Price must be a valid number")
	}
	if d.IsNegative() {
		return 0, domain.NewValidationError("Price must be a non-negative number")
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, domain.NewValidationError("Price must be a valid number")
	}
	return f, nil
}
