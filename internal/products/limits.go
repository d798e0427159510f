package products

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

// Column widths of the products and product_families tables, in characters.
const (
	MaxCodeLength        = 50
	MaxDescriptionLength = 200
	MaxFamilyNameLength  = 100
)

// MaxPrice is the largest value a NUMERIC(10,2) price column holds.
var MaxPrice = decimal.New(9999999999, -2)

func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) <= limit {
		return nil
	}
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s exceeds %d characters", field, limit).
		WithDetails(map[string]any{"field": field, "max": limit})
}

func checkCatalogFields(code, description string) error {
	if err := checkLength("code", code, MaxCodeLength); err != nil {
		return err
	}
	return checkLength("description", description, MaxDescriptionLength)
}
