package ingest

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyPrice    = errors.New("empty price")
	errInvalidPrice  = errors.New("invalid price")
	errNegativePrice = errors.New("negative price")
)

// ParsePrice normalizes a price cell. Numeric cells are taken as is; textual
// cells lose the R$ prefix, whitespace and thousands dots, and the decimal
// comma becomes a point. The result is rounded to cents.
func ParsePrice(cell Cell) (decimal.Decimal, error) {
	raw := strings.TrimSpace(cell.Value)
	if raw == "" {
		return decimal.Zero, errEmptyPrice
	}

	if cell.Numeric {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, errInvalidPrice
		}
		return checkPrice(v)
	}

	text := strings.TrimPrefix(strings.ToUpper(raw), "R$")
	text = strings.Join(strings.Fields(text), "")
	text = strings.ReplaceAll(text, ".", "")
	text = strings.ReplaceAll(text, ",", ".")
	if text == "" {
		return decimal.Zero, errEmptyPrice
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, errInvalidPrice
	}
	return checkPrice(v)
}

func checkPrice(v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Zero, errNegativePrice
	}
	return v.Round(2), nil
}
