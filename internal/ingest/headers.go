package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

const (
	HeaderCode        = "CODIGO"
	HeaderDescription = "DESCRICAO"
	HeaderPrice       = "PRECO"
	HeaderFamily      = "FAMILIA"
)

// ExpectedHeaders lists the columns every catalog export must carry.
var ExpectedHeaders = []string{HeaderCode, HeaderDescription, HeaderPrice, HeaderFamily}

// FoldHeader trims, uppercases and strips diacritics, so "Descrição " matches DESCRICAO.
func FoldHeader(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		folded = strings.TrimSpace(raw)
	}
	return strings.ToUpper(folded)
}

// columnIndex maps each expected header to its column. The first occurrence wins.
type columnIndex map[string]int

func indexHeaders(header []Cell) (columnIndex, error) {
	found := make([]string, 0, len(header))
	idx := columnIndex{}
	for i, cell := range header {
		name := FoldHeader(cell.Value)
		if name == "" {
			continue
		}
		found = append(found, name)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, want := range ExpectedHeaders {
		if _, ok := idx[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) == 0 {
		return idx, nil
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeValidation,
		"missing column %s; found columns: %s", strings.Join(missing, ", "), strings.Join(found, ", ")).
		WithDetails(map[string]any{
			"missing":  missing,
			"found":    found,
			"expected": ExpectedHeaders,
		})
}

func (c columnIndex) cell(row []Cell, header string) Cell {
	i, ok := c[header]
	if !ok || i >= len(row) {
		return Cell{}
	}
	return row[i]
}
