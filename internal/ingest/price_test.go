package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
		err  error
	}{
		{name: "currency with thousands", cell: Cell{Value: "R$ 1.234,56"}, want: "1234.56"},
		{name: "decimal comma", cell: Cell{Value: "38,99"}, want: "38.99"},
		{name: "no space after symbol", cell: Cell{Value: "r$12,5"}, want: "12.5"},
		{name: "non breaking space", cell: Cell{Value: "R$\u00a07,00"}, want: "7"},
		{name: "integer text", cell: Cell{Value: " 15 "}, want: "15"},
		{name: "rounds to cents", cell: Cell{Value: "2,999"}, want: "3"},
		{name: "numeric cell", cell: Cell{Value: "1234.56", Numeric: true}, want: "1234.56"},
		{name: "numeric cell rounds", cell: Cell{Value: "4.995", Numeric: true}, want: "5"},
		{name: "empty", cell: Cell{Value: "  "}, err: errEmptyPrice},
		{name: "symbol only", cell: Cell{Value: "R$"}, err: errEmptyPrice},
		{name: "garbage", cell: Cell{Value: "abc"}, err: errInvalidPrice},
		{name: "negative", cell: Cell{Value: "-3,00"}, err: errNegativePrice},
		{name: "negative numeric", cell: Cell{Value: "-1", Numeric: true}, err: errNegativePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.cell)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFoldHeader(t *testing.T) {
	tests := map[string]string{
		" Código ":  "CODIGO",
		"DESCRIÇÃO": "DESCRICAO",
		"preço":     "PRECO",
		"Família":   "FAMILIA",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FoldHeader(in), in)
	}
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("Tabela.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromFilename("export.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromFilename("export.xls")
	require.Error(t, err)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("CODIGO;DESCRICAO;PRECO;FAMILIA\n1;A;1,00;X")))
	assert.Equal(t, ',', detectDelimiter([]byte("CODIGO,DESCRICAO,PRECO,FAMILIA\n")))
	assert.Equal(t, ',', detectDelimiter([]byte("CODIGO")))
}
