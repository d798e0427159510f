package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

type Format string

var utf8BOM = []byte("\xef\xbb\xbf")

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Cell is one spreadsheet value. Numeric is only ever set by the xlsx reader.
type Cell struct {
	Value   string
	Numeric bool
}

// FormatFromFilename picks the reader from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeUnsupported, "spreadsheet must be .xlsx or .csv").
		WithDetails(map[string]any{"filename": name, "accepted": []string{".xlsx", ".csv"}})
}

func readRows(r io.Reader, format Format) ([][]Cell, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r)
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeUnsupported, "unsupported spreadsheet format %q", format)
}

// readXLSX reads the first sheet. Cells Excel stores as numbers keep their raw
// value so prices skip the text normalization.
func readXLSX(r io.Reader) ([][]Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "xlsx file has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read xlsx sheet")
	}
	defer rows.Close()

	var out [][]Cell
	for rowNum := 1; rows.Next(); rowNum++ {
		values, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("read xlsx row %d", rowNum))
		}
		cells := make([]Cell, len(values))
		for col, value := range values {
			cells[col] = Cell{Value: value}
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				continue
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				continue
			}
			cells[col].Numeric = typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset
		}
		out = append(out, cells)
	}
	if err := rows.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read xlsx rows")
	}
	return out, nil
}

// readCSV accepts ';' or ',' separated exports; the header line decides.
func readCSV(r io.Reader) ([][]Cell, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv")
	}
	first = bytes.TrimPrefix(first, utf8BOM)

	reader := csv.NewReader(stripBOM(br))
	reader.Comma = detectDelimiter(first)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var out [][]Cell
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed csv")
		}
		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = Cell{Value: v}
		}
		out = append(out, cells)
	}
	return out, nil
}

func detectDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	if bytes.Count(line, []byte(";")) >= bytes.Count(line, []byte(",")) && bytes.Contains(line, []byte(";")) {
		return ';'
	}
	return ','
}

func stripBOM(r *bufio.Reader) io.Reader {
	if b, err := r.Peek(3); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = r.Discard(3)
	}
	return r
}
