package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
)

// Service loads catalog exports into the product store.
type Service interface {
	Ingest(ctx context.Context, r io.Reader, format Format) (*Result, error)
}

// SkippedRow explains why a data row was left out. Row is the 1-based
// spreadsheet line, header included.
type SkippedRow struct {
	Row    int    `json:"row"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

type Result struct {
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Skipped int          `json:"skipped"`
	Skips   []SkippedRow `json:"skips"`
}

type catalogUpserter interface {
	UpsertByCode(ctx context.Context, row products.CatalogRow) (products.UpsertOutcome, error)
}

type service struct {
	catalog catalogUpserter
	logg    *logger.Logger
	metrics *metrics.PanelMetrics
	now     func() time.Time
}

// NewService constructs the ingestion normalizer. m may be nil.
func NewService(catalog catalogUpserter, logg *logger.Logger, m *metrics.PanelMetrics) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog upserter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{catalog: catalog, logg: logg, metrics: m, now: time.Now}, nil
}

// Ingest validates the header row before touching the store, then upserts
// each data row on its own. Row-level problems are skipped and reported.
func (s *service) Ingest(ctx context.Context, r io.Reader, format Format) (*Result, error) {
	started := s.now()
	ctx = s.logg.WithField(ctx, "format", string(format))

	rows, err := readRows(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet is empty").
			WithDetails(map[string]any{"missing": ExpectedHeaders, "found": []string{}, "expected": ExpectedHeaders})
	}
	cols, err := indexHeaders(rows[0])
	if err != nil {
		s.logg.Warn(ctx, "ingest.missing_columns")
		return nil, err
	}

	result := &Result{Skips: []SkippedRow{}}
	var skipErrs error
	for i, row := range rows[1:] {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "ingest cancelled")
		}
		if blankRow(row) {
			continue
		}
		line := i + 2

		catalogRow, skip := normalizeRow(cols, row)
		if skip == nil {
			outcome, err := s.catalog.UpsertByCode(ctx, catalogRow)
			switch {
			case err == nil:
				if outcome == products.UpsertCreated {
					result.Created++
				} else {
					result.Updated++
				}
				continue
			case pkgerrors.IsCode(err, pkgerrors.CodeValidation), db.IsDataException(err):
				skip = err
			default:
				return nil, err
			}
		}

		reason := skipReason(skip)
		result.Skipped++
		result.Skips = append(result.Skips, SkippedRow{Row: line, Code: catalogRow.Code, Reason: reason})
		skipErrs = multierr.Append(skipErrs, fmt.Errorf("row %d: %w", line, skip))
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"row":    line,
			"code":   catalogRow.Code,
			"reason": reason,
		}), "ingest.row_skipped")
	}

	took := s.now().Sub(started)
	s.metrics.IngestFinished(string(format), result.Created, result.Updated, result.Skipped, took)
	summary := map[string]any{
		"created":     result.Created,
		"updated":     result.Updated,
		"skipped":     result.Skipped,
		"duration_ms": took.Milliseconds(),
	}
	if skipErrs != nil {
		summary["skip_errors"] = skipErrs.Error()
	}
	s.logg.Info(s.logg.WithFields(ctx, summary), "ingest.completed")
	return result, nil
}

func normalizeRow(cols columnIndex, row []Cell) (products.CatalogRow, error) {
	out := products.CatalogRow{
		Code:        strings.TrimSpace(cols.cell(row, HeaderCode).Value),
		Description: strings.TrimSpace(cols.cell(row, HeaderDescription).Value),
		Family:      products.NormalizeFamilyName(cols.cell(row, HeaderFamily).Value),
	}
	if out.Code == "" {
		return out, errEmptyCode
	}
	price, err := ParsePrice(cols.cell(row, HeaderPrice))
	if err != nil {
		return out, err
	}
	out.Price = price
	return out, nil
}

var errEmptyCode = errors.New("empty code")

func skipReason(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Message()
	}
	return err.Error()
}

func blankRow(row []Cell) bool {
	for _, c := range row {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}
