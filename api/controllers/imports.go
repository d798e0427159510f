package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/internal/ingest"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

const (
	importFormField     = "file"
	importMemoryLimitMB = 8
)

// AdminImportCatalog ingests an uploaded .xlsx or .csv export into the catalog.
func AdminImportCatalog(svc ingest.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(importMemoryLimitMB << 20); err != nil {
			if isBodyTooLarge(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeTooLarge, "file exceeds %d bytes", maxBytes))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile(importFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
				WithDetails(map[string]any{"field": importFormField}))
			return
		}
		defer file.Close()

		format, err := ingest.FormatFromFilename(header.Filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"filename": header.Filename,
				"size":     header.Size,
				"format":   string(format),
			})
		}

		result, err := svc.Ingest(ctx, file, format)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "catalog imported", result)
	}
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// multipart header parsing does not always wrap the reader error
	return strings.Contains(err.Error(), "request body too large")
}
