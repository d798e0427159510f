package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/pricepanel-backend/internal/ingest"
	"github.com/angelmondragon/pricepanel-backend/pkg/types"
)

type stubIngest struct {
	format ingest.Format
	body   string
	result *ingest.Result
	err    error
}

func (s *stubIngest) Ingest(_ context.Context, r io.Reader, format ingest.Format) (*ingest.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.format = format
	s.body = string(data)
	return s.result, s.err
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminImportCatalog(t *testing.T) {
	logg := testLogger()
	csv := "CODIGO;DESCRICAO;PRECO;FAMILIA\n1;Arroz;10,00;MERCEARIA\n"

	t.Run("success", func(t *testing.T) {
		stub := &stubIngest{result: &ingest.Result{Created: 1, Skips: []ingest.SkippedRow{}}}
		rec := serve(t, AdminImportCatalog(stub, 1<<20, logg), uploadRequest(t, "file", "Catalogo.CSV", csv))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.format != ingest.FormatCSV || stub.body != csv {
			t.Fatalf("unexpected ingest call format=%s body=%q", stub.format, stub.body)
		}
		var body types.MutationEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != types.MutationStatusSuccess {
			t.Fatalf("unexpected envelope %+v", body)
		}
		data, ok := body.Data.(map[string]any)
		if !ok || data["created"] != float64(1) {
			t.Fatalf("unexpected data %v", body.Data)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		stub := &stubIngest{}
		rec := serve(t, AdminImportCatalog(stub, 1<<20, logg), uploadRequest(t, "file", "catalog.pdf", csv))
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415 got %d", rec.Code)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		stub := &stubIngest{}
		rec := serve(t, AdminImportCatalog(stub, 1<<20, logg), uploadRequest(t, "upload", "catalog.csv", csv))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("too large", func(t *testing.T) {
		stub := &stubIngest{}
		rec := serve(t, AdminImportCatalog(stub, 256, logg), uploadRequest(t, "file", "catalog.csv", csv+string(bytes.Repeat([]byte("9;x;1;A\n"), 64))))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413 got %d", rec.Code)
		}
	})
}
