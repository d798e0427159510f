package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/pricepanel-backend/internal/auth"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

type stubAuthService struct {
	got auth.LoginRequest
	err error
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 60, Email: req.Email, Role: enums.AdminRoleAdmin}, nil
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAdminAuthLoginReturnsTokenWithoutCaching(t *testing.T) {
	svc := &stubAuthService{}
	rec := serve(t, AdminAuthLogin(svc, testLogger()), loginRequest(`{"email":"gerente@loja.com.br","password":"segredo"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected no-store, got %q", rec.Header().Get("Cache-Control"))
	}
	var body struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.AccessToken != "tok" || body.Data.Role != enums.AdminRoleAdmin {
		t.Fatalf("unexpected body %+v", body.Data)
	}
	if svc.got.Password != "segredo" {
		t.Fatalf("password not forwarded")
	}
}

func TestAdminAuthLoginErrors(t *testing.T) {
	tests := []struct {
		name   string
		svc    auth.Service
		body   string
		status int
	}{
		{name: "nil service", svc: nil, body: `{}`, status: http.StatusInternalServerError},
		{name: "malformed email", svc: &stubAuthService{}, body: `{"email":"nope","password":"x"}`, status: http.StatusBadRequest},
		{name: "missing password", svc: &stubAuthService{}, body: `{"email":"a@b.co"}`, status: http.StatusBadRequest},
		{
			name:   "bad credentials",
			svc:    &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")},
			body:   `{"email":"a@b.co","password":"x"}`,
			status: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, AdminAuthLogin(tt.svc, testLogger()), loginRequest(tt.body))
			if rec.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("Cache-Control") != "no-store" {
				t.Fatalf("error responses must not be cached either")
			}
		})
	}
}
