package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postJSON(t *testing.T, handler http.Handler, path string, body ConvertRequest) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(0, 4)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleDmntAsm(t *testing.T) {
	srv := NewServer(0, 4)
	rec := postJSON(t, srv.Handler(), "/dmnt_asm", ConvertRequest{Text: "[entry]\nr1 = 0x1234\n"})

	var resp ConvertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got errors: %v", resp.Errors)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !bytes.Contains([]byte(resp.Output), []byte("40010000")) {
		t.Errorf("output %q does not contain expected machine code", resp.Output)
	}
}

func TestHandleDmntAsmReportsPerLineErrors(t *testing.T) {
	srv := NewServer(0, 4)
	rec := postJSON(t, srv.Handler(), "/dmnt_asm", ConvertRequest{Text: "[entry]\nnot a real instruction\n"})

	var resp ConvertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false for an unparseable line")
	}
	if len(resp.Errors) == 0 {
		t.Error("expected at least one reported error")
	}
}

func TestHandleDmntDism(t *testing.T) {
	srv := NewServer(0, 4)
	rec := postJSON(t, srv.Handler(), "/dmnt_dism", ConvertRequest{Text: "[entry]\nFF000000\n"})

	var resp ConvertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got errors: %v", resp.Errors)
	}
	if !bytes.Contains([]byte(resp.Output), []byte("pause")) {
		t.Errorf("output %q does not contain expected mnemonic", resp.Output)
	}
}

func TestHandleDmntAsmRejectsWrongMethod(t *testing.T) {
	srv := NewServer(0, 4)
	req := httptest.NewRequest(http.MethodGet, "/dmnt_asm", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	cases := map[string]bool{
		"":                       true,
		"http://localhost:3000":  true,
		"https://127.0.0.1:8080": true,
		"file://":                true,
		"https://evil.example":   false,
	}
	for origin, want := range cases {
		if got := isAllowedOrigin(origin); got != want {
			t.Errorf("isAllowedOrigin(%q) = %v, want %v", origin, got, want)
		}
	}
}
