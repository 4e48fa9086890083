package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Web Server API Tests
//
// Handlers are exercised directly with httptest recorders; the embedded
// lifecycle test binds a real ephemeral port on localhost.

const computeBody = `{
	"properties": [
		{"name": "City flat", "type": "residential", "rent": 12000, "expenses": 2400, "mortgage_interest": 4800}
	],
	"other_income": 30000
}`

func newTestServer() *WebServer {
	return NewWebServer(DefaultTaxYearConfig(), "localhost:0")
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// =============================================================================
// Compute Endpoint
// =============================================================================

func TestHandleCompute(t *testing.T) {
	ws := newTestServer()
	rec := postJSON(t, ws.handleCompute, "/api/compute", computeBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp APIComputeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Response should be JSON: %v", err)
	}

	if !resp.Success {
		t.Fatalf("Expected success, got error: %s", resp.Error)
	}
	if resp.Result == nil {
		t.Fatal("Response should carry the result")
	}
	assertTaxEquals(t, 4446, resp.Result.FinalTax, "Final tax over the API")
	assertTaxEquals(t, 960, resp.Result.MortgageTaxCredit, "Credit over the API")

	if len(resp.SA105) != 4 {
		t.Errorf("Response should carry the 4-box SA105 guide, got %d", len(resp.SA105))
	}
}

func TestHandleCompute_MethodNotAllowed(t *testing.T) {
	ws := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/compute", nil)
	rec := httptest.NewRecorder()
	ws.handleCompute(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET should be rejected with 405, got %d", rec.Code)
	}
}

func TestHandleCompute_InvalidJSON(t *testing.T) {
	ws := newTestServer()
	rec := postJSON(t, ws.handleCompute, "/api/compute", "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Malformed JSON should get 400, got %d", rec.Code)
	}

	var resp APIComputeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Error response should still be JSON: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("Error envelope wrong: %+v", resp)
	}
}

func TestHandleCompute_RejectsNegativeInput(t *testing.T) {
	ws := newTestServer()
	rec := postJSON(t, ws.handleCompute, "/api/compute",
		`{"properties": [{"name": "Flat", "rent": -500}]}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Negative rent should get 400, got %d", rec.Code)
	}

	var resp APIComputeResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !strings.Contains(resp.Error, "rent") {
		t.Errorf("Error should mention rent, got: %s", resp.Error)
	}
}

// =============================================================================
// Config Endpoint
// =============================================================================

func TestHandleGetConfig_FillsDefaults(t *testing.T) {
	// A zero-value config must come back fully populated so the UI never
	// needs its own fallback table
	ws := NewWebServer(TaxYearConfig{}, "localhost:0")

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	ws.handleGetConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var cfg TaxYearConfig
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("Config should be JSON: %v", err)
	}

	if cfg.Year != "2024/25" {
		t.Errorf("Year should default, got %q", cfg.Year)
	}
	if cfg.PersonalAllowance != 12570 {
		t.Errorf("Allowance should default, got %.0f", cfg.PersonalAllowance)
	}
	if cfg.InterestCreditRate != 0.20 {
		t.Errorf("Credit rate should default, got %.2f", cfg.InterestCreditRate)
	}
	if len(cfg.Bands) != 3 {
		t.Errorf("Bands should default, got %d", len(cfg.Bands))
	}
}

// =============================================================================
// Index
// =============================================================================

func TestHandleIndex(t *testing.T) {
	ws := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ws.handleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("Index should serve the embedded UI")
	}
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	ws := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	rec := httptest.NewRecorder()
	ws.handleIndex(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown paths should 404, got %d", rec.Code)
	}
}

// =============================================================================
// Export Endpoints
// =============================================================================

func TestHandleExportCSV(t *testing.T) {
	ws := newTestServer()
	ws.exportDir = t.TempDir()

	rec := postJSON(t, ws.handleExportCSV, "/api/export-csv", computeBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp APIExportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Response should be JSON: %v", err)
	}

	if !resp.Success {
		t.Fatalf("Export should succeed: %s", resp.Message)
	}
	if len(resp.Reference) != 8 {
		t.Errorf("Reference should be 8 characters, got %q", resp.Reference)
	}
	if !strings.Contains(resp.Message, "CSV summary saved to") {
		t.Errorf("Message wrong: %q", resp.Message)
	}

	data, err := os.ReadFile(resp.FilePath)
	if err != nil {
		t.Fatalf("Exported file should exist at %s: %v", resp.FilePath, err)
	}
	if !strings.Contains(string(data), resp.Reference) {
		t.Error("Exported file should carry the reference")
	}
}

func TestHandleExportPDF(t *testing.T) {
	ws := newTestServer()
	ws.exportDir = t.TempDir()

	rec := postJSON(t, ws.handleExportPDF, "/api/export-pdf", computeBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp APIExportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Response should be JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Export should succeed: %s", resp.Message)
	}

	data, err := os.ReadFile(resp.FilePath)
	if err != nil {
		t.Fatalf("Exported file should exist: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Exported file should be a PDF")
	}
}

func TestHandleExportCSV_MethodNotAllowed(t *testing.T) {
	ws := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/export-csv", nil)
	rec := httptest.NewRecorder()
	ws.handleExportCSV(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET should be rejected with 405, got %d", rec.Code)
	}

	// Export errors use the JSON envelope so the UI can show them
	var resp APIExportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("405 should still be a JSON envelope: %v", err)
	}
	if resp.Success {
		t.Error("405 envelope should not claim success")
	}
}

// =============================================================================
// PDF Download
// =============================================================================

func TestHandleDownloadPDF(t *testing.T) {
	ws := newTestServer()
	rec := postJSON(t, ws.handleDownloadPDF, "/api/download-pdf", computeBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "SA105_Rental_Summary.pdf") {
		t.Errorf("Disposition should name the download, got %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Body should be a PDF")
	}
}

func TestHandleDownloadPDF_BadRequest(t *testing.T) {
	ws := newTestServer()
	rec := postJSON(t, ws.handleDownloadPDF, "/api/download-pdf", "{bad")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Malformed JSON should get 400, got %d", rec.Code)
	}
}

// =============================================================================
// Embedded Lifecycle
// =============================================================================

func TestStartForEmbedded(t *testing.T) {
	ws := newTestServer()

	url, cleanup, err := ws.StartForEmbedded()
	if err != nil {
		t.Fatalf("Embedded server should start: %v", err)
	}
	defer cleanup()

	if !strings.HasPrefix(url, "http://") {
		t.Errorf("URL should be absolute, got %q", url)
	}

	resp, err := http.Get(url + "/api/config")
	if err != nil {
		t.Fatalf("Server should answer on %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /api/config, got %d", resp.StatusCode)
	}

	var cfg TaxYearConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("Config should decode: %v", err)
	}
	if cfg.PersonalAllowance != 12570 {
		t.Errorf("Live server should serve the config, got allowance %.0f", cfg.PersonalAllowance)
	}
}
