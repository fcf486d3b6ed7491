package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nmoretto/resumen/integrations/jsonstore"
	"github.com/nmoretto/resumen/ledger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := jsonstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return New(DefaultConfig(), store)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != ":8080" {
		t.Errorf("Expected port ':8080', got '%s'", cfg.Port)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response["status"])
	}
}

func TestImportEndpoint_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestImportEndpoint_InvalidPeriod(t *testing.T) {
	server := newTestServer(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("period", "marzo")
	part, _ := writer.CreateFormFile("file", "resumen.txt")
	part.Write([]byte("05-03-25 NETFLIX.COM 15,99"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestImportEndpoint_PlainTextStatement(t *testing.T) {
	server := newTestServer(t)

	statement := strings.Join([]string{
		"05-03-25 NETFLIX.COM 15.000,00",
		"12-03-25 FARMACITY SUCURSAL 442 8.500,00",
	}, "\n")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("period", "2025-03")
	part, _ := writer.CreateFormFile("file", "resumen.txt")
	part.Write([]byte(statement))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Fallback bool `json:"fallback"`
		Result   struct {
			Imported int `json:"Imported"`
		} `json:"result"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Fallback {
		t.Error("Expected generic fallback for unbranded text")
	}
	if response.Result.Imported != 2 {
		t.Errorf("Expected 2 imported transactions, got %d", response.Result.Imported)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/summary?period=2025-03", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var summary ledger.Summary
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.Status != ledger.StatusUnknown {
		t.Errorf("Expected unknown status without salary, got %s", summary.Status)
	}
}

func TestSalaryEndpoint_RoundTrip(t *testing.T) {
	server := newTestServer(t)

	put := httptest.NewRequest(http.MethodPut, "/salary",
		strings.NewReader(`{"period":"2025-01","salary":"900000"}`))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, put)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Carried forward to a later period.
	get := httptest.NewRequest(http.MethodGet, "/salary?period=2025-06", nil)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, get)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Salary string `json:"salary"`
		Known  bool   `json:"known"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Known {
		t.Error("Expected salary to carry forward")
	}
	if response.Salary != "900000" {
		t.Errorf("Expected salary 900000, got %s", response.Salary)
	}
}

func TestExpensesEndpoint_Recurring(t *testing.T) {
	server := newTestServer(t)

	body := `{"period":"2025-03","description":"Gimnasio","amount":"30000","recurring":true}`
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Created int `json:"created"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Created != 22 {
		t.Errorf("Expected 22 recurring instances, got %d", response.Created)
	}
}

func TestProjectionsEndpoint_AnnulMissing(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/projections?period=2025-04&origin_id=nope", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
