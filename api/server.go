// Package api exposes the ledger over HTTP. It can be enabled via the
// CLI or mounted programmatically through Handler.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor"
	"github.com/nmoretto/resumen/ledger"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	LogPrefix string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
	}
}

// Server represents the HTTP API server
type Server struct {
	config   Config
	store    ledger.Store
	engine   *ledger.Engine
	resolver *ledger.Resolver
	importer *ledger.Importer
	mux      *http.ServeMux
}

// New creates a new API server backed by the given store
func New(cfg Config, store ledger.Store) *Server {
	engine := ledger.NewEngine(store)
	s := &Server{
		config:   cfg,
		store:    store,
		engine:   engine,
		resolver: ledger.NewResolver(store, engine),
		importer: ledger.NewImporter(store, engine),
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API endpoints
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/import", s.handleImport)
	s.mux.HandleFunc("/summary", s.handleSummary)
	s.mux.HandleFunc("/projections", s.handleProjections)
	s.mux.HandleFunc("/expenses", s.handleExpenses)
	s.mux.HandleFunc("/salary", s.handleSalary)
}

// Handler returns the http.Handler for the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport accepts a statement upload (PDF or plain text) and runs
// the full extract-import-project pipeline for the given period.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived import request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	period, err := ledger.ParsePeriod(r.FormValue("period"))
	if err != nil {
		http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	issuerOverride := extractor.Issuer(r.FormValue("issuer"))
	extracted, err := extractor.ProcessReader(bytes.NewReader(fileBytes), issuerOverride)
	if err != nil {
		log.Printf("%sExtraction failed: %v", s.config.LogPrefix, err)
		http.Error(w, "Extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := s.importer.Import(extracted.Transactions, period)
	if err != nil {
		http.Error(w, "Import failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"issuer":   extracted.Issuer,
		"fallback": extracted.Fallback,
		"stats":    extracted.Stats,
		"result":   result,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := s.resolver.SummaryFor(period)
	if err != nil {
		http.Error(w, "Could not build summary: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// handleProjections lists projections for a period (GET) or annuls one
// installment (DELETE with origin_id and period).
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
			return
		}
		includeReconciled := r.URL.Query().Get("all") == "true"
		projections, err := s.engine.ProjectionsFor(period, includeReconciled)
		if err != nil {
			http.Error(w, "Could not load projections: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, projections)

	case http.MethodDelete:
		period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
			return
		}
		originID := r.URL.Query().Get("origin_id")
		if originID == "" {
			http.Error(w, "origin_id is required", http.StatusBadRequest)
			return
		}
		if err := s.engine.Annul(originID, period); err != nil {
			status := http.StatusInternalServerError
			if isNotFound(err) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "annulled"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type expenseRequest struct {
	Period      string          `json:"period"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Recurring   bool            `json:"recurring"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	exp, err := buildExpense(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	instances, err := ledger.AddExpense(s.store, exp)
	if err != nil {
		http.Error(w, "Could not save expense: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"created": len(instances), "expenses": instances})
}

type salaryRequest struct {
	Period string          `json:"period"`
	Salary decimal.Decimal `json:"salary"`
}

func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
			return
		}
		salary, known, err := s.resolver.EffectiveSalary(period)
		if err != nil {
			http.Error(w, "Could not resolve salary: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"salary": salary, "known": known})

	case http.MethodPut, http.MethodPost:
		var req salaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		period, err := ledger.ParsePeriod(req.Period)
		if err != nil {
			http.Error(w, "Invalid period: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.resolver.SetSalary(period, req.Salary); err != nil {
			http.Error(w, "Could not save salary: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
