package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/yurifrl/budgetu/pkg/export"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/store"
)

// Server exposes the budget store and its exports over HTTP.
type Server struct {
	logger *log.Logger
	store  *store.Store
	router *mux.Router
	opts   export.Options
}

// New creates a new HTTP server backed by st.
func New(st *store.Store, opts export.Options, logger *log.Logger) *Server {
	s := &Server{
		logger: logger,
		store:  st,
		router: mux.NewRouter(),
		opts:   opts,
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.withLogging)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, "not found", nil)
	})

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/budget", s.handleGetBudget).Methods(http.MethodGet)
	api.HandleFunc("/budget", s.handlePutBudget).Methods(http.MethodPut)

	api.HandleFunc("/incomes", s.handleAddIncome).Methods(http.MethodPost)
	api.HandleFunc("/incomes/{index:[0-9]+}", s.handleUpdateIncome).Methods(http.MethodPut)
	api.HandleFunc("/incomes/{index:[0-9]+}", s.handleRemoveIncome).Methods(http.MethodDelete)

	api.HandleFunc("/expenses", s.handleAddExpense).Methods(http.MethodPost)
	api.HandleFunc("/expenses/{index:[0-9]+}", s.handleUpdateExpense).Methods(http.MethodPut)
	api.HandleFunc("/expenses/{index:[0-9]+}", s.handleRemoveExpense).Methods(http.MethodDelete)

	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodGet)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	s.respondBudget(w, r)
}

func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	var d models.BudgetData
	if !s.decode(w, r, &d) {
		return
	}
	if d.Incomes == nil {
		d.Incomes = []models.Income{}
	}
	if d.Expenses == nil {
		d.Expenses = []models.Expense{}
	}
	s.store.Set(d)
	s.respondBudget(w, r)
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var in models.Income
	if !s.decode(w, r, &in) {
		return
	}
	s.store.AddIncome(in)
	s.respondBudget(w, r)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var in models.Income
	if !s.decode(w, r, &in) {
		return
	}
	s.mutate(w, r, func(i int) error { return s.store.UpdateIncome(i, in) })
}

func (s *Server) handleRemoveIncome(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.store.RemoveIncome)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !s.decode(w, r, &e) {
		return
	}
	s.store.AddExpense(e)
	s.respondBudget(w, r)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !s.decode(w, r, &e) {
		return
	}
	s.mutate(w, r, func(i int) error { return s.store.UpdateExpense(i, e) })
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.store.RemoveExpense)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := models.Summarize(s.store.Snapshot())
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"summary": summary,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- file download handler ----------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, "unknown export format", err)
		return
	}

	exp := export.New(s.logger, &responseDownloader{w: w}, s.opts)
	err = exp.Export(format, s.store.Snapshot())

	var serr *export.SerializationError
	switch {
	case err == nil:
	case errors.As(err, &serr):
		s.respondError(w, r, http.StatusUnprocessableEntity, "failed to serialize budget", err)
	default:
		// Headers are already gone; nothing left to tell the client.
		s.logger.Warn("failed to write export response", "err", err)
	}
}

// responseDownloader offers a payload as an HTTP attachment.
type responseDownloader struct {
	w http.ResponseWriter
}

func (d *responseDownloader) Offer(p export.Payload) error {
	d.w.Header().Set("Content-Type", p.MimeType)
	d.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", p.Filename))
	d.w.Header().Set("Content-Length", strconv.Itoa(len(p.Bytes)))
	d.w.WriteHeader(http.StatusOK)
	_, err := d.w.Write(p.Bytes)
	return err
}

// --- helpers ---

// mutate runs fn with the {index} path variable and answers with the new budget.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(int) error) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid index", err)
		return
	}
	if err := fn(index); err != nil {
		if errors.Is(err, store.ErrIndexOutOfRange) {
			s.respondError(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "update failed", err)
		return
	}
	s.respondBudget(w, r)
}

// decode reads a JSON request body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (s *Server) respondBudget(w http.ResponseWriter, _ *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"budget": s.store.Snapshot(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging logs every request and recovers panics.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
