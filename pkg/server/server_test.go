package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/budgetu/pkg/export"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/store"
)

func newTestServer(d models.BudgetData) (*Server, *store.Store) {
	st := store.New(d)
	return New(st, export.Options{}, log.New(io.Discard)), st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func scenario() models.BudgetData {
	return models.BudgetData{
		Incomes:  []models.Income{{Name: "A", Amount: 100}},
		Expenses: []models.Expense{{Category: "Food", Planned: 50, Actual: models.Float(45), Selected: models.Bool(true)}},
	}
}

func TestExportCSVDownload(t *testing.T) {
	s, _ := newTestServer(scenario())

	rec := do(t, s, http.MethodGet, "/api/export/csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv;charset=utf-8;" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="budget_report.csv"` {
		t.Errorf("unexpected content disposition %q", cd)
	}

	expected := "type,name,amount,category,planned,actual,selected\r\nIncome,A,100,,,,\r\nExpense,,,Food,50,45,true\r\n"
	if rec.Body.String() != expected {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestExportJSONDownload(t *testing.T) {
	s, _ := newTestServer(models.BudgetData{})

	rec := do(t, s, http.MethodGet, "/api/export/json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("expected [], got %q", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="budget_report.json"` {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	s, _ := newTestServer(models.BudgetData{})

	if rec := do(t, s, http.MethodGet, "/api/export/xml", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestExportSerializationError(t *testing.T) {
	s, _ := newTestServer(models.BudgetData{Incomes: []models.Income{{Name: "A", Amount: math.Inf(1)}}})

	rec := do(t, s, http.MethodGet, "/api/export/json", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"error"`) {
		t.Errorf("expected an error body, got %s", rec.Body.String())
	}
}

func TestIncomeEndpoints(t *testing.T) {
	s, st := newTestServer(models.BudgetData{})

	if rec := do(t, s, http.MethodPost, "/api/incomes", `{"name":"A","amount":100}`); rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPut, "/api/incomes/0", `{"name":"B","amount":200}`); rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	if got := st.Snapshot().Incomes; len(got) != 1 || got[0].Name != "B" || got[0].Amount != 200 {
		t.Errorf("unexpected incomes %+v", got)
	}

	if rec := do(t, s, http.MethodDelete, "/api/incomes/3", ""); rec.Code != http.StatusNotFound {
		t.Errorf("delete out of range: expected 404, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/incomes/0", ""); rec.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", rec.Code)
	}
	if n := len(st.Snapshot().Incomes); n != 0 {
		t.Errorf("expected no incomes, got %d", n)
	}
}

func TestExpenseEndpoints(t *testing.T) {
	s, st := newTestServer(models.BudgetData{})

	rec := do(t, s, http.MethodPost, "/api/expenses", `{"category":"Food","planned":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodPut, "/api/expenses/0", `{"category":"Food","planned":50,"actual":45,"selected":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	e := st.Snapshot().Expenses[0]
	if e.Actual == nil || *e.Actual != 45 || e.Selected == nil || !*e.Selected {
		t.Errorf("unexpected expense %+v", e)
	}

	if rec := do(t, s, http.MethodPost, "/api/expenses", `{"category":`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	s, _ := newTestServer(models.BudgetData{})

	rec := do(t, s, http.MethodPut, "/api/budget", `{"incomes":[{"name":"A","amount":100}],"expenses":[{"category":"Food","planned":50,"actual":45,"selected":true}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/budget", "")
	var resp struct {
		Status string            `json:"status"`
		Budget models.BudgetData `json:"budget"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != "success" || len(resp.Budget.Incomes) != 1 || len(resp.Budget.Expenses) != 1 {
		t.Errorf("unexpected response %+v", resp)
	}

	rec = do(t, s, http.MethodGet, "/api/export/csv", "")
	if !strings.HasSuffix(rec.Body.String(), "Expense,,,Food,50,45,true\r\n") {
		t.Errorf("export does not reflect the new budget: %q", rec.Body.String())
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s, _ := newTestServer(scenario())

	rec := do(t, s, http.MethodGet, "/api/summary", "")
	var resp struct {
		Summary models.Summary `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Summary.Savings != 50 || resp.Summary.Actual != 45 {
		t.Errorf("unexpected summary %+v", resp.Summary)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(models.BudgetData{})

	if rec := do(t, s, http.MethodPost, "/api/export/csv", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
