package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/formhive/survey-api/app"
	"github.com/formhive/survey-api/config"
	"github.com/formhive/survey-api/database"
	"github.com/formhive/survey-api/model"
)

func newTestApp(t *testing.T) (app.App, http.Handler) {
	t.Helper()

	cfg := config.Config{
		Addr:  "localhost:0",
		DBUrl: filepath.Join(t.TempDir(), "survey_test.sqlite"),
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	a := app.App{DB: db, Config: cfg}
	return a, Wire(a)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rec, &body)
	return body.Detail
}

// createJobApplicationSurvey persists the three-question fixture survey and
// returns it with assigned ids.
func createJobApplicationSurvey(t *testing.T, handler http.Handler) model.Survey {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/surveys/", map[string]any{
		"title":       "Job Application Survey",
		"description": "Test job application survey",
		"questions": []map[string]any{
			{
				"question_text": "What is your name?",
				"question_type": "short_text",
				"required":      true,
				"order":         1,
			},
			{
				"question_text": "Years of experience?",
				"question_type": "number",
				"required":      true,
				"order":         2,
			},
			{
				"question_text": "Preferred programming languages?",
				"question_type": "multiple_choice",
				"options":       `["Python", "Java", "JavaScript"]`,
				"required":      true,
				"order":         3,
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create survey: status %d: %s", rec.Code, rec.Body.String())
	}

	survey := model.Survey{}
	decodeBody(t, rec, &survey)
	return survey
}

func countRows(t *testing.T, a app.App, table string) int {
	t.Helper()
	var n int
	if err := a.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	return n
}
