package routes

import (
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/formhive/survey-api/model"
	"github.com/formhive/survey-api/survey"
)

func fullSubmission(surveyId int) map[string]any {
	return map[string]any{
		"survey_id": surveyId,
		"user_id":   1,
		"answers": []map[string]any{
			{
				"question_text": "What is your name?",
				"question_type": "short_text",
				"answer":        "John Doe",
			},
			{
				"question_text": "Years of experience?",
				"question_type": "number",
				"answer":        5,
			},
			{
				"question_text": "Preferred programming languages?",
				"question_type": "multiple_choice",
				"answer":        []string{"Python", "Java"},
			},
		},
	}
}

func TestSubmitResponse(t *testing.T) {
	a, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/responses/", fullSubmission(created.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Message  string         `json:"message"`
		Response model.Response `json:"response"`
	}
	decodeBody(t, rec, &body)
	if body.Message != "Response submitted successfully" {
		t.Errorf("wrong message: %s", body.Message)
	}
	if body.Response.ID == 0 || body.Response.SurveyID != created.ID || body.Response.UserID != 1 {
		t.Errorf("unexpected response envelope: %+v", body.Response)
	}
	if len(body.Response.ResponseData) != 3 {
		t.Fatalf("expected 3 snapshot entries, got %d", len(body.Response.ResponseData))
	}

	langs := body.Response.ResponseData["Preferred programming languages?"]
	if langs.QuestionID != created.Questions[2].ID || langs.QuestionType != model.TypeMultipleChoice {
		t.Errorf("snapshot missing question id/type: %+v", langs)
	}
	if langs.Options != `["Python", "Java", "JavaScript"]` {
		t.Errorf("options snapshot not carried: %q", langs.Options)
	}

	if n := countRows(t, a, "response"); n != 1 {
		t.Errorf("expected exactly 1 response row, got %d", n)
	}
}

func TestSubmitResponseSurveyMissing(t *testing.T) {
	_, handler := newTestApp(t)

	rec := doJSON(t, handler, http.MethodPost, "/responses/", fullSubmission(999))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if detail := detailOf(t, rec); detail != "Survey not found" {
		t.Errorf("wrong detail: %s", detail)
	}
}

func TestSubmitResponseMissingRequired(t *testing.T) {
	a, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/responses/", map[string]any{
		"survey_id": created.ID,
		"user_id":   1,
		"answers": []map[string]any{
			{
				"question_text": "What is your name?",
				"question_type": "short_text",
				"answer":        "John Doe",
			},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := detailOf(t, rec); detail != "Required question not answered: Years of experience?" {
		t.Errorf("wrong detail: %s", detail)
	}
	if n := countRows(t, a, "response"); n != 0 {
		t.Errorf("response persisted despite rejection: %d rows", n)
	}
}

func TestSubmitResponseInvalidOption(t *testing.T) {
	a, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	submission := fullSubmission(created.ID)
	submission["answers"].([]map[string]any)[2]["answer"] = []string{"Python", "C++"}

	rec := doJSON(t, handler, http.MethodPost, "/responses/", submission)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	want := "Invalid option for question 'Preferred programming languages?': C++"
	if detail := detailOf(t, rec); detail != want {
		t.Errorf("wrong detail:\n got: %s\nwant: %s", detail, want)
	}
	if n := countRows(t, a, "response"); n != 0 {
		t.Errorf("response persisted despite rejection: %d rows", n)
	}
}

func TestSubmitResponseUnknownQuestion(t *testing.T) {
	_, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	submission := fullSubmission(created.ID)
	answers := submission["answers"].([]map[string]any)
	submission["answers"] = append(answers, map[string]any{
		"question_text": "What is your quest?",
		"question_type": "short_text",
		"answer":        "testing",
	})

	rec := doJSON(t, handler, http.MethodPost, "/responses/", submission)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := detailOf(t, rec); detail != "Question not found in survey: What is your quest?" {
		t.Errorf("wrong detail: %s", detail)
	}
}

func TestSubmitResponseSeesLatestQuestionSet(t *testing.T) {
	_, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	// A question committed after survey creation takes part in the same
	// validation pass as the original ones.
	rec := doJSON(t, handler, http.MethodPost, "/questions/", map[string]any{
		"survey_id":     created.ID,
		"question_text": "Earliest start date?",
		"question_type": "date",
		"required":      true,
		"order":         4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create question: status %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/responses/", fullSubmission(created.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := detailOf(t, rec); detail != "Required question not answered: Earliest start date?" {
		t.Errorf("wrong detail: %s", detail)
	}
}

func TestSubmitResponseWithNestedListOptions(t *testing.T) {
	a, handler := newTestApp(t)

	rec := doJSON(t, handler, http.MethodPost, "/surveys/", map[string]any{
		"title": "Pairings",
		"questions": []map[string]any{
			{
				"question_text": "Pick a pair?",
				"question_type": "multiple_choice",
				"options":       `[["a"], ["b"]]`,
				"required":      true,
				"order":         1,
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create survey: status %d", rec.Code)
	}
	created := model.Survey{}
	decodeBody(t, rec, &created)

	rec = doJSON(t, handler, http.MethodPost, "/responses/", map[string]any{
		"survey_id": created.ID,
		"user_id":   1,
		"answers": []map[string]any{
			{
				"question_text": "Pick a pair?",
				"question_type": "multiple_choice",
				"answer":        [][]string{{"a"}},
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/responses/", map[string]any{
		"survey_id": created.ID,
		"user_id":   2,
		"answers": []map[string]any{
			{
				"question_text": "Pick a pair?",
				"question_type": "multiple_choice",
				"answer":        [][]string{{"c"}},
			},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if detail := detailOf(t, rec); detail != "Invalid option for question 'Pick a pair?': [c]" {
		t.Errorf("wrong detail: %s", detail)
	}
	if n := countRows(t, a, "response"); n != 1 {
		t.Errorf("expected only the valid response persisted, got %d rows", n)
	}
}

func TestGetSurveyResponsesReport(t *testing.T) {
	_, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	if rec := doJSON(t, handler, http.MethodPost, "/responses/", fullSubmission(created.ID)); rec.Code != http.StatusOK {
		t.Fatalf("submit: status %d", rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/responses/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	report := survey.Report{}
	decodeBody(t, rec, &report)

	if report.SurveyTitle != "Job Application Survey" {
		t.Errorf("wrong title: %s", report.SurveyTitle)
	}
	if report.TotalResponses != 1 {
		t.Errorf("expected total_responses 1, got %d", report.TotalResponses)
	}
	if len(report.Questions) != 3 || report.Questions[0].Order != 1 {
		t.Errorf("unexpected question info: %+v", report.Questions)
	}
	if len(report.Responses) != 1 {
		t.Fatalf("expected 1 response row, got %d", len(report.Responses))
	}

	answers := report.Responses[0].Answers
	if answers["What is your name?"] != "John Doe" {
		t.Errorf("raw answer lost in round trip: %v", answers)
	}
	if answers["Years of experience?"] != float64(5) {
		t.Errorf("number answer lost in round trip: %v", answers)
	}
	if !reflect.DeepEqual(answers["Preferred programming languages?"], []any{"Python", "Java"}) {
		t.Errorf("list answer lost in round trip: %v", answers)
	}
}

func TestGetSurveyResponsesEmpty(t *testing.T) {
	_, handler := newTestApp(t)
	created := createJobApplicationSurvey(t, handler)

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/responses/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	report := survey.Report{}
	decodeBody(t, rec, &report)
	if report.TotalResponses != 0 || len(report.Responses) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestGetSurveyResponsesNotFound(t *testing.T) {
	_, handler := newTestApp(t)

	rec := doJSON(t, handler, http.MethodGet, "/responses/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if detail := detailOf(t, rec); detail != "Survey not found" {
		t.Errorf("wrong detail: %s", detail)
	}
}
