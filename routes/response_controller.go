package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formhive/survey-api/app"
	"github.com/formhive/survey-api/httpx"
	"github.com/formhive/survey-api/log"
	"github.com/formhive/survey-api/model"
	"github.com/formhive/survey-api/survey"
)

type submissionPayload struct {
	SurveyID int            `json:"survey_id"`
	UserID   int            `json:"user_id"`
	Answers  []model.Answer `json:"answers"`
}

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submission := submissionPayload{}
		err := render.DecodeJSON(r.Body, &submission)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		var surveyExists bool
		err = tx.QueryRowContext(r.Context(),
			`SELECT 1 FROM survey WHERE id = ?`,
			submission.SurveyID,
		).Scan(&surveyExists)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "submit_response.survey", "Survey not found", submission.SurveyID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		questions, err := questionsForSurvey(r, tx, submission.SurveyID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		responseData, err := survey.ValidateAnswers(questions, submission.Answers)
		if err != nil {
			var vErr *survey.ValidationError
			if errors.As(err, &vErr) {
				httpx.LogDetailMsg(w, http.StatusBadRequest, log.DebugLevel, "submit_response.validate", "%s", vErr.Message)
			} else {
				httpx.LogInternalError(w, "submit_response.validate", err)
			}
			return
		}

		dataJson, err := json.Marshal(responseData)
		if err != nil {
			httpx.LogInternalError(w, "submit_response.encode_data", err)
			return
		}

		var responseId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO response (survey_id, user_id, response_data)
			VALUES (?, ?, ?)
			RETURNING id`,
			submission.SurveyID,
			submission.UserID,
			string(dataJson),
		).Scan(&responseId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.commit", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message": "Response submitted successfully",
			"response": model.Response{
				ID:           responseId,
				SurveyID:     submission.SurveyID,
				UserID:       submission.UserID,
				ResponseData: responseData,
			},
		})
	}
}

func GetSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.Atoi(chi.URLParam(r, "surveyId"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.survey_id")
			return
		}

		var title string
		err = app.QueryRowContext(r.Context(),
			`SELECT title FROM survey WHERE id = ?`,
			surveyId,
		).Scan(&title)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_responses.survey", "Survey not found", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		questions, err := questionsForSurvey(r, app, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT id, survey_id, user_id, response_data
			FROM response
			WHERE survey_id = ?
			ORDER BY id`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}
		defer rows.Close()

		responses := []model.Response{}
		for rows.Next() {
			resp := model.Response{}
			var dataJson string
			err = rows.Scan(&resp.ID, &resp.SurveyID, &resp.UserID, &dataJson)
			if err != nil {
				httpx.LogInternalError(w, "db.get_responses.scan", err)
				return
			}

			err = json.Unmarshal([]byte(dataJson), &resp.ResponseData)
			if err != nil {
				httpx.LogInternalError(w, "db.get_responses.parse_data", err)
				return
			}
			responses = append(responses, resp)
		}
		if err := rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_responses.rows", err)
			return
		}

		render.JSON(w, r, survey.BuildReport(title, questions, responses))
	}
}
