package routes

import (
	"context"
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
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if len(survey.Questions) == 0 {
			httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "create_survey.no_questions",
				"A survey needs at least one question")
			return
		}
		for _, q := range survey.Questions {
			if !checkQuestion(w, "create_survey", q) {
				return
			}
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO survey (title, description) VALUES (?, ?)
			RETURNING id`,
			survey.Title,
			survey.Description,
		).Scan(&survey.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO question (survey_id, question_text, question_type, options, required, "order")
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.questions.prepare", err)
			return
		}
		defer stmt.Close()

		for i, q := range survey.Questions {
			q.SurveyID = survey.ID
			err = stmt.QueryRowContext(r.Context(),
				q.SurveyID, q.QuestionText, q.QuestionType, q.Options, q.Required, q.Order,
			).Scan(&q.ID)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_survey.questions.insert", err)
				return
			}
			survey.Questions[i] = q
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.commit", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		survey := model.Survey{}
		err = app.QueryRowContext(r.Context(), `
			SELECT id, title, description
			FROM survey
			WHERE id = ?`,
			surveyId,
		).Scan(&survey.ID, &survey.Title, &survey.Description)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_survey", "Survey not found", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		survey.Questions, err = questionsForSurvey(r, app, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		options, err := optionRowsForSurvey(r, app, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.question_options", err)
			return
		}
		for i, q := range survey.Questions {
			survey.Questions[i].QuestionOptions = options[q.ID]
		}

		render.JSON(w, r, survey)
	}
}

func CreateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question := model.Question{}
		err := render.DecodeJSON(r.Body, &question)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if !checkQuestion(w, "create_question", question) {
			return
		}

		var surveyExists bool
		err = app.QueryRowContext(r.Context(),
			`SELECT 1 FROM survey WHERE id = ?`,
			question.SurveyID,
		).Scan(&surveyExists)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "create_question.survey", "Survey not found", question.SurveyID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO question (survey_id, question_text, question_type, options, required, "order")
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			question.SurveyID, question.QuestionText, question.QuestionType,
			question.Options, question.Required, question.Order,
		).Scan(&question.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_question", err)
			return
		}

		for i, opt := range question.QuestionOptions {
			opt.QuestionID = question.ID
			err = tx.QueryRowContext(r.Context(), `
				INSERT INTO question_option (question_id, option_text, is_correct)
				VALUES (?, ?, ?)
				RETURNING id`,
				opt.QuestionID, opt.OptionText, opt.IsCorrect,
			).Scan(&opt.ID)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_question.options", err)
				return
			}
			question.QuestionOptions[i] = opt
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_question.commit", err)
			return
		}

		render.JSON(w, r, question)
	}
}

// checkQuestion rejects malformed question payloads before they reach the
// store. Reports 422 and returns false on the first violation.
func checkQuestion(w http.ResponseWriter, code string, q model.Question) bool {
	if !model.ValidQuestionType(q.QuestionType) {
		httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, code+".question_type",
			"Invalid question type: %s", q.QuestionType)
		return false
	}
	if q.QuestionType == model.TypeMultipleChoice && q.Options == "" {
		httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, code+".options_missing",
			"Question '%s' requires options", q.QuestionText)
		return false
	}
	if q.Options != "" {
		var options []any
		if json.Unmarshal([]byte(q.Options), &options) != nil {
			httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, code+".options_malformed",
				"Question '%s' has malformed options", q.QuestionText)
			return false
		}
	}
	return true
}

// querier is satisfied by both the pooled handle and an open *sql.Tx, so
// lookups can run inside whatever unit of work the caller holds.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// questionsForSurvey loads a survey's questions sorted by display order,
// id breaking ties so non-contiguous order values still sort stably.
func questionsForSurvey(r *http.Request, db querier, surveyId int) ([]model.Question, error) {
	rows, err := db.QueryContext(r.Context(), `
		SELECT id, survey_id, question_text, question_type, options, required, "order"
		FROM question
		WHERE survey_id = ?
		ORDER BY "order", id`,
		surveyId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q := model.Question{}
		err = rows.Scan(&q.ID, &q.SurveyID, &q.QuestionText, &q.QuestionType, &q.Options, &q.Required, &q.Order)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func optionRowsForSurvey(r *http.Request, app app.App, surveyId int) (map[int][]model.QuestionOption, error) {
	rows, err := app.QueryContext(r.Context(), `
		SELECT o.id, o.question_id, o.option_text, o.is_correct
		FROM question_option o
		INNER JOIN question q ON (q.id = o.question_id)
		WHERE q.survey_id = ?
		ORDER BY o.id`,
		surveyId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := map[int][]model.QuestionOption{}
	for rows.Next() {
		o := model.QuestionOption{}
		err = rows.Scan(&o.ID, &o.QuestionID, &o.OptionText, &o.IsCorrect)
		if err != nil {
			return nil, err
		}
		options[o.QuestionID] = append(options[o.QuestionID], o)
	}
	return options, rows.Err()
}
