package survey

import "github.com/formhive/survey-api/model"

type QuestionInfo struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Order        int    `json:"order"`
}

type RespondentAnswers struct {
	ResponseID int            `json:"response_id"`
	UserID     int            `json:"user_id"`
	Answers    map[string]any `json:"answers"`
}

type Report struct {
	SurveyTitle    string              `json:"survey_title"`
	TotalResponses int                 `json:"total_responses"`
	Questions      []QuestionInfo      `json:"questions"`
	Responses      []RespondentAnswers `json:"responses"`
}

// BuildReport shapes every stored response to a survey into the reporting
// view: one row per response, carrying just the raw answer value for each
// answered question. Questions are expected in display order.
func BuildReport(title string, questions []model.Question, responses []model.Response) Report {
	infos := make([]QuestionInfo, len(questions))
	for i, q := range questions {
		infos[i] = QuestionInfo{
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Order:        q.Order,
		}
	}

	rows := make([]RespondentAnswers, len(responses))
	for i, resp := range responses {
		answers := make(map[string]any, len(resp.ResponseData))
		for text, record := range resp.ResponseData {
			answers[text] = record.Answer
		}
		rows[i] = RespondentAnswers{
			ResponseID: resp.ID,
			UserID:     resp.UserID,
			Answers:    answers,
		}
	}

	return Report{
		SurveyTitle:    title,
		TotalResponses: len(responses),
		Questions:      infos,
		Responses:      rows,
	}
}
