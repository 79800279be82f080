package model

// Question type tags accepted by the API.
const (
	TypeShortText      = "short_text"
	TypeLongText       = "long_text"
	TypeMultipleChoice = "multiple_choice"
	TypeNumber         = "number"
	TypeCheckbox       = "checkbox"
	TypeDate           = "date"
)

func ValidQuestionType(questionType string) bool {
	switch questionType {
	case TypeShortText, TypeLongText, TypeMultipleChoice, TypeNumber, TypeCheckbox, TypeDate:
		return true
	}
	return false
}

type User struct {
	ID       int    `json:"id,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password,omitempty"`
}

type Survey struct {
	ID          int        `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID              int              `json:"id,omitempty"`
	SurveyID        int              `json:"survey_id,omitempty"`
	QuestionText    string           `json:"question_text"`
	QuestionType    string           `json:"question_type"`
	Options         string           `json:"options,omitempty"`
	Required        bool             `json:"required"`
	Order           int              `json:"order"`
	QuestionOptions []QuestionOption `json:"question_options,omitempty"`
}

type QuestionOption struct {
	ID         int    `json:"id,omitempty"`
	QuestionID int    `json:"question_id,omitempty"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type Response struct {
	ID           int                     `json:"id"`
	SurveyID     int                     `json:"survey_id"`
	UserID       int                     `json:"user_id"`
	ResponseData map[string]AnswerRecord `json:"response_data"`
}

// Answer is one submitted answer tuple, keyed by question text.
type Answer struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Answer       any    `json:"answer"`
	Options      string `json:"options,omitempty"`
}

// AnswerRecord is the per-question snapshot stored inside a response.
// Options holds the question's option list as it was at submission time.
type AnswerRecord struct {
	QuestionID   int    `json:"question_id"`
	QuestionType string `json:"question_type"`
	Answer       any    `json:"answer"`
	Options      string `json:"options,omitempty"`
}
