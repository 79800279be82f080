package survey

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/formhive/survey-api/model"
)

// ValidationError reports a submission that does not satisfy the survey's
// question definitions. The message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateAnswers checks a submission against a survey's questions and, when
// acceptable, builds the response_data snapshot to store.
//
// Required questions are checked first, in stored question order: the first
// one without a matching answer fails the whole submission. Unknown-question
// and option checks then run per answer, in submission order, in the same
// pass that assembles the snapshot.
func ValidateAnswers(questions []model.Question, answers []model.Answer) (map[string]model.AnswerRecord, error) {
	byText := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byText[q.QuestionText] = q
	}

	for _, q := range questions {
		if !q.Required {
			continue
		}
		found := false
		for _, a := range answers {
			if a.QuestionText == q.QuestionText {
				found = true
				break
			}
		}
		if !found {
			return nil, validationf("Required question not answered: %s", q.QuestionText)
		}
	}

	data := make(map[string]model.AnswerRecord, len(answers))
	for _, a := range answers {
		q, ok := byText[a.QuestionText]
		if !ok {
			return nil, validationf("Question not found in survey: %s", a.QuestionText)
		}

		if q.QuestionType == model.TypeMultipleChoice && q.Options != "" {
			var validOptions []any
			err := json.Unmarshal([]byte(q.Options), &validOptions)
			if err != nil {
				return nil, fmt.Errorf("parse options for question %q: %w", q.QuestionText, err)
			}

			switch value := a.Answer.(type) {
			case []any:
				for _, item := range value {
					if !optionAllowed(validOptions, item) {
						return nil, validationf("Invalid option for question '%s': %v", a.QuestionText, item)
					}
				}
			default:
				if !optionAllowed(validOptions, a.Answer) {
					return nil, validationf("Invalid option for question '%s': %v", a.QuestionText, a.Answer)
				}
			}
		}

		data[q.QuestionText] = model.AnswerRecord{
			QuestionID:   q.ID,
			QuestionType: q.QuestionType,
			Answer:       a.Answer,
			Options:      q.Options,
		}
	}

	return data, nil
}

// Options and answer values come straight from decoded JSON, so they can be
// lists or objects, not just scalars. Interface equality panics on those.
func optionAllowed(options []any, value any) bool {
	for _, o := range options {
		if reflect.DeepEqual(o, value) {
			return true
		}
	}
	return false
}
