// Package verify judges collection claims: typed answers against the
// question store and photos against an image classifier.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/playperu/geohunt/internal/hunt"
)

// Questions looks up a question by id. It returns an apperr NotFound error
// for unknown ids.
type Questions interface {
	Question(ctx context.Context, id int64) (hunt.Question, error)
}

type AnswerResult struct {
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

const MessageIncorrect = "Incorrect. Try again!"

// Text checks typed answers.
type Text struct {
	Questions Questions
}

// Check compares answer with the stored answer of questionID, ignoring case.
func (t *Text) Check(ctx context.Context, questionID int64, answer string) (AnswerResult, error) {
	q, err := t.Questions.Question(ctx, questionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if strings.ToLower(q.Answer) != strings.ToLower(answer) {
		return AnswerResult{Message: MessageIncorrect}, nil
	}
	return AnswerResult{
		Correct: true,
		Points:  q.Points,
		Message: fmt.Sprintf("Correct! +%d points", q.Points),
	}, nil
}
