package quiz

import (
	"strings"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/errors"
)

// maxTextQuestionLen caps the display text of free-text questions.
const maxTextQuestionLen = 300

// QuestionInput is the untrusted question payload before validation.
type QuestionInput struct {
	Text          string
	Type          string
	Options       []OptionInput
	CorrectAnswer string
}

type OptionInput struct {
	Text      string
	IsCorrect bool
}

// ValidateTitle checks and trims a proposed quiz title.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New(errors.CodeValidation,
			errors.WithMessagef("Quiz title is required"))
	}

	return title, nil
}

// ValidateQuestion checks a question payload against the structural and
// semantic rules of its type and returns the typed question, without
// identifiers (the store assigns those). Validation is pure: it never
// touches the store, and stored questions are never re-checked.
func ValidateQuestion(in QuestionInput) (domain.Question, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.Question{}, errors.New(errors.CodeValidation,
			errors.WithMessagef("Question text is required"))
	}

	qt, ok := domain.ParseQuestionType(in.Type)
	if !ok {
		return domain.Question{}, errors.New(errors.CodeValidation,
			errors.WithMessagef("question type must be one of %s, %s, %s",
				domain.TypeSingleChoice, domain.TypeMultipleChoice, domain.TypeText))
	}

	q := domain.Question{
		Text: in.Text,
		Type: qt,
	}

	correctCount := 0
	for _, o := range in.Options {
		if strings.TrimSpace(o.Text) == "" {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("Option text is required"))
		}
		if o.IsCorrect {
			correctCount++
		}
		q.Options = append(q.Options, domain.Option{Text: o.Text, IsCorrect: o.IsCorrect})
	}

	switch qt {
	case domain.TypeText:
		if len([]rune(in.Text)) > maxTextQuestionLen {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("text question must be at most %d characters", maxTextQuestionLen))
		}
		if strings.TrimSpace(in.CorrectAnswer) == "" {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("text question must have a correct answer"))
		}
		// Text questions carry no options.
		q.Options = nil
		q.CorrectAnswer = in.CorrectAnswer

	case domain.TypeSingleChoice:
		if len(q.Options) < 2 {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("single-choice question must have at least 2 options"))
		}
		if correctCount != 1 {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("single-choice question must have exactly one correct option"))
		}

	case domain.TypeMultipleChoice:
		if len(q.Options) < 2 {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("multiple-choice question must have at least 2 options"))
		}
		if correctCount < 1 {
			return domain.Question{}, errors.New(errors.CodeValidation,
				errors.WithMessagef("multiple-choice question must have at least one correct option"))
		}
	}

	return q, nil
}
