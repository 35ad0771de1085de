// Package store holds quizzes and their nested questions and options.
//
// The store exclusively owns all quiz instances and is append-only: nothing
// deletes a quiz, question or option (Reset excepted, which exists for test
// teardown). Identifier contracts: quiz IDs are sequential from 1 for the
// store's lifetime; question IDs are sequential per quiz, continuing from the
// quiz's current question count; option IDs are sequential per question from 1.
package store

import (
	"context"

	"github.com/quizkit/quizkit/internal/domain"
)

type Store interface {
	// CreateQuiz appends a new empty quiz. The title must be unique
	// case-insensitively; collisions fail with the duplicate-title code.
	CreateQuiz(ctx context.Context, title string) (*domain.Quiz, error)

	// ListQuizzes returns all quizzes in creation order.
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)

	// FindQuiz looks up a quiz with its questions. A missing quiz fails
	// with the not-found code so callers can tell "no such quiz" apart
	// from "quiz has no questions".
	FindQuiz(ctx context.Context, quizID int64) (*domain.Quiz, error)

	// AddQuestions assigns identifiers to the given validated questions and
	// appends them to the quiz, returning the questions as stored.
	AddQuestions(ctx context.Context, quizID int64, questions []domain.Question) ([]domain.Question, error)

	// ListQuestions returns the quiz's question sequence, possibly empty.
	ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)

	// Reset clears all quizzes and restores identifier counters to 1.
	Reset(ctx context.Context) error

	Close() error
}

// assignIDs numbers a validated batch: question IDs continue from nextQuestionID,
// option IDs restart at 1 for every question.
func assignIDs(nextQuestionID int64, questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.QuestionID = nextQuestionID + int64(i)

		opts := make([]domain.Option, len(q.Options))
		for j, o := range q.Options {
			o.OptionID = int64(j) + 1
			opts[j] = o
		}
		q.Options = opts

		out[i] = q
	}
	return out
}
