// Package quiz orchestrates the quiz-management operations: creating
// quizzes, attaching questions and submitting answers for scoring.
package quiz

import (
	"context"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/errors"
	"github.com/quizkit/quizkit/internal/event"
	"github.com/quizkit/quizkit/internal/score"
	"github.com/quizkit/quizkit/internal/store"
)

type Config struct {
	Store    store.Store
	EventBus *event.Bus
	Scorer   *score.Engine
}

type Service struct {
	store  store.Store
	eb     *event.Bus
	scorer *score.Engine
}

func NewService(c Config) *Service {
	if c.Scorer == nil {
		c.Scorer = score.NewEngine(score.Config{})
	}

	return &Service{
		store:  c.Store,
		eb:     c.EventBus,
		scorer: c.Scorer,
	}
}

type CreateQuizRequest struct {
	Title string
}

// CreateQuiz validates the proposed title and appends a new empty quiz.
func (s *Service) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*domain.Quiz, error) {
	title, err := ValidateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	quiz, err := s.store.CreateQuiz(ctx, title)
	if err != nil {
		return nil, err
	}

	s.eb.Publish(ctx, domain.EventQuizCreated{Quiz: *quiz})

	return quiz, nil
}

func (s *Service) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

type AddQuestionsRequest struct {
	QuizID    int64
	Questions []QuestionInput
}

// AddQuestions validates a batch of question payloads and appends them to the
// quiz. The whole batch is validated before anything is stored, so a bad
// payload cannot leave a partially added batch behind.
func (s *Service) AddQuestions(ctx context.Context, req AddQuestionsRequest) ([]domain.Question, error) {
	if _, err := s.store.FindQuiz(ctx, req.QuizID); err != nil {
		return nil, err
	}

	if len(req.Questions) == 0 {
		return nil, errors.New(errors.CodeEmptyBatch,
			errors.WithMessagef("questions must be a non-empty array"))
	}

	validated := make([]domain.Question, 0, len(req.Questions))
	for _, in := range req.Questions {
		q, err := ValidateQuestion(in)
		if err != nil {
			return nil, err
		}
		validated = append(validated, q)
	}

	added, err := s.store.AddQuestions(ctx, req.QuizID, validated)
	if err != nil {
		return nil, err
	}

	s.eb.Publish(ctx, domain.EventQuestionsAdded{
		QuizID:    req.QuizID,
		Questions: added,
	})

	return added, nil
}

type ListQuestionsRequest struct {
	QuizID int64
}

func (s *Service) ListQuestions(ctx context.Context, req ListQuestionsRequest) ([]domain.Question, error) {
	return s.store.ListQuestions(ctx, req.QuizID)
}

type SubmitAnswersRequest struct {
	QuizID  int64
	Answers []score.Answer
}

type SubmitAnswersResponse struct {
	Summary domain.Summary
}

// SubmitAnswers scores a submission against the quiz. Individual answers
// that cannot be matched to a question contribute zero rather than failing
// the submission.
func (s *Service) SubmitAnswers(ctx context.Context, req SubmitAnswersRequest) (*SubmitAnswersResponse, error) {
	quiz, err := s.store.FindQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	summary := s.scorer.Score(*quiz, req.Answers)

	s.eb.Publish(ctx, domain.EventSubmissionScored{
		QuizID:  req.QuizID,
		Summary: summary,
	})

	return &SubmitAnswersResponse{Summary: summary}, nil
}

// Reset clears all stored quizzes and restores identifier counters,
// the teardown hook test runs rely on.
func (s *Service) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}
