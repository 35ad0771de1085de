package store

import (
	"context"
	"strings"
	"sync"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/errors"
)

// Memory is the default quiz store: an in-process, append-only list.
// It hands out deep copies so callers can never mutate stored state.
type Memory struct {
	mu         sync.RWMutex
	quizzes    []domain.Quiz
	nextQuizID int64
}

func NewMemory() *Memory {
	return &Memory{nextQuizID: 1}
}

func (m *Memory) CreateQuiz(_ context.Context, title string) (*domain.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(title)
	for _, q := range m.quizzes {
		if strings.ToLower(q.Title) == key {
			return nil, errors.New(errors.CodeDuplicateTitle,
				errors.WithMessagef("a quiz with this title already exists"))
		}
	}

	quiz := domain.Quiz{
		QuizID: m.nextQuizID,
		Title:  title,
	}
	m.nextQuizID++
	m.quizzes = append(m.quizzes, quiz)

	c := cloneQuiz(quiz)
	return &c, nil
}

func (m *Memory) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, cloneQuiz(q))
	}
	return out, nil
}

func (m *Memory) FindQuiz(_ context.Context, quizID int64) (*domain.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.find(quizID)
	if !ok {
		return nil, notFound(quizID)
	}

	c := cloneQuiz(*q)
	return &c, nil
}

func (m *Memory) AddQuestions(_ context.Context, quizID int64, questions []domain.Question) ([]domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.find(quizID)
	if !ok {
		return nil, notFound(quizID)
	}

	added := assignIDs(int64(len(q.Questions))+1, questions)
	q.Questions = append(q.Questions, added...)

	return cloneQuestions(added), nil
}

func (m *Memory) ListQuestions(_ context.Context, quizID int64) ([]domain.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.find(quizID)
	if !ok {
		return nil, notFound(quizID)
	}

	return cloneQuestions(q.Questions), nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quizzes = nil
	m.nextQuizID = 1
	return nil
}

func (*Memory) Close() error { return nil }

// find returns a pointer into the backing slice; callers hold the lock.
func (m *Memory) find(quizID int64) (*domain.Quiz, bool) {
	for i := range m.quizzes {
		if m.quizzes[i].QuizID == quizID {
			return &m.quizzes[i], true
		}
	}
	return nil, false
}

func notFound(quizID int64) error {
	return errors.New(errors.CodeQuizNotFound,
		errors.WithMessagef("quiz %d not found", quizID))
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	q.Questions = cloneQuestions(q.Questions)
	return q
}

func cloneQuestions(qs []domain.Question) []domain.Question {
	if qs == nil {
		return nil
	}

	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		opts := make([]domain.Option, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		out[i] = q
	}
	return out
}
