package domain

// QuestionType is the closed set of question kinds the system can grade.
type QuestionType string

const (
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
)

// ParseQuestionType maps a raw type tag to a QuestionType.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch QuestionType(s) {
	case TypeSingleChoice, TypeMultipleChoice, TypeText:
		return QuestionType(s), true
	}
	return "", false
}

// Option is one selectable choice of a question. Its ID is unique only
// within the owning question's option list. Immutable after creation.
type Option struct {
	OptionID  int64
	Text      string
	IsCorrect bool
}

// Question belongs to a quiz. Its ID is a stable position within the quiz,
// assigned sequentially when the question is added.
//
// A stored question is trusted to satisfy the per-type invariants checked at
// creation time: single_choice has >=2 options with exactly 1 correct,
// multiple_choice has >=2 options with >=1 correct, text has no options and a
// non-empty correct answer.
type Question struct {
	QuestionID int64
	Text       string
	Type       QuestionType
	Options    []Option
	// CorrectAnswer is populated for text questions only.
	CorrectAnswer string
}

// CorrectOptionIDs returns the IDs of all options flagged correct, in option order.
func (q Question) CorrectOptionIDs() []int64 {
	var ids []int64
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.OptionID)
		}
	}
	return ids
}

// Quiz holds an ordered, append-only sequence of questions. The title is
// unique case-insensitively across all quizzes.
type Quiz struct {
	QuizID    int64
	Title     string
	Questions []Question
}

// Summary is the outcome of scoring a submission: one point per correctly
// answered question, out of the quiz's question count.
type Summary struct {
	Score int
	Total int
}
