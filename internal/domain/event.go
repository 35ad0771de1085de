package domain

const (
	EventNameQuizCreated      = "quiz.created"
	EventNameQuestionsAdded   = "quiz.questions_added"
	EventNameSubmissionScored = "submission.scored"
)

type EventQuizCreated struct {
	Quiz Quiz
}

func (EventQuizCreated) Name() string { return EventNameQuizCreated }

type EventQuestionsAdded struct {
	QuizID    int64
	Questions []Question
}

func (EventQuestionsAdded) Name() string { return EventNameQuestionsAdded }

type EventSubmissionScored struct {
	QuizID  int64
	Summary Summary
}

func (EventSubmissionScored) Name() string { return EventNameSubmissionScored }
