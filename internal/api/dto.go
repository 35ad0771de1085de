package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/quiz"
)

type CreateQuizRequest struct {
	Title string `json:"title"`
}

type QuizSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type QuizResponse struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

type AddQuestionsRequest struct {
	Questions []QuestionPayload `json:"questions"`
}

type QuestionPayload struct {
	Text          string          `json:"text"`
	Type          string          `json:"type"`
	Options       []OptionPayload `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
}

type OptionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionResponse struct {
	ID            int64            `json:"id"`
	Text          string           `json:"text"`
	Type          string           `json:"type"`
	Options       []OptionResponse `json:"options"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
}

type OptionResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerPayload `json:"answers"`
}

type AnswerPayload struct {
	QuestionID        int64     `json:"questionId"`
	SelectedOptionIDs OptionIDs `json:"selectedOptionIds"`
	TextAnswer        string    `json:"textAnswer"`
}

type SubmitAnswersResponse struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// OptionIDs decodes a selection that clients may send as a single scalar or
// as an array: 3, "3", [3, 5] and ["3", null, 5] are all accepted. Entries
// that cannot be coerced to a number are dropped rather than rejected.
type OptionIDs []int64

func (ids *OptionIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ids = nil
		return nil
	}

	if data[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}

		out := make(OptionIDs, 0, len(elems))
		for _, e := range elems {
			if id, ok := coerceID(e); ok {
				out = append(out, id)
			}
		}
		*ids = out
		return nil
	}

	if id, ok := coerceID(data); ok {
		*ids = OptionIDs{id}
	} else {
		*ids = nil
	}
	return nil
}

func coerceID(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			return v, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

func toQuestionInputs(payloads []QuestionPayload) []quiz.QuestionInput {
	out := make([]quiz.QuestionInput, 0, len(payloads))
	for _, p := range payloads {
		in := quiz.QuestionInput{
			Text:          p.Text,
			Type:          p.Type,
			CorrectAnswer: p.CorrectAnswer,
		}
		for _, o := range p.Options {
			in.Options = append(in.Options, quiz.OptionInput{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		out = append(out, in)
	}
	return out
}

func toQuizResponse(q domain.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:        q.QuizID,
		Title:     q.Title,
		Questions: make([]QuestionResponse, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(question))
	}
	return resp
}

func toQuestionResponse(q domain.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:            q.QuestionID,
		Text:          q.Text,
		Type:          string(q.Type),
		Options:       make([]OptionResponse, 0, len(q.Options)),
		CorrectAnswer: q.CorrectAnswer,
	}
	for _, o := range q.Options {
		resp.Options = append(resp.Options, OptionResponse{
			ID:        o.OptionID,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}
	return resp
}
