// Package score grades submitted answers against a quiz.
//
// Scoring never fails: answers that reference unknown questions or carry
// shapes the question type cannot use contribute zero instead of aborting
// the submission.
package score

import (
	"sort"
	"strings"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/fuzzy"
)

// Answer is one submitted answer record. SelectedOptionIDs carries the
// selection for choice questions, TextAnswer the free-text response.
type Answer struct {
	QuestionID        int64
	SelectedOptionIDs []int64
	TextAnswer        string
}

// TextMatcher judges whether a free-text candidate matches the target answer.
type TextMatcher interface {
	Match(target, candidate string) bool
}

type Config struct {
	// Matcher grades free-text answers that miss the substring check.
	// Defaults to a fuzzy matcher at fuzzy.DefaultThreshold.
	Matcher TextMatcher
}

type Engine struct {
	matcher TextMatcher
}

func NewEngine(c Config) *Engine {
	if c.Matcher == nil {
		c.Matcher = fuzzy.NewMatcher(fuzzy.DefaultThreshold)
	}

	return &Engine{matcher: c.Matcher}
}

// Score awards one point per correctly answered question. Total is the
// quiz's question count; a quiz without questions short-circuits to 0/0.
func (e *Engine) Score(quiz domain.Quiz, answers []Answer) domain.Summary {
	total := len(quiz.Questions)
	if total == 0 {
		return domain.Summary{Score: 0, Total: 0}
	}

	score := 0
	for _, ans := range answers {
		q, ok := findQuestion(quiz, ans.QuestionID)
		if !ok {
			continue
		}

		switch q.Type {
		case domain.TypeSingleChoice:
			if e.scoreSingleChoice(q, ans) {
				score++
			}
		case domain.TypeMultipleChoice:
			if e.scoreMultipleChoice(q, ans) {
				score++
			}
		case domain.TypeText:
			if e.scoreText(q, ans) {
				score++
			}
		}
	}

	return domain.Summary{Score: score, Total: total}
}

func findQuestion(quiz domain.Quiz, id int64) (domain.Question, bool) {
	for _, q := range quiz.Questions {
		if q.QuestionID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// scoreSingleChoice awards the point iff the first selected ID names an
// option flagged correct.
func (*Engine) scoreSingleChoice(q domain.Question, ans Answer) bool {
	if len(ans.SelectedOptionIDs) == 0 {
		return false
	}

	selected := ans.SelectedOptionIDs[0]
	for _, o := range q.Options {
		if o.IsCorrect && o.OptionID == selected {
			return true
		}
	}
	return false
}

// scoreMultipleChoice awards the point iff the submitted selection, treated
// as a set, equals the set of correct option IDs. No partial credit.
func (*Engine) scoreMultipleChoice(q domain.Question, ans Answer) bool {
	selected := normalizeSelection(ans.SelectedOptionIDs)
	correct := q.CorrectOptionIDs()
	sort.Slice(correct, func(i, j int) bool { return correct[i] < correct[j] })

	if len(selected) != len(correct) {
		return false
	}
	for i := range selected {
		if selected[i] != correct[i] {
			return false
		}
	}
	return len(correct) > 0
}

// normalizeSelection drops zero IDs, collapses duplicates and sorts ascending.
func normalizeSelection(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// scoreText awards the point when the normalized submission contains the
// normalized correct answer, or when the fuzzy matcher accepts it. A question
// whose correct answer is blank after normalization is skipped as malformed.
func (e *Engine) scoreText(q domain.Question, ans Answer) bool {
	submitted := fuzzy.Normalize(ans.TextAnswer)
	correct := fuzzy.Normalize(q.CorrectAnswer)

	if correct == "" {
		return false
	}

	if strings.Contains(submitted, correct) {
		return true
	}

	return e.matcher.Match(correct, submitted)
}
