// Package api exposes the quiz operations over HTTP.
//
// The handlers translate payloads into typed requests for the quiz service
// and failure codes into status codes; no domain rule lives here.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizkit/quizkit/internal/errors"
	"github.com/quizkit/quizkit/internal/quiz"
	"github.com/quizkit/quizkit/internal/score"
)

type Config struct {
	Engine *gin.Engine
	Quiz   *quiz.Service

	// EnableReset registers POST /reset, the teardown hook test runs use
	// to clear the store between runs. Keep it off outside test setups.
	EnableReset bool
}

type API struct {
	qs *quiz.Service
}

func New(c Config) *API {
	a := &API{qs: c.Quiz}

	e := c.Engine
	e.GET("/quizzes", a.ListQuizzes)
	e.POST("/quizzes", a.CreateQuiz)
	e.GET("/quizzes/:quizId/questions", a.ListQuestions)
	e.POST("/quizzes/:quizId/questions", a.AddQuestions)
	e.POST("/quizzes/:quizId/submit", a.SubmitAnswers)

	if c.EnableReset {
		e.POST("/reset", a.Reset)
	}

	return a
}

func (a *API) ListQuizzes(c *gin.Context) {
	quizzes, err := a.qs.ListQuizzes(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	out := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, QuizSummary{ID: q.QuizID, Title: q.Title})
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": out})
}

func (a *API) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, errors.New(errors.CodeValidation,
			errors.WithMessagef("Quiz title is required"),
			errors.WithCause(err)))
		return
	}

	created, err := a.qs.CreateQuiz(c.Request.Context(), quiz.CreateQuizRequest{Title: req.Title})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuizResponse(*created))
}

func (a *API) AddQuestions(c *gin.Context) {
	quizID, err := quizIDParam(c)
	if err != nil {
		renderError(c, err)
		return
	}

	var req AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, errors.New(errors.CodeValidation,
			errors.WithMessagef("invalid question payload"),
			errors.WithCause(err)))
		return
	}

	added, err := a.qs.AddQuestions(c.Request.Context(), quiz.AddQuestionsRequest{
		QuizID:    quizID,
		Questions: toQuestionInputs(req.Questions),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	out := make([]QuestionResponse, 0, len(added))
	for _, q := range added {
		out = append(out, toQuestionResponse(q))
	}

	c.JSON(http.StatusCreated, gin.H{"questions": out})
}

func (a *API) ListQuestions(c *gin.Context) {
	quizID, err := quizIDParam(c)
	if err != nil {
		renderError(c, err)
		return
	}

	questions, err := a.qs.ListQuestions(c.Request.Context(), quiz.ListQuestionsRequest{QuizID: quizID})
	if err != nil {
		renderError(c, err)
		return
	}

	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionResponse(q))
	}

	c.JSON(http.StatusOK, gin.H{"questions": out})
}

func (a *API) SubmitAnswers(c *gin.Context) {
	quizID, err := quizIDParam(c)
	if err != nil {
		renderError(c, err)
		return
	}

	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, errors.New(errors.CodeMalformedAnswers,
			errors.WithMessagef("answers must be an array"),
			errors.WithCause(err)))
		return
	}
	if req.Answers == nil {
		renderError(c, errors.New(errors.CodeMalformedAnswers,
			errors.WithMessagef("answers must be an array")))
		return
	}

	answers := make([]score.Answer, 0, len(req.Answers))
	for _, ans := range req.Answers {
		answers = append(answers, score.Answer{
			QuestionID:        ans.QuestionID,
			SelectedOptionIDs: ans.SelectedOptionIDs,
			TextAnswer:        ans.TextAnswer,
		})
	}

	resp, err := a.qs.SubmitAnswers(c.Request.Context(), quiz.SubmitAnswersRequest{
		QuizID:  quizID,
		Answers: answers,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitAnswersResponse{
		Score: resp.Summary.Score,
		Total: resp.Summary.Total,
	})
}

func (a *API) Reset(c *gin.Context) {
	if err := a.qs.Reset(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// quizIDParam parses the :quizId path segment. Anything that is not a
// number cannot name a stored quiz, so it reports not-found, matching
// the lookup behavior for valid-but-unknown IDs.
func quizIDParam(c *gin.Context) (int64, error) {
	raw := c.Param("quizId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(errors.CodeQuizNotFound,
			errors.WithMessagef("quiz %q not found", raw),
			errors.WithCause(err))
	}

	return id, nil
}

func renderError(c *gin.Context, err error) {
	e := errors.Convert(err)
	if e.Code == errors.CodeInternal {
		slog.ErrorContext(c.Request.Context(), "api: request failed", "error", err)
	}

	c.JSON(e.HTTPStatusCode(), gin.H{"error": e})
}
