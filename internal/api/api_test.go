package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizkit/quizkit/internal/api"
	"github.com/quizkit/quizkit/internal/event"
	"github.com/quizkit/quizkit/internal/quiz"
	"github.com/quizkit/quizkit/internal/store"
)

func TestAPI_EndToEnd(t *testing.T) {
	e := makeEngine(t)

	// Create the quiz.
	w := doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, int64(1), created.ID)

	// Attach one question of each type in a single batch.
	w = doJSON(t, e, http.MethodPost, "/quizzes/1/questions", `{
		"questions": [
			{
				"text": "Which option is A?",
				"type": "single_choice",
				"options": [
					{"text": "A", "isCorrect": true},
					{"text": "B"}
				]
			},
			{
				"text": "Pick the primes",
				"type": "multiple_choice",
				"options": [
					{"text": "2", "isCorrect": true},
					{"text": "3", "isCorrect": true},
					{"text": "4"},
					{"text": "5", "isCorrect": true}
				]
			},
			{
				"text": "Largest planet?",
				"type": "text",
				"correctAnswer": "jupiter"
			}
		]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// The multiple-choice question got ID 2 and its primes got option IDs
	// 1..4, so the correct selection {2,3,5} maps to option IDs {1,2,4}.
	w = doJSON(t, e, http.MethodPost, "/quizzes/1/submit", `{
		"answers": [
			{"questionId": 1, "selectedOptionIds": 1},
			{"questionId": 2, "selectedOptionIds": [1, 2, 4]},
			{"questionId": 3, "textAnswer": "jupitr"}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score": 3, "total": 3}`, w.Body.String())

	// All-wrong submission: option B, a wrong option set, an unrelated word.
	w = doJSON(t, e, http.MethodPost, "/quizzes/1/submit", `{
		"answers": [
			{"questionId": 1, "selectedOptionIds": [2]},
			{"questionId": 2, "selectedOptionIds": [1, 3]},
			{"questionId": 3, "textAnswer": "saturn"}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score": 0, "total": 3}`, w.Body.String())
}

func TestAPI_ListQuizzes(t *testing.T) {
	e := makeEngine(t)

	w := doJSON(t, e, http.MethodGet, "/quizzes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quizzes": []}`, w.Body.String())

	doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)
	doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "Math"}`)

	w = doJSON(t, e, http.MethodGet, "/quizzes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quizzes": [{"id": 1, "title": "GK"}, {"id": 2, "title": "Math"}]}`, w.Body.String())
}

func TestAPI_CreateQuiz_Failures(t *testing.T) {
	e := makeEngine(t)

	tests := map[string]struct {
		body       string
		wantStatus int
		wantCode   string
	}{
		"missing title":    {body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "validation"},
		"blank title":      {body: `{"title": "   "}`, wantStatus: http.StatusBadRequest, wantCode: "validation"},
		"non-string title": {body: `{"title": 12}`, wantStatus: http.StatusBadRequest, wantCode: "validation"},
		"not json":         {body: `title=GK`, wantStatus: http.StatusBadRequest, wantCode: "validation"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, e, http.MethodPost, "/quizzes", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}

	t.Run("duplicate title", func(t *testing.T) {
		w := doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "math quiz"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "Math Quiz"}`)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_title", errorCode(t, w))
	})
}

func TestAPI_AddQuestions_Failures(t *testing.T) {
	e := makeEngine(t)

	w := doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := map[string]struct {
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		"unknown quiz": {
			path:       "/quizzes/404/questions",
			body:       `{"questions": [{"text": "?", "type": "text", "correctAnswer": "x"}]}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "quiz_not_found",
		},
		"non-numeric quiz ID": {
			path:       "/quizzes/abc/questions",
			body:       `{"questions": [{"text": "?", "type": "text", "correctAnswer": "x"}]}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "quiz_not_found",
		},
		"empty batch": {
			path:       "/quizzes/1/questions",
			body:       `{"questions": []}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "empty_batch",
		},
		"missing questions field": {
			path:       "/quizzes/1/questions",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "empty_batch",
		},
		"unknown question type": {
			path:       "/quizzes/1/questions",
			body:       `{"questions": [{"text": "?", "type": "essay"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation",
		},
		"single choice with no correct option": {
			path: "/quizzes/1/questions",
			body: `{"questions": [{"text": "?", "type": "single_choice",
				"options": [{"text": "A"}, {"text": "B"}]}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, e, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAPI_ListQuestions(t *testing.T) {
	e := makeEngine(t)

	w := doJSON(t, e, http.MethodGet, "/quizzes/1/questions", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)

	w = doJSON(t, e, http.MethodGet, "/quizzes/1/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"questions": []}`, w.Body.String())

	doJSON(t, e, http.MethodPost, "/quizzes/1/questions", `{
		"questions": [{
			"text": "Which option is A?",
			"type": "single_choice",
			"options": [{"text": "A", "isCorrect": true}, {"text": "B"}]
		}]
	}`)

	w = doJSON(t, e, http.MethodGet, "/quizzes/1/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"questions": [{
			"id": 1,
			"text": "Which option is A?",
			"type": "single_choice",
			"options": [
				{"id": 1, "text": "A", "isCorrect": true},
				{"id": 2, "text": "B", "isCorrect": false}
			]
		}]
	}`, w.Body.String())
}

func TestAPI_SubmitAnswers_Failures(t *testing.T) {
	e := makeEngine(t)

	doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)

	tests := map[string]struct {
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		"unknown quiz": {
			path:       "/quizzes/404/submit",
			body:       `{"answers": []}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "quiz_not_found",
		},
		"missing answers field": {
			path:       "/quizzes/1/submit",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "malformed_answers",
		},
		"answers not an array": {
			path:       "/quizzes/1/submit",
			body:       `{"answers": "A"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "malformed_answers",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, e, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}

	t.Run("empty quiz scores zero of zero", func(t *testing.T) {
		w := doJSON(t, e, http.MethodPost, "/quizzes/1/submit", `{"answers": []}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"score": 0, "total": 0}`, w.Body.String())
	})
}

func TestAPI_Reset(t *testing.T) {
	e := makeEngine(t)

	doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)

	w := doJSON(t, e, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, e, http.MethodGet, "/quizzes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quizzes": []}`, w.Body.String())

	// Counters restart at 1 after a reset.
	w = doJSON(t, e, http.MethodPost, "/quizzes", `{"title": "GK"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
}

func TestOptionIDs_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want api.OptionIDs
	}{
		{name: "scalar number", in: `3`, want: api.OptionIDs{3}},
		{name: "scalar numeric string", in: `"3"`, want: api.OptionIDs{3}},
		{name: "array of numbers", in: `[3, 5]`, want: api.OptionIDs{3, 5}},
		{name: "mixed array", in: `["3", null, 5, "x"]`, want: api.OptionIDs{3, 5}},
		{name: "null", in: `null`, want: nil},
		{name: "empty array", in: `[]`, want: api.OptionIDs{}},
		{name: "non-numeric scalar", in: `"abc"`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids api.OptionIDs
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ids))
			assert.Equal(t, tt.want, ids)
		})
	}
}

func makeEngine(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(gin.Recovery(), api.RequestID())

	eb := event.NewBus()
	t.Cleanup(eb.Stop)

	api.New(api.Config{
		Engine: e,
		Quiz: quiz.NewService(quiz.Config{
			Store:    store.NewMemory(),
			EventBus: eb,
		}),
		EnableReset: true,
	})

	return e
}

func doJSON(t *testing.T, e *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}
