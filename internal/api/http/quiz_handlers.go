package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/klexam/portal/internal/bank"
	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/quiz"
	"github.com/klexam/portal/internal/rbac"
)

type quizState struct {
	QuizID           string         `json:"quizId"`
	FileName         string         `json:"fileName"`
	State            string         `json:"state"`
	TotalQuestions   int            `json:"totalQuestions"`
	CurrentIndex     int            `json:"currentIndex"`
	Tentative        string         `json:"tentative,omitempty"`
	Question         questionView   `json:"question"`
	Answers          quiz.AnswerMap `json:"answers"`
	AttemptedCount   int            `json:"attemptedCount"`
	FirstUnanswered  int            `json:"firstUnanswered"`
	ElapsedSeconds   int            `json:"elapsedSeconds"`
	RemainingSeconds int            `json:"remainingSeconds"`
}

func stateOf(sess *quiz.Session) quizState {
	e := sess.Engine
	q, _ := e.CurrentQuestion()
	return quizState{
		QuizID:           sess.ID,
		FileName:         e.FileName(),
		State:            e.State().String(),
		TotalQuestions:   e.TotalQuestions(),
		CurrentIndex:     e.CurrentIndex(),
		Tentative:        e.Tentative(),
		Question:         viewOf(q, e.CurrentIndex()),
		Answers:          e.Answers(),
		AttemptedCount:   e.AttemptedCount(),
		FirstUnanswered:  e.FirstUnanswered(),
		ElapsedSeconds:   e.ElapsedSeconds(),
		RemainingSeconds: e.RemainingSeconds(),
	}
}

// POST /quizzes  { "fileName": "...", "setId": 123 }
// With a setId the quiz runs over a previously generated snapshot from the
// caller's set ledger; otherwise a fresh practice mix is assembled.
func StartQuizHandler(provider *bank.Provider, sessions *quiz.Sessions, hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileName string `json:"fileName"`
			SetID    int64  `json:"setId"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		sub := rbac.SubjectFromContext(r.Context())

		var questions []bank.Question
		fileName := strings.TrimSpace(req.FileName)
		if req.SetID != 0 {
			entries, err := hist.Sets(r.Context(), sub)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			for _, e := range entries {
				if e.ID == req.SetID {
					questions = e.Questions
					if fileName == "" {
						fileName = e.FileName
					}
					break
				}
			}
			if questions == nil {
				http.Error(w, "set not found", 404)
				return
			}
		} else {
			var err error
			questions, err = provider.BuildSet(bank.PracticeMix)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			if fileName == "" {
				fileName = "Practice Quiz"
			}
		}

		engine := quiz.NewEngine(questions, fileName)
		engine.Start()
		sess := sessions.Create(sub, engine)
		writeJSON(w, 201, stateOf(sess))
	}
}

// GET /quizzes/{quizID}
func QuizStateHandler(sessions *quiz.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(sessions, r)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		writeJSON(w, 200, stateOf(sess))
	}
}

// POST /quizzes/{quizID}/answer  { "letter": "C" }
// Records the tentative selection only; it commits on navigation or finish.
func AnswerHandler(sessions *quiz.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(sessions, r)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		var req struct {
			Letter string `json:"letter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess.Engine.SelectAnswer(strings.ToUpper(strings.TrimSpace(req.Letter)))
		writeJSON(w, 200, stateOf(sess))
	}
}

// POST /quizzes/{quizID}/navigate  { "op": "next"|"previous"|"goto"|"first-unanswered", "index": 5 }
func NavigateHandler(sessions *quiz.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(sessions, r)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		var req struct {
			Op    string `json:"op"`
			Index int    `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		e := sess.Engine
		switch req.Op {
		case "next":
			e.Next()
		case "previous":
			e.Previous()
		case "goto":
			e.GoTo(req.Index)
		case "first-unanswered":
			if i := e.FirstUnanswered(); i != -1 {
				e.GoTo(i)
			}
		default:
			http.Error(w, "unknown op", 400)
			return
		}
		writeJSON(w, 200, stateOf(sess))
	}
}

type finishResponse struct {
	quiz.Result
	Unanswered int    `json:"unanswered"`
	Incorrect  int    `json:"incorrect"`
	Grade      string `json:"grade"`
}

// POST /quizzes/{quizID}/finish: one-way: finalizes, appends the result to
// the caller's ledger (best effort) and tears the session down.
func FinishHandler(sessions *quiz.Sessions, hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(sessions, r)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		result := sess.Engine.Finish()
		sub := rbac.SubjectFromContext(r.Context())
		if err := hist.AppendResult(r.Context(), sub, result); err != nil {
			// The result still goes back to the caller; history is best effort.
			log.Printf("append quiz result for %s: %v", sub, err)
		}
		sessions.Remove(sess.ID)
		writeJSON(w, 200, finishResponse{
			Result:     result,
			Unanswered: result.Unanswered(),
			Incorrect:  result.Incorrect(),
			Grade:      quiz.GradeLetter(result.Percentage),
		})
	}
}

// DELETE /quizzes/{quizID}: early teardown; releases the timer, no result.
func CloseQuizHandler(sessions *quiz.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(sessions, r)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		sessions.Remove(sess.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func lookup(sessions *quiz.Sessions, r *http.Request) (*quiz.Session, error) {
	return sessions.Get(chi.URLParam(r, "quizID"), rbac.SubjectFromContext(r.Context()))
}
