package http

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/quiz"
	"github.com/klexam/portal/internal/rbac"
)

type resultListItem struct {
	ID             int64  `json:"id"`
	FileName       string `json:"fileName"`
	Timestamp      string `json:"timestamp"`
	TotalQuestions int    `json:"totalQuestions"`
	Score          int    `json:"score"`
	Percentage     string `json:"percentage"`
	TimeElapsed    int    `json:"timeElapsed"`
	Unanswered     int    `json:"unanswered"`
	Incorrect      int    `json:"incorrect"`
	Grade          string `json:"grade"`
}

// GET /results?sort=date|score|time: the caller's attempts, repaired on
// first load, date-newest-first by default.
func ListResultsHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		entries, err := hist.Results(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		switch r.URL.Query().Get("sort") {
		case "score":
			sort.SliceStable(entries, func(i, j int) bool {
				pi, _ := strconv.ParseFloat(entries[i].Percentage, 64)
				pj, _ := strconv.ParseFloat(entries[j].Percentage, 64)
				return pi > pj
			})
		case "time":
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].TimeElapsed < entries[j].TimeElapsed
			})
		default: // date; ledger order is already newest first
		}

		items := make([]resultListItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, resultListItem{
				ID:             e.ID,
				FileName:       e.FileName,
				Timestamp:      e.Timestamp,
				TotalQuestions: e.TotalQuestions,
				Score:          e.Score,
				Percentage:     e.Percentage,
				TimeElapsed:    e.TimeElapsed,
				Unanswered:     e.Unanswered(),
				Incorrect:      e.Incorrect(),
				Grade:          quiz.GradeLetter(e.Percentage),
			})
		}
		writeJSON(w, 200, items)
	}
}

// GET /results/stats
func ResultStatsHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		stats, err := hist.Stats(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 200, stats)
	}
}

// GET /results/{id}: the full stored snapshot; the review screen renders
// from this record alone, no bank re-fetch.
func GetResultHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		sub := rbac.SubjectFromContext(r.Context())
		result, found, err := hist.Result(r.Context(), sub, id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if !found {
			http.Error(w, "result not found", 404)
			return
		}
		writeJSON(w, 200, finishResponse{
			Result:     result,
			Unanswered: result.Unanswered(),
			Incorrect:  result.Incorrect(),
			Grade:      quiz.GradeLetter(result.Percentage),
		})
	}
}

// DELETE /results/{id}: idempotent.
func DeleteResultHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		sub := rbac.SubjectFromContext(r.Context())
		if err := hist.RemoveResult(r.Context(), sub, id); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
