package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/klexam/portal/internal/bank"
	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/rbac"
)

// GET /exams: the predefined entrance-exam presets.
func ListExamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, bank.Exams)
	}
}

// POST /sets  { "exam": "KLEEE", "fileName": "SET-1A" }
// Samples a fresh working set per the exam's subject distribution and records
// the snapshot in the caller's set ledger.
func GenerateSetHandler(provider *bank.Provider, hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Exam     string `json:"exam"`
			FileName string `json:"fileName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		exam, ok := bank.FindExam(req.Exam)
		if !ok {
			http.Error(w, "unknown exam", 400)
			return
		}
		fileName := strings.TrimSpace(req.FileName)
		if fileName == "" {
			fileName = "SET-1A"
		}

		questions, err := provider.BuildExamSet(exam)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		entry := history.SetEntry{
			ID:        time.Now().UnixMilli(),
			FileName:  fileName,
			Questions: questions,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		sub := rbac.SubjectFromContext(r.Context())
		if err := hist.AppendSet(r.Context(), sub, entry); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 201, entry)
	}
}

type setListItem struct {
	ID            int64          `json:"id"`
	FileName      string         `json:"fileName"`
	Timestamp     string         `json:"timestamp"`
	QuestionCount int            `json:"questionCount"`
	SubjectCounts map[string]int `json:"subjectCounts"`
}

// GET /sets: the caller's generation history, newest first.
func ListSetsHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		entries, err := hist.Sets(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		items := make([]setListItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, setListItem{
				ID:            e.ID,
				FileName:      e.FileName,
				Timestamp:     e.Timestamp,
				QuestionCount: len(e.Questions),
				SubjectCounts: e.SubjectCounts(),
			})
		}
		writeJSON(w, 200, items)
	}
}

// GET /sets/{id}: the full stored snapshot (for reloading a past set).
func GetSetHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		sub := rbac.SubjectFromContext(r.Context())
		entries, err := hist.Sets(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		for _, e := range entries {
			if e.ID == id {
				writeJSON(w, 200, e)
				return
			}
		}
		http.Error(w, "set not found", 404)
	}
}

// DELETE /sets/{id}: idempotent.
func DeleteSetHandler(hist *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		sub := rbac.SubjectFromContext(r.Context())
		if err := hist.RemoveSet(r.Context(), sub, id); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
