package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/klexam/portal/internal/bank"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

// questionView is the student-safe projection of one question: the correct
// answer never leaves the server while an attempt is live.
type questionView struct {
	Index         int       `json:"index"`
	Subject       string    `json:"subject,omitempty"`
	SubjectNumber int       `json:"subjectSequenceNumber,omitempty"`
	Question      string    `json:"question"`
	Options       [4]string `json:"options"`
}

func viewOf(q bank.Question, index int) questionView {
	return questionView{
		Index:         index,
		Subject:       q.Subject,
		SubjectNumber: q.SubjectNumber,
		Question:      q.Text,
		Options:       q.Options,
	}
}
