package quiz

import (
	"fmt"
	"math"
	"time"

	"github.com/klexam/portal/internal/bank"
)

// AnswerMap maps 0-based question index to the selected option letter (A-D).
// Unanswered indices are simply absent. encoding/json renders the int keys as
// strings, which is the persisted wire shape.
type AnswerMap map[int]string

// Result is one finalized quiz attempt. Built exactly once at finish time and
// immutable afterwards, except that the history repair pass may overwrite Score
// and Percentage when the scoring rule has moved since the result was stored.
type Result struct {
	ID             int64           `json:"id"`
	FileName       string          `json:"fileName"`
	TotalQuestions int             `json:"totalQuestions"`
	Score          int             `json:"score"`
	Percentage     string          `json:"percentage"`
	TimeElapsed    int             `json:"timeElapsed"` // seconds
	Timestamp      string          `json:"timestamp"`   // RFC3339, completion time
	StartTime      string          `json:"startTime,omitempty"`
	Questions      []bank.Question `json:"questions"`
	UserAnswers    AnswerMap       `json:"userAnswers"`
}

// AnswerText resolves a selected letter to the literal option text via the
// fixed mapping A-D -> options[0..3]. An absent or unrecognized letter reports
// ok=false and must never be compared against the correct answer, so a bank
// row with an empty answer string cannot silently grade an unanswered question
// as correct.
func AnswerText(q bank.Question, letter string) (string, bool) {
	switch letter {
	case "A":
		return q.Options[0], true
	case "B":
		return q.Options[1], true
	case "C":
		return q.Options[2], true
	case "D":
		return q.Options[3], true
	default:
		return "", false
	}
}

// Grade counts the questions whose resolved answer text equals the stored
// correct-answer text exactly. No normalization: a bank row whose answer string
// matches none of its options never grades as correct.
func Grade(questions []bank.Question, answers AnswerMap) int {
	score := 0
	for i, q := range questions {
		text, ok := AnswerText(q, answers[i])
		if ok && text == q.Answer {
			score++
		}
	}
	return score
}

// Percentage formats 100*score/total with exactly one fraction digit, rounding
// half away from zero. A zero-question quiz scores "0.0".
func Percentage(score, total int) string {
	if total == 0 {
		return "0.0"
	}
	pct := 100 * float64(score) / float64(total)
	return fmt.Sprintf("%.1f", math.Round(pct*10)/10)
}

// Answered reports how many in-range indices carry a recognized letter.
func Answered(questions []bank.Question, answers AnswerMap) int {
	n := 0
	for i := range questions {
		if _, ok := AnswerText(questions[i], answers[i]); ok {
			n++
		}
	}
	return n
}

// Unanswered is the separate derived figure shown next to the score; it is not
// part of Score or Percentage (unanswered always grades as incorrect there).
func (r Result) Unanswered() int {
	return r.TotalQuestions - Answered(r.Questions, r.UserAnswers)
}

// Incorrect derives from the answered count, never from total-score-unanswered,
// so unanswered questions cannot be double-subtracted.
func (r Result) Incorrect() int {
	return Answered(r.Questions, r.UserAnswers) - r.Score
}

// GradeLetter buckets a percentage string into the report-card letter.
func GradeLetter(percentage string) string {
	var pct float64
	fmt.Sscanf(percentage, "%f", &pct)
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}

// BuildResult produces the immutable finalized record. Inputs are never
// mutated; the questions and answers carried by the result are independent
// copies with no aliasing back into live engine state.
func BuildResult(questions []bank.Question, answers AnswerMap, elapsedSec int, fileName string, startedAt time.Time) Result {
	qs := make([]bank.Question, len(questions))
	copy(qs, questions)
	am := make(AnswerMap, len(answers))
	for k, v := range answers {
		am[k] = v
	}
	score := Grade(qs, am)
	now := time.Now()
	return Result{
		ID:             now.UnixMilli(),
		FileName:       fileName,
		TotalQuestions: len(qs),
		Score:          score,
		Percentage:     Percentage(score, len(qs)),
		TimeElapsed:    elapsedSec,
		Timestamp:      now.UTC().Format(time.RFC3339),
		StartTime:      startedAt.UTC().Format(time.RFC3339),
		Questions:      qs,
		UserAnswers:    am,
	}
}
