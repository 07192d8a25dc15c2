package history

import (
	"context"

	"github.com/klexam/portal/internal/bank"
	"github.com/klexam/portal/internal/quiz"
)

// SetEntry is one generated-set snapshot.
type SetEntry struct {
	ID        int64           `json:"id"`
	FileName  string          `json:"fileName"`
	Questions []bank.Question `json:"questions"`
	Timestamp string          `json:"timestamp"` // RFC3339
}

// SubjectCounts reports how many questions each subject contributed.
func (e SetEntry) SubjectCounts() map[string]int {
	counts := map[string]int{}
	for _, q := range e.Questions {
		counts[q.Subject]++
	}
	return counts
}

// Stats is the on-demand fold over the quiz-result ledger. Nothing here is
// stored; it is recomputed whenever displayed.
type Stats struct {
	Attempts          int    `json:"attempts"`
	AveragePercentage string `json:"averagePercentage"`
	BestPercentage    string `json:"bestPercentage"`
	TotalQuestions    int    `json:"totalQuestions"`
}

// Store is the injected persistence behind the ledgers. Save replaces the
// whole ledger for one identity; Load yields an empty slice (nil error) when
// the identity has nothing stored. Implementations: memory, fs, sql.
type Store interface {
	LoadSets(ctx context.Context, userID string) ([]SetEntry, error)
	SaveSets(ctx context.Context, userID string, entries []SetEntry) error
	LoadResults(ctx context.Context, userID string) ([]quiz.Result, error)
	SaveResults(ctx context.Context, userID string, entries []quiz.Result) error
}
