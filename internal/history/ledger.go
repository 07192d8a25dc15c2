package history

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/klexam/portal/internal/quiz"
)

// DefaultCap bounds each ledger per identity; oldest entries are evicted first
// (plain FIFO, access never affects retention).
const DefaultCap = 50

// Service owns the two per-identity ledgers: generated-set history and
// quiz-result history. Each identity's ledgers are deserialized once per
// session; afterwards the in-memory copy is authoritative and persistence
// writes are best-effort: a failed save is logged and the session carries on.
type Service struct {
	store Store
	cap   int

	mu      sync.Mutex
	sets    map[string][]SetEntry
	results map[string][]quiz.Result
}

func NewService(store Store, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Service{
		store:   store,
		cap:     capacity,
		sets:    map[string][]SetEntry{},
		results: map[string][]quiz.Result{},
	}
}

// Sets returns the identity's generated-set ledger, newest first. An identity
// with nothing stored loads as an empty ledger, not an error.
func (s *Service) Sets(ctx context.Context, userID string) ([]SetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.setsLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SetEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *Service) setsLocked(ctx context.Context, userID string) ([]SetEntry, error) {
	if entries, ok := s.sets[userID]; ok {
		return entries, nil
	}
	entries, err := s.store.LoadSets(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.sets[userID] = entries
	return entries, nil
}

// AppendSet prepends the entry (newest-first order) and truncates to the cap.
func (s *Service) AppendSet(ctx context.Context, userID string, entry SetEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.setsLocked(ctx, userID)
	if err != nil {
		return err
	}
	entries = prependSet(entries, entry, s.cap)
	s.sets[userID] = entries
	s.saveSets(ctx, userID, entries)
	return nil
}

// RemoveSet deletes by id; removing an absent id is a no-op.
func (s *Service) RemoveSet(ctx context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.setsLocked(ctx, userID)
	if err != nil {
		return err
	}
	kept := entries[:0:len(entries)]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	s.sets[userID] = kept
	s.saveSets(ctx, userID, kept)
	return nil
}

// Results returns the identity's quiz-result ledger, newest first. The first
// load for an identity runs the repair pass: every stored result that still
// carries its questions and answers gets score and percentage recomputed under
// the current grading rule, and a corrected ledger is persisted back. The
// recomputation is pure and idempotent, so repairing already-correct data is
// harmless.
func (s *Service) Results(ctx context.Context, userID string) ([]quiz.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.resultsLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Result, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *Service) resultsLocked(ctx context.Context, userID string) ([]quiz.Result, error) {
	if entries, ok := s.results[userID]; ok {
		return entries, nil
	}
	entries, err := s.store.LoadResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	if repairResults(entries) {
		s.saveResults(ctx, userID, entries)
	}
	s.results[userID] = entries
	return entries, nil
}

// repairResults recomputes the derived fields in place and reports whether
// anything actually changed. Only Score and Percentage are touched.
func repairResults(entries []quiz.Result) bool {
	changed := false
	for i := range entries {
		r := &entries[i]
		if r.Questions == nil || r.UserAnswers == nil {
			continue
		}
		score := quiz.Grade(r.Questions, r.UserAnswers)
		pct := quiz.Percentage(score, r.TotalQuestions)
		if score != r.Score || pct != r.Percentage {
			r.Score = score
			r.Percentage = pct
			changed = true
		}
	}
	return changed
}

// AppendResult prepends a finalized result and truncates to the cap.
func (s *Service) AppendResult(ctx context.Context, userID string, r quiz.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.resultsLocked(ctx, userID)
	if err != nil {
		return err
	}
	entries = prependResult(entries, r, s.cap)
	s.results[userID] = entries
	s.saveResults(ctx, userID, entries)
	return nil
}

// RemoveResult deletes by id; idempotent when the id is absent.
func (s *Service) RemoveResult(ctx context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.resultsLocked(ctx, userID)
	if err != nil {
		return err
	}
	kept := entries[:0:len(entries)]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	s.results[userID] = kept
	s.saveResults(ctx, userID, kept)
	return nil
}

// Result fetches one stored result for the review screen; the snapshot alone
// is enough to reconstruct it, no bank re-fetch involved.
func (s *Service) Result(ctx context.Context, userID string, id int64) (quiz.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.resultsLocked(ctx, userID)
	if err != nil {
		return quiz.Result{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return quiz.Result{}, false, nil
}

// Stats folds over the result ledger on demand.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.resultsLocked(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Attempts: len(entries)}
	if len(entries) == 0 {
		st.AveragePercentage = "0.0"
		st.BestPercentage = "0.0"
		return st, nil
	}
	sum, best := 0.0, 0.0
	for _, e := range entries {
		pct, _ := strconv.ParseFloat(e.Percentage, 64)
		sum += pct
		if pct > best {
			best = pct
		}
		st.TotalQuestions += e.TotalQuestions
	}
	st.AveragePercentage = strconv.FormatFloat(sum/float64(len(entries)), 'f', 1, 64)
	st.BestPercentage = strconv.FormatFloat(best, 'f', 1, 64)
	return st, nil
}

// Persistence is fire-and-forget: the in-memory ledger stays authoritative and
// the caller's flow never aborts on a failed write.

func (s *Service) saveSets(ctx context.Context, userID string, entries []SetEntry) {
	if err := s.store.SaveSets(ctx, userID, entries); err != nil {
		log.Printf("history: save set ledger for %s: %v", userID, err)
	}
}

func (s *Service) saveResults(ctx context.Context, userID string, entries []quiz.Result) {
	if err := s.store.SaveResults(ctx, userID, entries); err != nil {
		log.Printf("history: save result ledger for %s: %v", userID, err)
	}
}

func prependSet(entries []SetEntry, e SetEntry, limit int) []SetEntry {
	out := append([]SetEntry{e}, entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func prependResult(entries []quiz.Result, r quiz.Result, limit int) []quiz.Result {
	out := append([]quiz.Result{r}, entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
