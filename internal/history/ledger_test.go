package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/klexam/portal/internal/bank"
	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/quiz"
)

func setEntry(id int64) history.SetEntry {
	return history.SetEntry{
		ID:        id,
		FileName:  fmt.Sprintf("SET-%d", id),
		Questions: []bank.Question{{Text: "q", Options: [4]string{"a", "b", "c", "d"}, Answer: "a"}},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func result(id int64, score int) quiz.Result {
	qs := []bank.Question{
		{Text: "q0", Options: [4]string{"a0", "b0", "c0", "d0"}, Answer: "a0"},
		{Text: "q1", Options: [4]string{"a1", "b1", "c1", "d1"}, Answer: "b1"},
	}
	answers := quiz.AnswerMap{0: "A", 1: "A"} // one right, one wrong
	return quiz.Result{
		ID:             id,
		FileName:       "SET-1A",
		TotalQuestions: len(qs),
		Score:          score,
		Percentage:     quiz.Percentage(score, len(qs)),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Questions:      qs,
		UserAnswers:    answers,
	}
}

func TestAbsentIdentityLoadsEmpty(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 0)
	ctx := context.Background()

	sets, err := svc.Sets(ctx, "nobody")
	if err != nil {
		t.Fatalf("Sets: %v", err)
	}
	if len(sets) != 0 {
		t.Fatalf("sets = %d entries, want 0", len(sets))
	}
	results, err := svc.Results(ctx, "nobody")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %d entries, want 0", len(results))
	}
}

func TestAppendEvictsOldestAtCap(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 50)
	ctx := context.Background()

	for i := 1; i <= 55; i++ {
		if err := svc.AppendSet(ctx, "u", setEntry(int64(i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	sets, err := svc.Sets(ctx, "u")
	if err != nil {
		t.Fatalf("Sets: %v", err)
	}
	if len(sets) != 50 {
		t.Fatalf("ledger holds %d entries, want 50", len(sets))
	}
	// Newest first; the five oldest (ids 1-5) are gone.
	if sets[0].ID != 55 || sets[49].ID != 6 {
		t.Fatalf("retained range [%d..%d], want [55..6]", sets[0].ID, sets[49].ID)
	}
}

func TestAppendResultOrdering(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 50)
	ctx := context.Background()

	for _, id := range []int64{10, 20, 30} {
		if err := svc.AppendResult(ctx, "u", result(id, 1)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	results, err := svc.Results(ctx, "u")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results[0].ID != 30 || results[2].ID != 10 {
		t.Fatalf("order = %d,%d,%d, want 30,20,10", results[0].ID, results[1].ID, results[2].ID)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 50)
	ctx := context.Background()

	if err := svc.AppendSet(ctx, "u", setEntry(1)); err != nil {
		t.Fatalf("append: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := svc.RemoveSet(ctx, "u", 1); err != nil {
			t.Fatalf("remove pass %d: %v", i, err)
		}
	}
	if err := svc.RemoveSet(ctx, "u", 999); err != nil {
		t.Fatalf("remove absent id: %v", err)
	}
	sets, _ := svc.Sets(ctx, "u")
	if len(sets) != 0 {
		t.Fatalf("ledger holds %d entries after removal, want 0", len(sets))
	}

	if err := svc.AppendResult(ctx, "u", result(7, 1)); err != nil {
		t.Fatalf("append result: %v", err)
	}
	if err := svc.RemoveResult(ctx, "u", 7); err != nil {
		t.Fatalf("remove result: %v", err)
	}
	if err := svc.RemoveResult(ctx, "u", 7); err != nil {
		t.Fatalf("repeat remove result: %v", err)
	}
}

func TestRepairRecomputesStoredResults(t *testing.T) {
	store := history.NewMemoryStore()
	ctx := context.Background()

	// Seed a stored result whose derived fields disagree with its own
	// questions and answers (one of two is actually correct).
	stale := result(1, 1)
	stale.Score = 2
	stale.Percentage = "99.9"
	if err := store.SaveResults(ctx, "u", []quiz.Result{stale}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := history.NewService(store, 50)
	results, err := svc.Results(ctx, "u")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results[0].Score != 1 || results[0].Percentage != "50.0" {
		t.Fatalf("repaired = (%d,%s), want (1,50.0)", results[0].Score, results[0].Percentage)
	}

	// The correction was written back: a fresh service over the same store
	// sees identical values, and a second repair changes nothing.
	persisted, err := store.LoadResults(ctx, "u")
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if persisted[0].Score != 1 || persisted[0].Percentage != "50.0" {
		t.Fatalf("persisted = (%d,%s), want (1,50.0)", persisted[0].Score, persisted[0].Percentage)
	}
	svc2 := history.NewService(store, 50)
	again, err := svc2.Results(ctx, "u")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again[0].Score != results[0].Score || again[0].Percentage != results[0].Percentage {
		t.Fatalf("repair not idempotent: (%d,%s) vs (%d,%s)",
			results[0].Score, results[0].Percentage, again[0].Score, again[0].Percentage)
	}
}

func TestRepairSkipsSnapshotlessResults(t *testing.T) {
	store := history.NewMemoryStore()
	ctx := context.Background()

	bare := quiz.Result{ID: 1, TotalQuestions: 10, Score: 7, Percentage: "70.0"}
	if err := store.SaveResults(ctx, "u", []quiz.Result{bare}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := history.NewService(store, 50)
	results, err := svc.Results(ctx, "u")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results[0].Score != 7 || results[0].Percentage != "70.0" {
		t.Fatalf("repair touched a result without its snapshot: %+v", results[0])
	}
}

func TestResultLookup(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 50)
	ctx := context.Background()

	want := result(42, 1)
	if err := svc.AppendResult(ctx, "u", want); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, ok, err := svc.Result(ctx, "u", 42)
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if got.ID != 42 || got.FileName != "SET-1A" {
		t.Fatalf("lookup returned %+v", got)
	}
	if _, ok, _ := svc.Result(ctx, "u", 99); ok {
		t.Fatal("lookup found an absent id")
	}
}

func TestStatsFold(t *testing.T) {
	svc := history.NewService(history.NewMemoryStore(), 50)
	ctx := context.Background()

	empty, err := svc.Stats(ctx, "u")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if empty.Attempts != 0 || empty.AveragePercentage != "0.0" || empty.BestPercentage != "0.0" {
		t.Fatalf("empty stats = %+v", empty)
	}

	a := result(1, 1) // 50.0
	b := result(2, 2) // 100.0
	b.UserAnswers = quiz.AnswerMap{0: "A", 1: "B"}
	for _, r := range []quiz.Result{a, b} {
		if err := svc.AppendResult(ctx, "u", r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	st, err := svc.Stats(ctx, "u")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Attempts != 2 || st.AveragePercentage != "75.0" || st.BestPercentage != "100.0" {
		t.Fatalf("stats = %+v", st)
	}
	if st.TotalQuestions != 4 {
		t.Fatalf("total questions = %d, want 4", st.TotalQuestions)
	}
}

func TestSubjectCounts(t *testing.T) {
	e := history.SetEntry{Questions: []bank.Question{
		{Subject: "Physics"}, {Subject: "Physics"}, {Subject: "Chemistry"},
	}}
	counts := e.SubjectCounts()
	if counts["Physics"] != 2 || counts["Chemistry"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
