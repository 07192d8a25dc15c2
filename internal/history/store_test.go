package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/klexam/portal/internal/db"
	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/quiz"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := history.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	// Absent identity: empty ledger, no error.
	sets, err := store.LoadSets(ctx, "ghost")
	if err != nil {
		t.Fatalf("LoadSets: %v", err)
	}
	if len(sets) != 0 {
		t.Fatalf("ghost ledger = %d entries", len(sets))
	}

	in := []history.SetEntry{setEntry(2), setEntry(1)}
	if err := store.SaveSets(ctx, "u", in); err != nil {
		t.Fatalf("SaveSets: %v", err)
	}
	out, err := store.LoadSets(ctx, "u")
	if err != nil {
		t.Fatalf("LoadSets: %v", err)
	}
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("round trip lost order: %+v", out)
	}
	if out[0].Questions[0].Answer != "a" {
		t.Fatalf("question snapshot dropped: %+v", out[0].Questions)
	}

	// A second save replaces the ledger wholesale.
	if err := store.SaveSets(ctx, "u", []history.SetEntry{setEntry(3)}); err != nil {
		t.Fatalf("SaveSets: %v", err)
	}
	out, _ = store.LoadSets(ctx, "u")
	if len(out) != 1 || out[0].ID != 3 {
		t.Fatalf("replace failed: %+v", out)
	}
}

func TestFSStoreEscapesIdentity(t *testing.T) {
	base := t.TempDir()
	store, err := history.NewFSStore(base)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	// A hostile identity must stay inside the base directory.
	user := "../../etc/passwd"
	if err := store.SaveSets(ctx, user, []history.SetEntry{setEntry(1)}); err != nil {
		t.Fatalf("SaveSets: %v", err)
	}
	out, err := store.LoadSets(ctx, user)
	if err != nil || len(out) != 1 {
		t.Fatalf("round trip for escaped identity: %v, %d entries", err, len(out))
	}
	if _, err := filepath.Glob(filepath.Join(base, "sets", "*.json")); err != nil {
		t.Fatalf("glob: %v", err)
	}
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "portal.db")+"?mode=rwc")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()
	store := history.NewSQLStore(conn)

	results, err := store.LoadResults(ctx, "ghost")
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if results != nil {
		t.Fatalf("ghost ledger = %+v, want nil", results)
	}

	in := []quiz.Result{result(20, 1), result(10, 2)}
	if err := store.SaveResults(ctx, "u", in); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}
	out, err := store.LoadResults(ctx, "u")
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(out) != 2 || out[0].ID != 20 || out[1].ID != 10 {
		t.Fatalf("position ordering lost: %+v", out)
	}
	if out[0].UserAnswers[0] != "A" {
		t.Fatalf("answer map dropped in round trip: %+v", out[0].UserAnswers)
	}

	// Replace keeps only the new ledger and preserves its order.
	if err := store.SaveResults(ctx, "u", []quiz.Result{result(30, 0)}); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}
	out, _ = store.LoadResults(ctx, "u")
	if len(out) != 1 || out[0].ID != 30 {
		t.Fatalf("replace failed: %+v", out)
	}

	// Ledgers are isolated per identity and per kind.
	if err := store.SaveSets(ctx, "u", []history.SetEntry{setEntry(5)}); err != nil {
		t.Fatalf("SaveSets: %v", err)
	}
	other, err := store.LoadResults(ctx, "someone-else")
	if err != nil || other != nil {
		t.Fatalf("cross-identity leak: %v %+v", err, other)
	}
	sets, err := store.LoadSets(ctx, "u")
	if err != nil || len(sets) != 1 {
		t.Fatalf("set ledger: %v, %d entries", err, len(sets))
	}
}
