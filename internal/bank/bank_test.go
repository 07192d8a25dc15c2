package bank_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klexam/portal/internal/bank"
)

const sampleCSV = `Question,Option 1,Option 2,Option 3,Option 4,Answer
What is 2+2?,3,4,5,6,4
Boiling point of water?,90,95,100,105,100
,a,b,c,d,a
Ragged row,x,y
`

func TestParseCSV(t *testing.T) {
	qs, err := bank.ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	// The empty-question row is dropped; the ragged row is padded.
	if len(qs) != 3 {
		t.Fatalf("parsed %d questions, want 3", len(qs))
	}
	if qs[0].Text != "What is 2+2?" || qs[0].Options[1] != "4" || qs[0].Answer != "4" {
		t.Fatalf("first question = %+v", qs[0])
	}
	if qs[2].Options[2] != "" || qs[2].Options[3] != "" {
		t.Fatalf("ragged row not padded: %+v", qs[2])
	}
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	in := "QUESTION,OPTION 1,option 2,Option 3,OPTION 4,answer\nq,a,b,c,d,b\n"
	qs, err := bank.ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(qs) != 1 || qs[0].Options[1] != "b" || qs[0].Answer != "b" {
		t.Fatalf("parsed %+v", qs)
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	qs, err := bank.ParseCSV(strings.NewReader("Question,Option 1,Option 2,Option 3,Option 4,Answer\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("parsed %d questions from header-only file", len(qs))
	}
}

func TestSample(t *testing.T) {
	pool := make([]bank.Question, 10)
	for i := range pool {
		pool[i] = bank.Question{Text: string(rune('a' + i))}
	}

	got := bank.Sample(pool, 4)
	if len(got) != 4 {
		t.Fatalf("sampled %d, want 4", len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.Text] {
			t.Fatalf("duplicate draw %q", q.Text)
		}
		seen[q.Text] = true
	}

	// Under-fill: a pool smaller than the request returns the whole pool.
	if got := bank.Sample(pool[:2], 5); len(got) != 2 {
		t.Fatalf("under-fill sampled %d, want 2", len(got))
	}
	// The input pool is never reordered.
	for i := range pool {
		if pool[i].Text != string(rune('a'+i)) {
			t.Fatal("Sample mutated the pool")
		}
	}
}

func writeBank(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestBuildSetTagsSubjects(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "chem.csv", "Question,Option 1,Option 2,Option 3,Option 4,Answer\nc1,a,b,c,d,a\nc2,a,b,c,d,b\nc3,a,b,c,d,c\n")
	writeBank(t, dir, "phys.csv", "Question,Option 1,Option 2,Option 3,Option 4,Answer\np1,a,b,c,d,a\np2,a,b,c,d,b\n")

	p := bank.NewProvider(dir)
	set, err := p.BuildSet([]bank.SubjectSpec{
		{Name: "Chemistry", Count: 2, File: "chem.csv"},
		{Name: "Physics", Count: 5, File: "phys.csv"}, // under-filled to 2
	})
	if err != nil {
		t.Fatalf("BuildSet: %v", err)
	}
	if len(set) != 4 {
		t.Fatalf("set size = %d, want 4", len(set))
	}
	// Subject blocks stay in spec order with 1-based numbering inside each.
	for i, want := range []struct {
		subject string
		seq     int
	}{{"Chemistry", 1}, {"Chemistry", 2}, {"Physics", 1}, {"Physics", 2}} {
		if set[i].Subject != want.subject || set[i].SubjectNumber != want.seq {
			t.Fatalf("set[%d] = %s#%d, want %s#%d",
				i, set[i].Subject, set[i].SubjectNumber, want.subject, want.seq)
		}
	}
}

func TestBuildSetMissingBankFile(t *testing.T) {
	p := bank.NewProvider(t.TempDir())
	_, err := p.BuildSet([]bank.SubjectSpec{{Name: "Chemistry", Count: 1, File: "absent.csv"}})
	if err == nil {
		t.Fatal("expected error for a missing bank file")
	}
	if !strings.Contains(err.Error(), "Chemistry") {
		t.Fatalf("error does not name the subject: %v", err)
	}
}

func TestFindExam(t *testing.T) {
	e, ok := bank.FindExam("KLEEE")
	if !ok {
		t.Fatal("KLEEE preset missing")
	}
	if e.DurationMin != 180 || e.TotalQuestions() != 75 {
		t.Fatalf("KLEEE = %dmin %dq", e.DurationMin, e.TotalQuestions())
	}
	if _, ok := bank.FindExam("NOPE"); ok {
		t.Fatal("found an unknown preset")
	}
}
