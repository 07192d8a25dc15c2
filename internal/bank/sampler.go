package bank

import (
	"fmt"
	"math/rand"
	"path/filepath"
)

// Sample returns n questions drawn uniformly without replacement. When the pool
// is smaller than n the whole pool is returned (graceful under-fill, not an
// error). The input slice is never mutated.
func Sample(pool []Question, n int) []Question {
	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n:n]
}

// Provider assembles working sets out of subject CSV files.
type Provider struct {
	dir string
}

func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// BuildSet samples each subject's requested count and concatenates the results
// in subject order, tagging every question with its subject and a 1-based
// per-subject sequence number. The returned set is owned by the caller.
func (p *Provider) BuildSet(subjects []SubjectSpec) ([]Question, error) {
	var set []Question
	for _, s := range subjects {
		pool, err := LoadCSV(filepath.Join(p.dir, s.File))
		if err != nil {
			return nil, fmt.Errorf("load %s bank: %w", s.Name, err)
		}
		for i, q := range Sample(pool, s.Count) {
			q.Subject = s.Name
			q.SubjectNumber = i + 1
			set = append(set, q)
		}
	}
	return set, nil
}

// BuildExamSet assembles a set for one of the predefined exams.
func (p *Provider) BuildExamSet(exam Exam) ([]Question, error) {
	return p.BuildSet(exam.Subjects)
}
