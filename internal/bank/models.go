package bank

// Question is one bank record. Answer holds the literal text of the correct
// option, not a letter; grading compares option text against it verbatim.
// Records are immutable once a set is assembled: consumers snapshot, never share.
type Question struct {
	Text          string    `json:"question"`
	Options       [4]string `json:"options"` // fixed slots, displayed A-D
	Answer        string    `json:"correctAnswer"`
	Subject       string    `json:"subject,omitempty"`
	SubjectNumber int       `json:"subjectSequenceNumber,omitempty"` // 1-based within Subject
}

// SubjectSpec is one line of an exam's question distribution.
type SubjectSpec struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	File  string `json:"file"` // CSV file inside the bank directory
}

// Exam is a predefined entrance-exam preset.
type Exam struct {
	Name        string        `json:"name"`
	DurationMin int           `json:"duration_min"`
	Subjects    []SubjectSpec `json:"subjects"`
}

// TotalQuestions sums the requested counts across subjects.
func (e Exam) TotalQuestions() int {
	n := 0
	for _, s := range e.Subjects {
		n += s.Count
	}
	return n
}
