package bank

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// Column names are normalized case-insensitively, so "Question"/"question" and
// "Option 1"/"option 1" both map to the same slot. Rows with a ragged column
// count are padded rather than rejected; the bank files in the wild are messy.
var columnAliases = map[string]string{
	"question": "question",
	"option 1": "option1",
	"option 2": "option2",
	"option 3": "option3",
	"option 4": "option4",
	"answer":   "answer",
}

// ParseCSV reads a subject bank file: a header row followed by one question per
// line. Unknown columns are ignored; missing cells become empty strings.
func ParseCSV(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if name, ok := columnAliases[key]; ok {
			idx[name] = i
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Question, 0, len(rows)-1)
	for _, row := range rows[1:] {
		q := Question{
			Text: cell(row, "question"),
			Options: [4]string{
				cell(row, "option1"),
				cell(row, "option2"),
				cell(row, "option3"),
				cell(row, "option4"),
			},
			Answer: cell(row, "answer"),
		}
		if q.Text == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// LoadCSV parses one bank file from disk.
func LoadCSV(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}
