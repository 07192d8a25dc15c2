package bank

// Predefined entrance-exam presets with their question distributions.
var Exams = []Exam{
	{
		Name:        "KLEEE",
		DurationMin: 180,
		Subjects: []SubjectSpec{
			{Name: "Chemistry", Count: 25, File: "chemistry.csv"},
			{Name: "Physics", Count: 25, File: "physics.csv"},
			{Name: "Maths", Count: 25, File: "Maths.csv"},
		},
	},
	{
		Name:        "KLSAT",
		DurationMin: 180,
		Subjects: []SubjectSpec{
			{Name: "Biology", Count: 80, File: "Biology.csv"},
			{Name: "Physics", Count: 40, File: "physics.csv"},
			{Name: "Chemistry", Count: 40, File: "chemistry.csv"},
		},
	},
	{
		Name:        "KLECET",
		DurationMin: 90,
		Subjects: []SubjectSpec{
			{Name: "Chemistry", Count: 8, File: "chemistry.csv"},
			{Name: "Physics", Count: 9, File: "physics.csv"},
			{Name: "Maths", Count: 8, File: "Maths.csv"},
		},
	},
	{
		Name:        "KLHAT",
		DurationMin: 90,
		Subjects: []SubjectSpec{
			{Name: "English", Count: 25, File: "English.csv"},
			{Name: "Logical", Count: 20, File: "Logical.csv"},
			{Name: "Quantitative", Count: 15, File: "Quantitative.csv"},
			{Name: "General Knowledge", Count: 15, File: "General Knowledge.csv"},
		},
	},
	{
		Name:        "KLMAT",
		DurationMin: 90,
		Subjects: []SubjectSpec{
			{Name: "English", Count: 25, File: "English.csv"},
			{Name: "Logical", Count: 20, File: "Logical.csv"},
			{Name: "Quantitative", Count: 15, File: "Quantitative.csv"},
			{Name: "General Knowledge", Count: 15, File: "General Knowledge.csv"},
		},
	},
}

// PracticeMix is the default student practice distribution.
var PracticeMix = []SubjectSpec{
	{Name: "Chemistry", Count: 25, File: "chemistry.csv"},
	{Name: "Physics", Count: 25, File: "physics.csv"},
	{Name: "Maths", Count: 25, File: "Maths.csv"},
}

// FindExam looks up a preset by name.
func FindExam(name string) (Exam, bool) {
	for _, e := range Exams {
		if e.Name == name {
			return e, true
		}
	}
	return Exam{}, false
}
