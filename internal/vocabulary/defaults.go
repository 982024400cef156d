package vocabulary

// DefaultPoints are the stock per-category contributions.
var DefaultPoints = Points{
	Critical:     60,
	HighPriority: 30,
	Moderate:     5,
	Combination:  40,
}

// DefaultDefinition is the built-in vocabulary.
var DefaultDefinition = Definition{
	Critical: []string{
		"chest pain", "heart attack", "stroke", "difficulty breathing", "can't breathe",
		"severe bleeding", "unconscious", "seizure", "anaphylaxis", "severe allergic reaction",
		"suicidal thoughts", "paralysis", "choking", "overdose",
	},
	HighPriority: []string{
		"confusion", "coughing blood", "vomiting blood", "high fever", "severe headache",
		"shortness of breath", "severe abdominal pain", "fainting", "sudden vision loss",
		"slurred speech", "numbness", "blood in stool",
	},
	Moderate: []string{
		"persistent headache", "nausea", "vomiting", "dizziness", "persistent cough",
		"rash", "diarrhea", "back pain", "joint pain", "sore throat", "ear pain", "insomnia",
	},
	Combinations: []Combination{
		{First: "chest pain", Second: "shortness of breath"},
		{First: "chest pain", Second: "sweating"},
		{First: "headache", Second: "stiff neck"},
		{First: "headache", Second: "confusion"},
		{First: "fever", Second: "stiff neck"},
		{First: "fever", Second: "rash"},
		{First: "abdominal pain", Second: "vomiting blood"},
	},
	Points: DefaultPoints,
}

// Default returns the built-in tables.
func Default() *Tables {
	t, err := New(DefaultDefinition)
	if err != nil {
		panic("vocabulary: invalid default definition: " + err.Error())
	}
	return t
}
