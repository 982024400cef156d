package vocabulary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category identifies which table a keyword hit came from.
type Category string

const (
	CategoryCritical     Category = "critical"
	CategoryHighPriority Category = "high_priority"
	CategoryModerate     Category = "moderate"
	CategoryCombination  Category = "combination"
)

// Combination is an ordered keyword pair that signals an emergency when both
// members are present.
type Combination struct {
	First  string
	Second string
}

// UnmarshalYAML decodes a two-element sequence such as [chest pain, shortness of breath].
func (c *Combination) UnmarshalYAML(node *yaml.Node) error {
	var pair []string
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: combination needs exactly 2 entries, got %d", node.Line, len(pair))
	}
	c.First, c.Second = pair[0], pair[1]
	return nil
}

// Points holds the score contribution for each category.
type Points struct {
	Critical     int `yaml:"critical"`
	HighPriority int `yaml:"high_priority"`
	Moderate     int `yaml:"moderate"`
	Combination  int `yaml:"combination"`
}

// Definition is the editable form of the tables, as written in YAML.
type Definition struct {
	Critical     []string      `yaml:"critical"`
	HighPriority []string      `yaml:"high_priority"`
	Moderate     []string      `yaml:"moderate"`
	Combinations []Combination `yaml:"combinations"`
	Points       Points        `yaml:"points"`
}

// Tables is the read-only keyword vocabulary. Build one at startup with
// Default, New or Load and share it; nothing mutates it afterwards.
type Tables struct {
	critical     []string
	highPriority []string
	moderate     []string
	combinations []Combination
	points       Points
}

// Hit is one keyword match produced by Scan.
type Hit struct {
	Category Category
	Keyword  string
	Second   string // only set for CategoryCombination
	Points   int
}

// RedFlag reports whether the hit counts as a red flag.
func (h Hit) RedFlag() bool {
	return h.Category != CategoryModerate
}

// Label is the red-flag text for the hit.
func (h Hit) Label() string {
	if h.Category == CategoryCombination {
		return fmt.Sprintf("combination: %s + %s", h.Keyword, h.Second)
	}
	return h.Keyword
}

// New validates def and returns an immutable copy of it. Keywords are
// lower-cased and trimmed.
func New(def Definition) (*Tables, error) {
	t := &Tables{points: def.Points}
	var err error
	if t.critical, err = normalize("critical", def.Critical); err != nil {
		return nil, err
	}
	if t.highPriority, err = normalize("high_priority", def.HighPriority); err != nil {
		return nil, err
	}
	if t.moderate, err = normalize("moderate", def.Moderate); err != nil {
		return nil, err
	}
	for i, c := range def.Combinations {
		first := strings.ToLower(strings.TrimSpace(c.First))
		second := strings.ToLower(strings.TrimSpace(c.Second))
		if first == "" || second == "" {
			return nil, fmt.Errorf("combinations[%d]: empty keyword", i)
		}
		t.combinations = append(t.combinations, Combination{First: first, Second: second})
	}
	if def.Points.Critical < 0 || def.Points.HighPriority < 0 || def.Points.Moderate < 0 || def.Points.Combination < 0 {
		return nil, fmt.Errorf("points must not be negative")
	}
	return t, nil
}

func normalize(table string, keywords []string) ([]string, error) {
	out := make([]string, 0, len(keywords))
	for i, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return nil, fmt.Errorf("%s[%d]: empty keyword", table, i)
		}
		out = append(out, k)
	}
	return out, nil
}

// Load reads a YAML vocabulary file. Omitted point values fall back to the
// defaults; omitted keyword lists stay empty.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	def := Definition{Points: DefaultPoints}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	t, err := New(def)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return t, nil
}

// Points returns the per-category point values.
func (t *Tables) Points() Points { return t.points }

// Scan applies every table to the symptom name (and, for the second member of
// a combination, the notes). All matches are returned in table order:
// critical, high priority, moderate, combinations.
func (t *Tables) Scan(m Matcher, symptomName, notes string) []Hit {
	var hits []Hit
	for _, k := range t.critical {
		if m.Match(symptomName, k) {
			hits = append(hits, Hit{Category: CategoryCritical, Keyword: k, Points: t.points.Critical})
		}
	}
	for _, k := range t.highPriority {
		if m.Match(symptomName, k) {
			hits = append(hits, Hit{Category: CategoryHighPriority, Keyword: k, Points: t.points.HighPriority})
		}
	}
	for _, k := range t.moderate {
		if m.Match(symptomName, k) {
			hits = append(hits, Hit{Category: CategoryModerate, Keyword: k, Points: t.points.Moderate})
		}
	}
	for _, c := range t.combinations {
		if !m.Match(symptomName, c.First) {
			continue
		}
		if m.Match(symptomName, c.Second) || m.Match(notes, c.Second) {
			hits = append(hits, Hit{Category: CategoryCombination, Keyword: c.First, Second: c.Second, Points: t.points.Combination})
		}
	}
	return hits
}
