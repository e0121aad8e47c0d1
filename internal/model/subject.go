package model

// Subject represents a topic area with its own notes and question files.
type Subject struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	QuestionsFile string `json:"questions_file"`
	NotesFile     string `json:"notes_file"`
}

// NewSubject builds a catalog entry using the conventional file names.
func NewSubject(code, name string) Subject {
	return Subject{
		Code:          code,
		Name:          name,
		QuestionsFile: code + ".json",
		NotesFile:     code + "-notes.json",
	}
}

// SubjectType drives grading policy for a whole question set.
type SubjectType string

const (
	SubjectTypeTheoretical SubjectType = "theoretical"
	SubjectTypeMixed       SubjectType = "mixed"
)

// Pack is a purchasable bundle advertised on the subject page.
type Pack struct {
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	PriceKES float64 `json:"price_kes"`
}

// SubjectMetadata is shared by question and note files.
type SubjectMetadata struct {
	Type        SubjectType `json:"type"`
	Description string      `json:"description,omitempty"`
	Packs       []Pack      `json:"packs,omitempty"`
}

// IsTheoretical reports whether answers are reviewed instead of graded.
func (m *SubjectMetadata) IsTheoretical() bool {
	return m != nil && m.Type == SubjectTypeTheoretical
}
