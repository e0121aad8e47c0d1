package model

// Note is a single study note.
type Note struct {
	ID      ID     `json:"id" binding:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteSet is the decoded <code>-notes.json file.
type NoteSet struct {
	Subject  string           `json:"subject"`
	Metadata *SubjectMetadata `json:"metadata,omitempty"`
	Notes    []Note           `json:"notes" binding:"dive"`
}
