package note

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

type Note struct {
	ID         string
	NotebookID string
	Title      string
	Content    string
	Tags       []string
	Favorite   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewNote(title, content string) *Note {
	now := time.Now().UTC()
	return &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DisplayTitle falls back to a placeholder for untitled notes.
func (n *Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return "Untitled"
}

// AddTag trims the tag and appends it unless it is empty or present.
func (n *Note) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || n.HasTag(tag) {
		return false
	}
	n.Tags = append(n.Tags, tag)
	return true
}

func (n *Note) RemoveTag(tag string) bool {
	for i, t := range n.Tags {
		if t == tag {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Preview returns at most limit runes of the content followed by "..."
// when it had to be cut.
func (n *Note) Preview(limit int) string {
	runes := []rune(n.Content)
	if len(runes) <= limit {
		return n.Content
	}
	return string(runes[:limit]) + "..."
}

type Notebook struct {
	ID        string
	Name      string
	CreatedAt time.Time
	NoteCount int
}

type TagCount struct {
	Name  string
	Count int
}
