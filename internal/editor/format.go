// Package editor holds the note body buffer and the markdown formatting
// applied to a selection of it.
package editor

type Style int

const (
	Bold Style = iota
	Italic
	Underline
	Bullet
	Numbered
	Code
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	case Bullet:
		return "bullet"
	case Numbered:
		return "numbered"
	case Code:
		return "code"
	}
	return "plain"
}

// Wrap returns s with the markdown for the style applied.
func (s Style) Wrap(text string) string {
	switch s {
	case Bold:
		return "**" + text + "**"
	case Italic:
		return "*" + text + "*"
	case Underline:
		return "<u>" + text + "</u>"
	case Bullet:
		return "\n- " + text
	case Numbered:
		return "\n1. " + text
	case Code:
		return "`" + text + "`"
	}
	return text
}

// Selection is a half-open range of rune offsets.
type Selection struct {
	Start int
	End   int
}

func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Clamp orders the bounds and keeps them inside [0, n].
func (s Selection) Clamp(n int) Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	s.Start = clamp(s.Start, 0, n)
	s.End = clamp(s.End, 0, n)
	return s
}

// Format replaces the selected part of text with its formatted form. It
// returns the new text and the rune offset right after the inserted part.
func Format(text string, sel Selection, style Style) (string, int) {
	runes := []rune(text)
	sel = sel.Clamp(len(runes))

	formatted := []rune(style.Wrap(string(runes[sel.Start:sel.End])))

	out := make([]rune, 0, len(runes)-(sel.End-sel.Start)+len(formatted))
	out = append(out, runes[:sel.Start]...)
	out = append(out, formatted...)
	out = append(out, runes[sel.End:]...)
	return string(out), sel.Start + len(formatted)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
