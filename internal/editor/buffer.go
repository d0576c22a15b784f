package editor

// Buffer is an editable block of text with a cursor. When an anchor is set
// the runes between it and the cursor are selected.
type Buffer struct {
	text      []rune
	cursor    int
	anchor    int
	selecting bool
}

func NewBuffer(value string) *Buffer {
	b := &Buffer{}
	b.SetValue(value)
	return b
}

func (b *Buffer) SetValue(value string) {
	b.text = []rune(value)
	b.cursor = len(b.text)
	b.selecting = false
}

func (b *Buffer) Value() string {
	return string(b.text)
}

func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) Cursor() int {
	return b.cursor
}

// Selection returns the selected range, empty at the cursor when nothing
// is selected.
func (b *Buffer) Selection() Selection {
	if !b.selecting {
		return Selection{Start: b.cursor, End: b.cursor}
	}
	return Selection{Start: b.anchor, End: b.cursor}.Clamp(len(b.text))
}

func (b *Buffer) HasSelection() bool {
	return !b.Selection().Empty()
}

func (b *Buffer) ClearSelection() {
	b.selecting = false
}

// SelectAll selects the whole text, leaving the cursor at the end.
func (b *Buffer) SelectAll() {
	b.anchor = 0
	b.cursor = len(b.text)
	b.selecting = true
}

func (b *Buffer) Insert(s string) {
	b.deleteSelection()
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:b.cursor]...)
	out = append(out, ins...)
	out = append(out, b.text[b.cursor:]...)
	b.text = out
	b.cursor += len(ins)
}

func (b *Buffer) Backspace() {
	if b.deleteSelection() || b.cursor == 0 {
		return
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
}

func (b *Buffer) Delete() {
	if b.deleteSelection() || b.cursor >= len(b.text) {
		return
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
}

// Apply formats the current selection and places the cursor after it.
func (b *Buffer) Apply(style Style) {
	text, cursor := Format(string(b.text), b.Selection(), style)
	b.text = []rune(text)
	b.cursor = cursor
	b.selecting = false
}

func (b *Buffer) Left(extend bool) {
	b.moveTo(b.cursor-1, extend)
}

func (b *Buffer) Right(extend bool) {
	b.moveTo(b.cursor+1, extend)
}

func (b *Buffer) Home(extend bool) {
	b.moveTo(b.lineStart(b.cursor), extend)
}

func (b *Buffer) End(extend bool) {
	b.moveTo(b.lineEnd(b.cursor), extend)
}

func (b *Buffer) Up(extend bool) {
	start := b.lineStart(b.cursor)
	if start == 0 {
		b.moveTo(0, extend)
		return
	}
	col := b.cursor - start
	prevStart := b.lineStart(start - 1)
	b.moveTo(min(prevStart+col, start-1), extend)
}

func (b *Buffer) Down(extend bool) {
	end := b.lineEnd(b.cursor)
	if end >= len(b.text) {
		b.moveTo(len(b.text), extend)
		return
	}
	col := b.cursor - b.lineStart(b.cursor)
	nextStart := end + 1
	b.moveTo(min(nextStart+col, b.lineEnd(nextStart)), extend)
}

func (b *Buffer) moveTo(pos int, extend bool) {
	if extend && !b.selecting {
		b.anchor = b.cursor
		b.selecting = true
	}
	if !extend {
		b.selecting = false
	}
	b.cursor = clamp(pos, 0, len(b.text))
}

func (b *Buffer) deleteSelection() bool {
	sel := b.Selection()
	b.selecting = false
	if sel.Empty() {
		return false
	}
	b.text = append(b.text[:sel.Start], b.text[sel.End:]...)
	b.cursor = sel.Start
	return true
}

func (b *Buffer) lineStart(pos int) int {
	for pos > 0 && b.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (b *Buffer) lineEnd(pos int) int {
	for pos < len(b.text) && b.text[pos] != '\n' {
		pos++
	}
	return pos
}
