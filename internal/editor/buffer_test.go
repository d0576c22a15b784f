package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferInsertAndBackspace(t *testing.T) {
	b := NewBuffer("")
	b.Insert("helo")
	b.Left(false)
	b.Insert("l")
	assert.Equal(t, "hello", b.Value())
	assert.Equal(t, 4, b.Cursor())

	b.End(false)
	b.Backspace()
	assert.Equal(t, "hell", b.Value())

	b.Home(false)
	b.Backspace()
	assert.Equal(t, "hell", b.Value())
	b.Delete()
	assert.Equal(t, "ell", b.Value())
}

func TestBufferSelectionAndApply(t *testing.T) {
	b := NewBuffer("make this bold")
	for i := 0; i < 4; i++ {
		b.Left(true)
	}
	assert.Equal(t, Selection{Start: 10, End: 14}, b.Selection())
	assert.True(t, b.HasSelection())

	b.Apply(Bold)
	assert.Equal(t, "make this **bold**", b.Value())
	assert.Equal(t, len([]rune("make this **bold**")), b.Cursor())
	assert.False(t, b.HasSelection())
}

func TestBufferMoveWithoutExtendDropsSelection(t *testing.T) {
	b := NewBuffer("abc")
	b.Left(true)
	b.Left(false)
	assert.False(t, b.HasSelection())
	assert.Equal(t, 1, b.Cursor())
}

func TestBufferInsertReplacesSelection(t *testing.T) {
	b := NewBuffer("hello world")
	b.SelectAll()
	b.Insert("bye")
	assert.Equal(t, "bye", b.Value())

	b.SelectAll()
	b.Backspace()
	assert.Equal(t, "", b.Value())
	assert.Zero(t, b.Cursor())
}

func TestBufferVerticalMovement(t *testing.T) {
	b := NewBuffer("first line\nab\nthird line")
	// cursor at the end of "third line"
	b.Up(false)
	assert.Equal(t, 13, b.Cursor(), "clamped to the end of the short line")

	b.Up(false)
	assert.Equal(t, 2, b.Cursor())

	b.Up(false)
	assert.Equal(t, 0, b.Cursor())

	b.Down(false)
	assert.Equal(t, 11, b.Cursor())
	b.Down(false)
	assert.Equal(t, 14, b.Cursor())
	b.Down(false)
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestBufferBulletOnSelectedLine(t *testing.T) {
	b := NewBuffer("groceries:milk")
	b.Home(false)
	for i := 0; i < len("groceries:"); i++ {
		b.Right(false)
	}
	b.End(true)
	b.Apply(Bullet)
	assert.Equal(t, "groceries:\n- milk", b.Value())
}

func TestBufferCursorClamped(t *testing.T) {
	b := NewBuffer("x")
	b.Right(false)
	b.Right(false)
	assert.Equal(t, 1, b.Cursor())
	b.Left(false)
	b.Left(false)
	assert.Equal(t, 0, b.Cursor())
}
