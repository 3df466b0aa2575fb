package terminal

import "github.com/mattn/go-runewidth"

// textInput is the cursor-aware buffer behind node editing. Lines are
// separated by '\n'; the cursor is a rune offset.
type textInput struct {
	buf    []rune
	cursor int
}

// reset loads s and puts the cursor at its end.
func (t *textInput) reset(s string) {
	t.buf = []rune(s)
	t.cursor = len(t.buf)
}

func (t *textInput) String() string {
	return string(t.buf)
}

func (t *textInput) insert(r rune) {
	t.buf = append(t.buf, 0)
	copy(t.buf[t.cursor+1:], t.buf[t.cursor:])
	t.buf[t.cursor] = r
	t.cursor++
}

func (t *textInput) backspace() {
	if t.cursor == 0 {
		return
	}
	t.buf = append(t.buf[:t.cursor-1], t.buf[t.cursor:]...)
	t.cursor--
}

func (t *textInput) deleteForward() {
	if t.cursor >= len(t.buf) {
		return
	}
	t.buf = append(t.buf[:t.cursor], t.buf[t.cursor+1:]...)
}

func (t *textInput) left() {
	if t.cursor > 0 {
		t.cursor--
	}
}

func (t *textInput) right() {
	if t.cursor < len(t.buf) {
		t.cursor++
	}
}

func (t *textInput) lineStart() int {
	i := t.cursor
	for i > 0 && t.buf[i-1] != '\n' {
		i--
	}
	return i
}

func (t *textInput) lineEnd() int {
	i := t.cursor
	for i < len(t.buf) && t.buf[i] != '\n' {
		i++
	}
	return i
}

// home moves to the beginning of the current line (Ctrl+A).
func (t *textInput) home() {
	t.cursor = t.lineStart()
}

// end moves to the end of the current line (Ctrl+E).
func (t *textInput) end() {
	t.cursor = t.lineEnd()
}

// up moves to the same column on the previous line, clamped to its length.
func (t *textInput) up() {
	start := t.lineStart()
	if start == 0 {
		t.cursor = 0
		return
	}
	col := t.cursor - start
	prevEnd := start - 1
	prevStart := prevEnd
	for prevStart > 0 && t.buf[prevStart-1] != '\n' {
		prevStart--
	}
	t.cursor = min(prevStart+col, prevEnd)
}

// down moves to the same column on the next line, clamped to its length.
func (t *textInput) down() {
	end := t.lineEnd()
	if end == len(t.buf) {
		t.cursor = end
		return
	}
	col := t.cursor - t.lineStart()
	nextStart := end + 1
	nextEnd := nextStart
	for nextEnd < len(t.buf) && t.buf[nextEnd] != '\n' {
		nextEnd++
	}
	t.cursor = min(nextStart+col, nextEnd)
}

// deleteWordBackward deletes the previous word (Ctrl+W).
func (t *textInput) deleteWordBackward() {
	if t.cursor == 0 {
		return
	}
	start := t.cursor - 1
	for start >= 0 && t.buf[start] == ' ' {
		start--
	}
	for start >= 0 && t.buf[start] != ' ' && t.buf[start] != '\n' {
		start--
	}
	start++
	t.buf = append(t.buf[:start], t.buf[t.cursor:]...)
	t.cursor = start
}

// deleteToLineStart deletes back to the beginning of the line (Ctrl+U).
func (t *textInput) deleteToLineStart() {
	start := t.lineStart()
	t.buf = append(t.buf[:start], t.buf[t.cursor:]...)
	t.cursor = start
}

// deleteToLineEnd deletes up to the end of the line (Ctrl+K).
func (t *textInput) deleteToLineEnd() {
	end := t.lineEnd()
	t.buf = append(t.buf[:t.cursor], t.buf[end:]...)
}

// position returns the cursor line and its column in terminal cells.
func (t *textInput) position() (line, col int) {
	start := 0
	for i := 0; i < t.cursor; i++ {
		if t.buf[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, runewidth.StringWidth(string(t.buf[start:t.cursor]))
}
