package syntax

// ScanCursor walks a pattern one code point at a time. Lexer and parser own
// one by value; Mark and Restore let them re-read a stretch of the pattern
// when a construct turns out not to be what it first looked like.
type ScanCursor struct {
	src []rune
	pos int
}

func newScanCursor(src []rune) ScanCursor {
	return ScanCursor{src: src}
}

// Mark returns a value that Restore rewinds to.
func (c *ScanCursor) Mark() int {
	return c.pos
}

func (c *ScanCursor) Restore(mark int) {
	c.pos = mark
}

func (c *ScanCursor) Pos() int {
	return c.pos
}

func (c *ScanCursor) more() bool {
	return c.pos < len(c.src)
}

// peek returns the current code point without consuming it, or -1 at the end.
func (c *ScanCursor) peek() rune {
	if c.pos < len(c.src) {
		return c.src[c.pos]
	}
	return -1
}

// peekAt looks off code points ahead of the current one.
func (c *ScanCursor) peekAt(off int) rune {
	if c.pos+off < len(c.src) {
		return c.src[c.pos+off]
	}
	return -1
}

func (c *ScanCursor) next() rune {
	if c.pos < len(c.src) {
		ch := c.src[c.pos]
		c.pos++
		return ch
	}
	c.pos++
	return -1
}

func (c *ScanCursor) skip(n int) {
	c.pos += n
}

// accept consumes ch if it is next.
func (c *ScanCursor) accept(ch rune) bool {
	if c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

// hasPrefix reports whether s follows the cursor.
func (c *ScanCursor) hasPrefix(s string) bool {
	i := c.pos
	for _, ch := range s {
		if i >= len(c.src) || c.src[i] != ch {
			return false
		}
		i++
	}
	return true
}
