package mdcode

import "bytes"

const minFenceLen = 3

// Marker is a code fence: Len repetitions of Char ('`' or '~').
type Marker struct {
	Char byte
	Len  int
}

// Tracker is a line-at-a-time state machine that follows fence nesting and
// captures top-level fenced blocks tagged with a single target language.
//
// Fences tagged with any other language (or none) are pushed on a stack, and
// while that stack is non-empty nothing is captured: a target fence shown
// inside a documentation sample stays a sample. Once a capture is open, lines
// are not stack-tracked: only a bare fence with the opening glyph and exactly
// the opening length closes it.
//
// It is not safe to use a Tracker from parallel goroutines.
type Tracker struct {
	lang    string
	stack   []Marker
	capture *capture
	lineno  int
}

type capture struct {
	marker    Marker
	tag       string
	info      []byte
	start     int
	startLine int
	content   []byte
}

// NewTracker returns a Tracker capturing blocks tagged lang.
func NewTracker(lang string) *Tracker {
	return &Tracker{lang: lang} //nolint:exhaustruct
}

// Depth reports how many unrelated fences are currently open.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Capturing reports whether a target block is open and not yet closed.
func (t *Tracker) Capturing() bool {
	return t.capture != nil
}

// Line consumes one physical line that starts at byte offset within the
// document. The line must include its terminator, if it has one. When the
// line closes a capture the finished block is returned.
func (t *Tracker) Line(offset int, line []byte) (*Block, bool) {
	t.lineno++

	body := trimEOL(line)
	marker, info, isFence := parseFence(body)

	if c := t.capture; c != nil {
		if isFence && marker == c.marker && len(bytes.TrimSpace(info)) == 0 {
			t.capture = nil

			return c.block(offset+len(body), t.lineno), true
		}

		c.content = append(c.content, line...)

		return nil, false
	}

	if !isFence {
		return nil, false
	}

	tag, rest := splitInfo(info)

	if len(t.stack) == 0 {
		if tag == t.lang {
			t.capture = &capture{
				marker:    marker,
				tag:       tag,
				info:      rest,
				start:     offset,
				startLine: t.lineno,
				content:   []byte{},
			}
		} else {
			t.stack = append(t.stack, marker)
		}

		return nil, false
	}

	top := t.stack[len(t.stack)-1]
	if marker.Char == top.Char && marker.Len >= top.Len && len(bytes.TrimSpace(info)) == 0 {
		t.stack = t.stack[:len(t.stack)-1]
	} else {
		t.stack = append(t.stack, marker)
	}

	return nil, false
}

func (c *capture) block(end, endLine int) *Block {
	meta, err := parseMeta(c.info)
	if err != nil {
		meta = Meta{}
	}

	return &Block{
		Lang:      c.tag,
		Meta:      meta,
		Content:   c.content,
		Start:     c.start,
		End:       end,
		StartLine: c.startLine,
		EndLine:   endLine,
	}
}

// parseFence reports whether line (terminator already removed) is a fence:
// three or more identical '`' or '~' glyphs at the start of the line, followed
// by an optional info string. A backtick fence cannot have a backtick in its
// info string.
func parseFence(line []byte) (Marker, []byte, bool) {
	if len(line) < minFenceLen {
		return Marker{}, nil, false
	}

	char := line[0]
	if char != '`' && char != '~' {
		return Marker{}, nil, false
	}

	width := 1
	for width < len(line) && line[width] == char {
		width++
	}

	if width < minFenceLen {
		return Marker{}, nil, false
	}

	info := line[width:]
	if char == '`' && bytes.IndexByte(info, '`') >= 0 {
		return Marker{}, nil, false
	}

	return Marker{Char: char, Len: width}, info, true
}

// splitInfo splits an info string into its language tag and the remaining meta text.
func splitInfo(info []byte) (string, []byte) {
	info = bytes.TrimSpace(info)

	if idx := bytes.IndexAny(info, " \t"); idx >= 0 {
		return string(info[:idx]), info[idx+1:]
	}

	return string(info), nil
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})

	return bytes.TrimSuffix(line, []byte{'\r'})
}
