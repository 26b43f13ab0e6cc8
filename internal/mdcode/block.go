package mdcode

// Block is a located fenced block of the target language.
//
// Start and End are byte offsets into the scanned document: Start is the
// first byte of the opening fence line, End is just past the closing fence
// (its line terminator is not part of the block). Content holds the lines
// between the two fences, terminators included.
type Block struct {
	Lang      string
	Meta      Meta
	Content   []byte
	Start     int
	End       int
	StartLine int
	EndLine   int
}

type Blocks []*Block
