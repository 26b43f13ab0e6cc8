package mdcode

// Replacement is the text that takes the place of a block in its document.
type Replacement struct {
	Block *Block
	Text  []byte
}

func (r Replacement) sizeIncrement() int {
	return len(r.Text) - (r.Block.End - r.Block.Start)
}

// Rewrite returns a copy of source where each replaced block's
// [Start, End) span holds the replacement text instead.
//
// Replacements must be ordered by Start and must not overlap; blocks returned
// by Extract satisfy this. The output is built in a single forward pass, so
// the stored offsets of later blocks stay valid while earlier ones are
// replaced.
func Rewrite(source []byte, reps []Replacement) []byte {
	resSize := len(source)

	for _, rep := range reps {
		resSize += rep.sizeIncrement()
	}

	result := make([]byte, 0, resSize)

	var srcIdx int

	for _, rep := range reps {
		result = append(result, source[srcIdx:rep.Block.Start]...)
		result = append(result, rep.Text...)
		srcIdx = rep.Block.End
	}

	return append(result, source[srcIdx:]...)
}
