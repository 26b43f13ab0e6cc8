package mdcode

import "bytes"

// Extract scans a Markdown document and returns the top-level fenced blocks
// tagged lang, ordered by offset. Blocks nested in fences of any other
// language are not returned, and a target block still open at the end of the
// document is dropped.
func Extract(source []byte, lang string) Blocks {
	var blocks Blocks

	tracker := NewTracker(lang)

	for offset := 0; offset < len(source); {
		end := len(source)
		if eol := bytes.IndexByte(source[offset:], '\n'); eol >= 0 {
			end = offset + eol + 1
		}

		if block, ok := tracker.Line(offset, source[offset:end]); ok {
			blocks = append(blocks, block)
		}

		offset = end
	}

	return blocks
}
