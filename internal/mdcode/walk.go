package mdcode

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence describes a fenced code block as goldmark's CommonMark parser sees it.
type Fence struct {
	Lang      string
	StartLine int
	EndLine   int
	Lines     int
}

// Fences lists every fenced code block in source, whatever its language, in
// document order. It follows the full CommonMark container rules (lists,
// block quotes, indentation), so it can disagree with Extract on fences that
// are indented or live inside containers.
func Fences(source []byte) ([]Fence, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var fences []Fence

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		fence := Fence{Lang: string(fcb.Language(source)), Lines: fcb.Lines().Len()} //nolint:exhaustruct
		fence.StartLine, fence.EndLine = extractLines(fcb, source)
		fences = append(fences, fence)

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, endLine int

	lines := fcb.Lines()

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else if lines.Len() > 0 {
		startLine = lineAt(source, lines.At(0).Start) - 1
	}

	if lines.Len() > 0 {
		endLine = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if startLine > 0 {
		endLine = startLine + 1
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}
