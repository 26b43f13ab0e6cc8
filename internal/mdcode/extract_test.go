package mdcode_test

import (
	"strings"
	"testing"

	"github.com/ezerfernandes/mdprebuild/internal/mdcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lang = "mermaid"

func TestExtractSingle(t *testing.T) {
	t.Parallel()

	src := []byte("```mermaid\nA-->B\n```")

	blocks := mdcode.Extract(src, lang)
	require.Len(t, blocks, 1)

	block := blocks[0]
	assert.Equal(t, "mermaid", block.Lang)
	assert.Equal(t, "A-->B\n", string(block.Content))
	assert.Equal(t, 0, block.Start)
	assert.Equal(t, len(src), block.End)
	assert.Equal(t, 1, block.StartLine)
	assert.Equal(t, 3, block.EndLine)
}

func TestExtractOffsets(t *testing.T) {
	t.Parallel()

	fenced := "```mermaid\ngraph TD\nA-->B\n```"
	src := "# Title\n\nintro\n\n" + fenced + "\nafter\n\n~~~mermaid\nC-->D\n~~~\n"

	blocks := mdcode.Extract([]byte(src), lang)
	require.Len(t, blocks, 2)

	assert.Equal(t, fenced, src[blocks[0].Start:blocks[0].End])
	assert.Equal(t, "\n", src[blocks[0].End:blocks[0].End+1], "line terminator stays outside the block")
	assert.Equal(t, "graph TD\nA-->B\n", string(blocks[0].Content))
	assert.Equal(t, 5, blocks[0].StartLine)
	assert.Equal(t, 8, blocks[0].EndLine)

	assert.Equal(t, "~~~mermaid\nC-->D\n~~~", src[blocks[1].Start:blocks[1].End])
	assert.Equal(t, "C-->D\n", string(blocks[1].Content))
	assert.Less(t, blocks[0].End, blocks[1].Start)
}

func TestExtractFenceRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		content []string
	}{
		{"tilde", "~~~mermaid\nA\n~~~\n", []string{"A\n"}},
		{"long fence", "`````mermaid\nA\n`````\n", []string{"A\n"}},
		{"empty body", "```mermaid\n```\n", []string{""}},
		{"closing with trailing space", "```mermaid\nA\n```   \n", []string{"A\n"}},
		{"space before tag", "``` mermaid\nA\n```\n", []string{"A\n"}},
		{"other language", "```go\nfunc main() {}\n```\n", nil},
		{"tag prefix only", "```mermaidx\nA\n```\n", nil},
		{"case sensitive tag", "```Mermaid\nA\n```\n", nil},
		{"indented fence is not a fence", "  ```mermaid\n  A\n  ```\n", nil},
		{"backtick in info string", "```mer`maid\nA\n```\n", nil},
		{"two glyphs are not a fence", "``mermaid\nA\n``\n", nil},
		{"unterminated", "```mermaid\nA-->B\n", nil},
		{"longer closer does not close", "```mermaid\nA\n````\n", nil},
		{"shorter closer does not close", "````mermaid\nA\n```\n", nil},
		{"other glyph does not close", "```mermaid\nA\n~~~\n", nil},
		{"tagged closer does not close", "```mermaid\nA\n```js\n", nil},
		{"inner fences kept verbatim", "````mermaid\nA\n```\n~~~\n````\n", []string{"A\n```\n~~~\n"}},
		{"crlf", "```mermaid\r\nA\r\n```\r\nx", []string{"A\r\n"}},
		{"no trailing newline", "```mermaid\nA", nil},
		{"two blocks", "```mermaid\nA\n```\n\n```mermaid\nB\n```\n", []string{"A\n", "B\n"}},
		{
			"after unrelated block",
			"```sh\necho hi\n```\n```mermaid\nA\n```\n",
			[]string{"A\n"},
		},
		{
			"untagged fence opens a frame",
			"```\n```mermaid\nA\n```\n```\n",
			nil,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blocks := mdcode.Extract([]byte(tt.src), lang)

			var content []string
			for _, block := range blocks {
				content = append(content, string(block.Content))
			}

			assert.Equal(t, tt.content, content)
		})
	}
}

// A target fence inside an unrelated fence is an example, not a block.
func TestExtractNested(t *testing.T) {
	t.Parallel()

	sample := "```mermaid\nA-->B\n```\n"

	tests := []struct {
		name    string
		openers []string
		closers []string
	}{
		{"depth 1", []string{"````markdown"}, []string{"````"}},
		{"depth 1 untagged", []string{"~~~"}, []string{"~~~"}},
		{"depth 1 longer closer", []string{"````md"}, []string{"``````"}},
		{"depth 2", []string{"~~~~~ text", "````md"}, []string{"````", "~~~~~"}},
		{
			"depth 5 mixed",
			[]string{"~~~ text", "````md", "~~~~~ x", "``` y", "~~~~ z"},
			[]string{"~~~~", "```", "~~~~~", "````", "~~~"},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := strings.Join(tt.openers, "\n") + "\n" + sample + strings.Join(tt.closers, "\n") + "\n"

			assert.Empty(t, mdcode.Extract([]byte(src), lang))

			after := src + "\n```mermaid\nreal\n```\n"
			blocks := mdcode.Extract([]byte(after), lang)

			require.Len(t, blocks, 1, "top level is reached again after the outer fences close")
			assert.Equal(t, "real\n", string(blocks[0].Content))
		})
	}
}

// Once a capture is open, only the exact opening marker closes it, even when
// that line was meant as the close of a fence opened inside the block.
func TestExtractCaptureIgnoresNesting(t *testing.T) {
	t.Parallel()

	src := "```mermaid\n```js\nx\n```\n```\n"

	blocks := mdcode.Extract([]byte(src), lang)
	require.Len(t, blocks, 1)
	assert.Equal(t, "```js\nx\n", string(blocks[0].Content))
	assert.Equal(t, "```mermaid\n```js\nx\n```", src[blocks[0].Start:blocks[0].End])
}

func TestExtractMeta(t *testing.T) {
	t.Parallel()

	src := "```mermaid alt=\"Login flow\" class=wide\nA\n```\n" +
		"```mermaid {\"alt\": \"json\", \"width\": 3}\nB\n```\n" +
		"```mermaid \"unbalanced\nC\n```\n"

	blocks := mdcode.Extract([]byte(src), lang)
	require.Len(t, blocks, 3)

	assert.Equal(t, "Login flow", blocks[0].Meta.Get("alt"))
	assert.Equal(t, "wide", blocks[0].Meta.Get("class"))
	assert.Equal(t, "json", blocks[1].Meta.Get("alt"))
	assert.Equal(t, "3", blocks[1].Meta.Get("width"))
	assert.Empty(t, blocks[2].Meta.Get("alt"))
	assert.Equal(t, "C\n", string(blocks[2].Content))
}

func TestTracker(t *testing.T) {
	t.Parallel()

	tracker := mdcode.NewTracker(lang)

	lines := []string{"````md\n", "```mermaid\n", "x\n", "```\n", "````\n", "```mermaid\n", "y\n", "```\n"}
	depths := []int{1, 2, 2, 1, 0, 0, 0, 0}
	capturing := []bool{false, false, false, false, false, true, true, false}

	var (
		offset int
		found  []*mdcode.Block
	)

	for i, line := range lines {
		if block, ok := tracker.Line(offset, []byte(line)); ok {
			found = append(found, block)
		}

		offset += len(line)

		assert.Equal(t, depths[i], tracker.Depth(), "depth after line %d", i+1)
		assert.Equal(t, capturing[i], tracker.Capturing(), "capturing after line %d", i+1)
	}

	require.Len(t, found, 1)
	assert.Equal(t, "y\n", string(found[0].Content))
	assert.Equal(t, 6, found[0].StartLine)
	assert.Equal(t, 8, found[0].EndLine)
}
