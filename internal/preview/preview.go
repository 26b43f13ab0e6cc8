// Package preview converts a prebuilt document to HTML.
package preview

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// HTML writes the HTML rendering of source to w. Raw HTML such as diagram
// figures is passed through unchanged.
func HTML(source []byte, w io.Writer) error {
	return markdown.Convert(source, w)
}
