// Package render runs the external diagram renderer.
//
// The renderer is a capability handed to the cache: anything that can turn
// diagram source into a file at a given path. Command shells out to a CLI
// such as mmdc; Func wraps a plain function.
package render

import "context"

// Renderer writes the artifact rendered from source at outputPath.
// A non-nil error means the render failed and outputPath must be ignored.
type Renderer interface {
	Render(ctx context.Context, source []byte, outputPath string) error
}

// Func adapts an ordinary function to the Renderer interface.
type Func func(ctx context.Context, source []byte, outputPath string) error

// Render calls f.
func (f Func) Render(ctx context.Context, source []byte, outputPath string) error {
	return f(ctx, source, outputPath)
}
