// Package prebuild replaces diagram blocks of a document with figures
// pointing at pre-rendered images.
package prebuild

import (
	"context"

	"github.com/ezerfernandes/mdprebuild/internal/cache"
	"github.com/ezerfernandes/mdprebuild/internal/config"
	"github.com/ezerfernandes/mdprebuild/internal/logging"
	"github.com/ezerfernandes/mdprebuild/internal/mdcode"
	"github.com/sirupsen/logrus"
)

// BlockResult is the outcome of one located block. Err is set when the block
// could not be rendered; such a block stays in the document as it was.
type BlockResult struct {
	Block *mdcode.Block
	Entry cache.Entry
	Err   error
}

// Result is the outcome of processing one document.
type Result struct {
	Text      []byte
	Converted int
	Manifest  Manifest
	Blocks    []BlockResult
}

// Failed returns the blocks that could not be rendered.
func (r Result) Failed() []BlockResult {
	var failed []BlockResult

	for _, block := range r.Blocks {
		if block.Err != nil {
			failed = append(failed, block)
		}
	}

	return failed
}

// Processor rewrites documents using a shared render cache.
type Processor struct {
	cache     *cache.Cache
	lang      string
	outputDir string
	class     string
	alt       string
	log       logrus.FieldLogger
}

// New returns a processor for the blocks and figures described by cfg.
func New(cfg config.Config, store *cache.Cache, log logrus.FieldLogger) *Processor {
	if log == nil {
		log = logging.Discard()
	}

	return &Processor{
		cache:     store,
		lang:      cfg.Language,
		outputDir: cfg.OutputDir,
		class:     cfg.FigureClass,
		alt:       cfg.Alt,
		log:       log,
	}
}

// Process renders every target block of source and returns the rewritten
// text. Blocks whose render fails are left verbatim and reported in
// Result.Blocks; they never fail the document.
func (p *Processor) Process(ctx context.Context, source []byte) Result {
	blocks := mdcode.Extract(source, p.lang)

	res := Result{Text: source, Manifest: Manifest{}} //nolint:exhaustruct
	if len(blocks) == 0 {
		return res
	}

	reps := make([]mdcode.Replacement, 0, len(blocks))

	for _, block := range blocks {
		entry, err := p.cache.Resolve(ctx, block.Content)
		if err == nil {
			var text []byte

			text, err = p.figure(block, entry).html()
			if err == nil {
				reps = append(reps, mdcode.Replacement{Block: block, Text: text})
				p.log.WithFields(logrus.Fields{
					"digest": entry.Digest,
					"line":   block.StartLine,
					"cached": entry.Hit,
				}).Debug("diagram resolved")
				res.Manifest[entry.Digest] = entry.Path
				res.Converted++
			}
		}

		if err != nil {
			p.log.WithFields(logrus.Fields{
				"digest": entry.Digest,
				"line":   block.StartLine,
			}).WithError(err).Warn("diagram left unrendered")
		}

		res.Blocks = append(res.Blocks, BlockResult{Block: block, Entry: entry, Err: err})
	}

	res.Text = mdcode.Rewrite(source, reps)

	return res
}

func (p *Processor) figure(block *mdcode.Block, entry cache.Entry) figure {
	fig := figure{
		Class: p.class,
		URL:   URL(p.outputDir, entry.Digest, p.cache.Ext()),
		Alt:   p.alt,
	}

	if alt := block.Meta.Get("alt"); len(alt) != 0 {
		fig.Alt = alt
	}

	if class := block.Meta.Get("class"); len(class) != 0 {
		fig.Class = class
	}

	return fig
}
