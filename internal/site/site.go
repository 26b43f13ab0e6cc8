// Package site prebuilds every diagram of a tree of documents.
package site

import (
	"bytes"
	"context"
	"io/fs"
	"runtime"

	"github.com/adrg/frontmatter"
	"github.com/ezerfernandes/mdprebuild/internal/config"
	"github.com/ezerfernandes/mdprebuild/internal/logging"
	"github.com/ezerfernandes/mdprebuild/internal/prebuild"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Failure is a document that could not be read or written.
type Failure struct {
	Document string
	Err      error
}

func (f Failure) Error() string {
	return f.Document + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a site pass.
type Report struct {
	// Documents is the number of documents selected and processed.
	Documents int
	Converted int
	// Unrendered counts blocks left in place because their render failed.
	Unrendered int
	Manifest   prebuild.Manifest
	Failures   []Failure
}

// Builder runs a Processor over the documents of a tree.
type Builder struct {
	Processor   *prebuild.Processor
	Filter      *Filter
	Logger      logrus.FieldLogger
	Concurrency int
	// Unchanged also writes documents without converted diagrams to the sink.
	Unchanged bool
	// PassThrough copies every selected document without rendering anything.
	PassThrough bool
}

type document struct {
	name       string
	converted  int
	unrendered int
	manifest   prebuild.Manifest
	err        error
}

// Build processes every selected document of src and writes the rewritten
// ones to sink. Failures of single documents are collected in the report;
// the returned error is reserved for a tree that cannot be walked or a
// cancelled context.
func (b *Builder) Build(ctx context.Context, src fs.FS, sink Sink) (Report, error) {
	names, err := b.documents(src)
	if err != nil {
		return Report{}, err //nolint:exhaustruct
	}

	docs := make([]document, len(names))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency())

	for idx, name := range names {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			docs[idx] = b.process(ctx, src, name, sink)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Report{}, err //nolint:exhaustruct
	}

	report := Report{Documents: len(docs), Manifest: prebuild.Manifest{}} //nolint:exhaustruct

	for _, doc := range docs {
		report.Converted += doc.converted
		report.Unrendered += doc.unrendered
		report.Manifest.Merge(doc.manifest)

		if doc.err != nil {
			report.Failures = append(report.Failures, Failure{Document: doc.name, Err: doc.err})
		}
	}

	return report, nil
}

func (b *Builder) documents(src fs.FS) ([]string, error) {
	var names []string

	err := fs.WalkDir(src, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if name != "." && b.Filter.Excluded(name+"/") {
				return fs.SkipDir
			}

			return nil
		}

		if entry.Type().IsRegular() && b.Filter.Match(name) {
			names = append(names, name)
		}

		return nil
	})

	return names, err
}

func (b *Builder) process(ctx context.Context, src fs.FS, name string, sink Sink) document {
	doc := document{name: name} //nolint:exhaustruct
	log := b.logger().WithField("document", name)

	source, err := fs.ReadFile(src, name)
	if err != nil {
		doc.err = err
		log.WithError(err).Warn("cannot read document")

		return doc
	}

	if b.PassThrough {
		return b.passThrough(doc, source, sink, log)
	}

	if optedOut(source) {
		log.Debug("prebuild disabled by front matter")

		return b.passThrough(doc, source, sink, log)
	}

	res := b.Processor.Process(ctx, source)

	doc.converted = res.Converted
	doc.unrendered = len(res.Failed())
	doc.manifest = res.Manifest

	if res.Converted == 0 {
		return b.passThrough(doc, source, sink, log)
	}

	if err := sink.Write(name, res.Text); err != nil {
		doc.err = err
		log.WithError(err).Warn("cannot write document")

		return doc
	}

	log.Infof("converted %d diagram(s) in %s", res.Converted, name)

	return doc
}

func (b *Builder) passThrough(doc document, source []byte, sink Sink, log logrus.FieldLogger) document {
	if !b.Unchanged && !b.PassThrough {
		return doc
	}

	if err := sink.Write(doc.name, source); err != nil {
		doc.err = err
		log.WithError(err).Warn("cannot write document")
	}

	return doc
}

func (b *Builder) concurrency() int {
	if b.Concurrency > 0 {
		return b.Concurrency
	}

	return runtime.NumCPU()
}

func (b *Builder) logger() logrus.FieldLogger {
	if b.Logger == nil {
		return logging.Discard()
	}

	return b.Logger
}

type frontMatter struct {
	Prebuild *bool `yaml:"mermaid_prebuild" toml:"mermaid_prebuild" json:"mermaid_prebuild"`
}

// optedOut reports whether the document front matter sets mermaid_prebuild
// to false. Documents with unreadable front matter are processed.
func optedOut(source []byte) bool {
	var matter frontMatter

	if _, err := frontmatter.Parse(bytes.NewReader(source), &matter); err != nil {
		return false
	}

	return matter.Prebuild != nil && !*matter.Prebuild
}

// NewBuilder returns a builder for the documents selected by cfg.
func NewBuilder(cfg config.Config, proc *prebuild.Processor, log logrus.FieldLogger) (*Builder, error) {
	filter, err := NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	return &Builder{
		Processor:   proc,
		Filter:      filter,
		Logger:      log,
		Concurrency: cfg.Concurrency,
		Unchanged:   false,
		PassThrough: false,
	}, nil
}
