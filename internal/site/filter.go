package site

import (
	"github.com/gobwas/glob"
)

// Filter selects documents by slash-separated path.
// A path is selected when it matches an include pattern and no exclude pattern.
// With no include patterns every path not excluded is selected.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles include and exclude glob patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	filter := new(Filter)

	var err error

	if filter.include, err = compile(include); err != nil {
		return nil, err
	}

	if filter.exclude, err = compile(exclude); err != nil {
		return nil, err
	}

	return filter, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}

		globs = append(globs, g)
	}

	return globs, nil
}

// Match reports whether the document at name is selected.
func (f *Filter) Match(name string) bool {
	if f == nil {
		return true
	}

	if f.Excluded(name) {
		return false
	}

	if len(f.include) == 0 {
		return true
	}

	return matchAny(f.include, name)
}

// Excluded reports whether name matches an exclude pattern.
func (f *Filter) Excluded(name string) bool {
	return f != nil && matchAny(f.exclude, name)
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}
