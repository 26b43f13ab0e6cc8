package cache

import goerrors "github.com/goliatone/go-errors"

const (
	renderFailedCode  = "RENDER_FAILED"
	cacheIOFailedCode = "CACHE_IO_FAILED"
)

func renderFailure(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "render failed").
		WithTextCode(renderFailedCode)
}

func ioFailure(err error, action string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, action).
		WithTextCode(cacheIOFailedCode)
}

// IsRenderFailure reports whether err comes from a renderer that failed, timed
// out or produced nothing. Such failures are not cached and are safe to retry.
func IsRenderFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryExternal)
}

// IsIOFailure reports whether err comes from reading or writing the cache directory.
func IsIOFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryInternal)
}
