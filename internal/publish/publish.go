// Package publish places cached artifacts into a built site.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/mdprebuild/internal/digest"
	"github.com/ezerfernandes/mdprebuild/internal/prebuild"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/renameio"
	"github.com/sirupsen/logrus"
)

const (
	dirMode  = 0o755
	fileMode = 0o644

	invalidKeyCode = "INVALID_DIGEST"
)

// Copy copies every artifact of manifest to destRoot/outputDir, named by its
// digest and the extension of the cached file. It returns the number of
// artifacts copied and stops at the first failure.
func Copy(manifest prebuild.Manifest, destRoot, outputDir string, log logrus.FieldLogger) (int, error) {
	if len(manifest) == 0 {
		return 0, nil
	}

	for _, key := range manifest.Keys() {
		if !digest.Valid(key) {
			return 0, goerrors.Wrap(errInvalidKey, goerrors.CategoryValidation, fmt.Sprintf("artifact key %q", key)).
				WithTextCode(invalidKeyCode)
		}
	}

	dir := filepath.Join(destRoot, filepath.FromSlash(outputDir))
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return 0, err
	}

	var count int

	for _, key := range manifest.Keys() {
		source := manifest[key]

		data, err := os.ReadFile(source)
		if err != nil {
			return count, err
		}

		target := filepath.Join(dir, key+filepath.Ext(source))
		if err := renameio.WriteFile(target, data, fileMode); err != nil {
			return count, err
		}

		count++
	}

	if log != nil {
		log.WithField("dir", dir).Infof("copied %d artifact(s)", count)
	}

	return count, nil
}

var errInvalidKey = errors.New("not a content digest")
