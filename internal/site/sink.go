package site

import (
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/renameio"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Sink receives rewritten documents under their slash-separated source path.
type Sink interface {
	Write(name string, data []byte) error
}

// DirSink writes documents below a directory, replacing each file atomically.
type DirSink string

// Write stores data at name relative to the sink directory.
func (d DirSink) Write(name string, data []byte) error {
	target := filepath.Join(string(d), filepath.FromSlash(path.Clean(name)))

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return err
	}

	return renameio.WriteFile(target, data, fileMode)
}

// MapSink keeps documents in memory.
type MapSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// Write records data under name.
func (m *MapSink) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.files == nil {
		m.files = make(map[string][]byte)
	}

	m.files[name] = append([]byte(nil), data...)

	return nil
}

// Files returns a copy of everything written so far.
func (m *MapSink) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	files := make(map[string][]byte, len(m.files))
	for name, data := range m.files {
		files[name] = data
	}

	return files
}
