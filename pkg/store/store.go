package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// ByteStore reads and writes named blobs of bytes
type ByteStore interface {
	// Read returns the full contents stored under name
	Read(name string) ([]byte, error)
	// Write stores data under name, replacing any existing contents
	Write(name string, data []byte) error
}

// Dir is a ByteStore backed by a directory on the local filesystem.
//
// Names are joined onto the root as given. Nothing stops a name containing
// ".." from resolving outside the root, and there is no locking between a
// concurrent Read and Write of the same name.
type Dir struct {
	root string
}

// NewDir creates a store rooted at the given directory
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the store was created with
func (d *Dir) Root() string {
	return d.root
}

// Path returns the filesystem path a name resolves to
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Read returns the raw bytes of the named file
func (d *Dir) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(d.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Write creates or truncates the named file and writes data to it
func (d *Dir) Write(name string, data []byte) error {
	if err := os.WriteFile(d.Path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
