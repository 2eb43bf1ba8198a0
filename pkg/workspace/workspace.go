// Package workspace provides scoped temporary directories for staging
// artifacts before they reach their final location.
//
// Uploaded workbooks are validated in scratch space before being moved into
// the output directory, and that scratch space must be reclaimed on every
// exit path. A Workspace makes the acquisition explicit: create one, pass
// its path around, and defer Close.
//
//	ws, err := workspace.New("upload")
//	if err != nil {
//	    return err
//	}
//	defer ws.Close()
//
//	path := ws.File("barcodes.xlsx")
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a temporary directory that is removed on Close.
type Workspace struct {
	dir string
}

// New creates a workspace under the system temp directory. The directory
// name combines the prefix with a random UUID so concurrent runs never
// collide.
func New(prefix string) (*Workspace, error) {
	if prefix == "" {
		prefix = "labelforge"
	}
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Path returns the workspace directory.
func (w *Workspace) Path() string {
	return w.dir
}

// File returns the path of name inside the workspace.
func (w *Workspace) File(name string) string {
	return filepath.Join(w.dir, name)
}

// Close removes the workspace directory and everything in it.
// Close is idempotent.
func (w *Workspace) Close() error {
	if w.dir == "" {
		return nil
	}
	dir := w.dir
	w.dir = ""
	return os.RemoveAll(dir)
}
