package filesystem

import (
	"io/fs"

	"github.com/jakoblorz/go-expressgen/internal/models"
)

const (
	dirPerm  fs.FileMode = 0755
	filePerm fs.FileMode = 0644
)

// Gateway performs the directory and file operations of a generation run.
// Every failure is returned as a *models.IOError.
type Gateway struct {
	fs FileSystem
}

// NewGateway creates a Gateway over fs
func NewGateway(fs FileSystem) *Gateway {
	return &Gateway{fs: fs}
}

// FS returns the underlying FileSystem
func (g *Gateway) FS() FileSystem {
	return g.fs
}

// CreateDirectory creates path and all missing ancestors. Existing directories are left as is.
func (g *Gateway) CreateDirectory(path string) error {
	if err := g.fs.MkdirAll(path, dirPerm); err != nil {
		return &models.IOError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}

// WriteFile creates or overwrites the file at path. The parent directory must exist.
func (g *Gateway) WriteFile(path, contents string) error {
	if err := g.fs.WriteFile(path, []byte(contents), filePerm); err != nil {
		return &models.IOError{Op: "write file", Path: path, Err: err}
	}
	return nil
}

// ReadFile returns the contents of path
func (g *Gateway) ReadFile(path string) (string, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return "", &models.IOError{Op: "read file", Path: path, Err: err}
	}
	return string(data), nil
}

// AppendFile appends contents to path, creating the file when it does not exist
func (g *Gateway) AppendFile(path, contents string) error {
	if err := g.fs.AppendFile(path, []byte(contents), filePerm); err != nil {
		return &models.IOError{Op: "append file", Path: path, Err: err}
	}
	return nil
}
