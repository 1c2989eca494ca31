package filesystem

import (
	"io/fs"
)

// FileSystem is the disk surface of a generation run. Paths are absolute or
// relative to Getwd; writes never create missing parent directories.
type FileSystem interface {
	// Files
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	AppendFile(path string, data []byte, perm fs.FileMode) error

	// Directories
	MkdirAll(path string, perm fs.FileMode) error
	WalkDir(root string, fn fs.WalkDirFunc) error

	// Lookups
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
	Getwd() (string, error)
}
