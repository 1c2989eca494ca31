package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MockFileSystem provides in-memory filesystem for testing
type MockFileSystem struct {
	files      map[string]*MockFile
	currentDir string

	// denied paths fail every mutating operation on themselves and their descendants
	denied []string
}

// MockFile represents a file in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates a new MockFileSystem rooted at /workspace
func NewMockFileSystem() *MockFileSystem {
	mfs := &MockFileSystem{
		files:      make(map[string]*MockFile),
		currentDir: "/workspace",
	}
	mfs.AddDir(mfs.currentDir)
	return mfs
}

// AddFile adds a file to the mock filesystem, creating missing parents
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	cleanPath := filepath.Clean(path)
	mfs.addParents(cleanPath)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
	}
}

// AddDir adds a directory to the mock filesystem, creating missing parents
func (mfs *MockFileSystem) AddDir(path string) {
	cleanPath := filepath.Clean(path)
	mfs.addParents(cleanPath)
	if _, exists := mfs.files[cleanPath]; !exists {
		mfs.files[cleanPath] = &MockFile{
			Mode:    0755 | fs.ModeDir,
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
}

func (mfs *MockFileSystem) addParents(cleanPath string) {
	for dir := filepath.Dir(cleanPath); dir != "." && dir != "/" && dir != cleanPath; dir = filepath.Dir(dir) {
		if _, exists := mfs.files[dir]; !exists {
			mfs.files[dir] = &MockFile{
				Mode:    0755 | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
		}
	}
}

// Deny makes every write or mkdir at or below path fail with fs.ErrPermission
func (mfs *MockFileSystem) Deny(path string) {
	mfs.denied = append(mfs.denied, filepath.Clean(path))
}

func (mfs *MockFileSystem) isDenied(cleanPath string) bool {
	for _, d := range mfs.denied {
		if cleanPath == d || strings.HasPrefix(cleanPath, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	file, exists := mfs.files[filepath.Clean(path)]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	return file.Content, nil
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	cleanPath := filepath.Clean(path)
	if mfs.isDenied(cleanPath) {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}

	// Parent directory must already exist
	dir := filepath.Dir(cleanPath)
	if dir != "." && dir != "/" {
		parent, exists := mfs.files[dir]
		if !exists {
			return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		if !parent.IsDir {
			return &fs.PathError{Op: "open", Path: path, Err: errors.New("not a directory")}
		}
	}

	if existing, ok := mfs.files[cleanPath]; ok && existing.IsDir {
		return &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(data))
	copy(content, data)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    perm,
		ModTime: time.Now(),
	}
	return nil
}

// AppendFile appends data to path with the same parent rules as WriteFile
func (mfs *MockFileSystem) AppendFile(path string, data []byte, perm fs.FileMode) error {
	existing, err := mfs.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	combined := make([]byte, 0, len(existing)+len(data))
	combined = append(combined, existing...)
	combined = append(combined, data...)
	return mfs.WriteFile(path, combined, perm)
}

func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	cleanPath := filepath.Clean(path)

	// Collect the chain of ancestors from the outermost down to path
	var chain []string
	for p := cleanPath; p != "." && p != "/"; p = filepath.Dir(p) {
		chain = append([]string{p}, chain...)
		if filepath.Dir(p) == p {
			break
		}
	}

	for _, p := range chain {
		if existing, exists := mfs.files[p]; exists {
			if !existing.IsDir {
				return &fs.PathError{Op: "mkdir", Path: p, Err: errors.New("not a directory")}
			}
			continue
		}
		if mfs.isDenied(p) {
			return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrPermission}
		}
		mfs.files[p] = &MockFile{
			Mode:    perm | fs.ModeDir,
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
	return nil
}

func (mfs *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	file, exists := mfs.files[filepath.Clean(path)]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}

	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		mode:    file.Mode,
		modTime: file.ModTime,
		isDir:   file.IsDir,
	}, nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	_, exists := mfs.files[filepath.Clean(path)]
	return exists
}

func (mfs *MockFileSystem) Getwd() (string, error) {
	return mfs.currentDir, nil
}

func (mfs *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	cleanRoot := filepath.Clean(root)

	if _, exists := mfs.files[cleanRoot]; !exists {
		return &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist}
	}

	// Collect all paths that are under root
	var paths []string
	for p := range mfs.files {
		if p == cleanRoot || strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
			paths = append(paths, p)
		}
	}

	// Sort paths for consistent ordering
	sort.Strings(paths)

	var skipped []string
	for _, p := range paths {
		if hasAnyPrefix(p, skipped) {
			continue
		}

		file := mfs.files[p]
		info := &mockFileInfo{
			name:    filepath.Base(p),
			size:    int64(len(file.Content)),
			mode:    file.Mode,
			modTime: file.ModTime,
			isDir:   file.IsDir,
		}

		if err := fn(p, &mockDirEntry{info: info}, nil); err != nil {
			if errors.Is(err, filepath.SkipDir) && file.IsDir {
				skipped = append(skipped, p+string(filepath.Separator))
				continue
			}
			return err
		}
	}

	return nil
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// SetCurrentDir sets the current working directory for the mock
func (mfs *MockFileSystem) SetCurrentDir(dir string) {
	mfs.AddDir(dir)
	mfs.currentDir = filepath.Clean(dir)
}

// GetFiles returns all entries in the mock filesystem
func (mfs *MockFileSystem) GetFiles() map[string]*MockFile {
	return mfs.files
}

// Dirs returns the sorted directory paths at or below root
func (mfs *MockFileSystem) Dirs(root string) []string {
	return mfs.list(root, true)
}

// Files returns the sorted regular file paths at or below root
func (mfs *MockFileSystem) Files(root string) []string {
	return mfs.list(root, false)
}

func (mfs *MockFileSystem) list(root string, dirs bool) []string {
	cleanRoot := filepath.Clean(root)
	var out []string
	for p, f := range mfs.files {
		if f.IsDir != dirs {
			continue
		}
		if p == cleanRoot || strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
