package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Op names a MockFileSystem operation for failure injection.
type Op string

// Mock operations that can be made to fail with FailOn.
const (
	OpChtimes Op = "chtimes"
	OpCreate  Op = "create"
	OpMkdir   Op = "mkdir"
	OpOpen    Op = "open"
	OpReadDir Op = "readdir"
	OpRemove  Op = "remove"
	OpRename  Op = "rename"
	OpStat    Op = "stat"
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths always use forward slashes.
type MockFileSystem struct {
	mu       sync.RWMutex
	files    map[string]*mockFile
	failures map[failureKey]error
}

type failureKey struct {
	op   Op
	path string
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	data    []byte
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}

	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.reader == nil {
		return 0, io.EOF
	}

	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.writer == nil {
		f.writer = &bytes.Buffer{}
	}

	return f.writer.Write(p)
}

// Close flushes written data into the filesystem.
func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}

	f.closed = true

	if f.writer != nil {
		f.fs.mu.Lock()
		defer f.fs.mu.Unlock()

		if file, exists := f.fs.files[f.path]; exists {
			file.data = f.writer.Bytes()
		} else {
			f.fs.files[f.path] = &mockFile{data: f.writer.Bytes(), modTime: time.Now(), perm: 0o644}
		}
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem containing only "/".
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: map[string]*mockFile{
			"/": {isDir: true, perm: 0o755, modTime: time.Now()},
		},
		failures: make(map[failureKey]error),
	}
}

// Chtimes changes the access and modification times of a file.
func (mfs *MockFileSystem) Chtimes(name string, _, mtime time.Time) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = cleanPath(name)
	if err := mfs.failure(OpChtimes, name); err != nil {
		return err
	}

	file, exists := mfs.files[name]
	if !exists {
		return notExist("chtimes", name)
	}

	file.modTime = mtime

	return nil
}

// Create creates or truncates a file for writing. The parent must exist.
func (mfs *MockFileSystem) Create(name string) (File, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = cleanPath(name)
	if err := mfs.failure(OpCreate, name); err != nil {
		return nil, err
	}

	parent, exists := mfs.files[path.Dir(name)]
	if !exists || !parent.isDir {
		return nil, notExist("create", name)
	}

	if existing, ok := mfs.files[name]; ok && existing.isDir {
		return nil, &os.PathError{Op: "create", Path: name, Err: errors.New("is a directory")}
	}

	mfs.files[name] = &mockFile{data: []byte{}, modTime: time.Now(), perm: 0o644}

	return &mockFileHandle{fs: mfs, path: name, writer: &bytes.Buffer{}}, nil
}

// Dir returns all but the last element of p.
func (mfs *MockFileSystem) Dir(p string) string {
	return path.Dir(p)
}

// Join joins path elements with forward slashes.
func (mfs *MockFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// MkdirAll creates a directory and all necessary parents.
func (mfs *MockFileSystem) MkdirAll(name string, perm os.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	return mfs.mkdirAllLocked(cleanPath(name), perm)
}

// Open opens a file for reading.
func (mfs *MockFileSystem) Open(name string) (File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = cleanPath(name)
	if err := mfs.failure(OpOpen, name); err != nil {
		return nil, err
	}

	file, exists := mfs.files[name]
	if !exists {
		return nil, notExist("open", name)
	}

	if file.isDir {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("is a directory")}
	}

	return &mockFileHandle{fs: mfs, path: name, reader: bytes.NewReader(file.data)}, nil
}

// ReadDir returns the sorted names of the direct children of a directory.
func (mfs *MockFileSystem) ReadDir(name string) ([]string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = cleanPath(name)
	if err := mfs.failure(OpReadDir, name); err != nil {
		return nil, err
	}

	dir, exists := mfs.files[name]
	if !exists {
		return nil, notExist("readdir", name)
	}

	if !dir.isDir {
		return nil, &os.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	names := make([]string, 0)

	for p := range mfs.files {
		if p != name && path.Dir(p) == name {
			names = append(names, path.Base(p))
		}
	}

	sort.Strings(names)

	return names, nil
}

// Remove removes a file or empty directory.
func (mfs *MockFileSystem) Remove(name string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = cleanPath(name)
	if err := mfs.failure(OpRemove, name); err != nil {
		return err
	}

	file, exists := mfs.files[name]
	if !exists {
		return notExist("remove", name)
	}

	if file.isDir && mfs.hasChildrenLocked(name) {
		return &os.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
	}

	delete(mfs.files, name)

	return nil
}

// Rename moves oldName (and, for directories, its subtree) to newName.
func (mfs *MockFileSystem) Rename(oldName, newName string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	oldName = cleanPath(oldName)
	newName = cleanPath(newName)

	if err := mfs.failure(OpRename, oldName); err != nil {
		return err
	}

	file, exists := mfs.files[oldName]
	if !exists {
		return notExist("rename", oldName)
	}

	if parent, ok := mfs.files[path.Dir(newName)]; !ok || !parent.isDir {
		return notExist("rename", newName)
	}

	if existing, ok := mfs.files[newName]; ok && existing.isDir {
		return &os.PathError{Op: "rename", Path: newName, Err: errors.New("file exists")}
	}

	moved := map[string]*mockFile{newName: file}

	if file.isDir {
		for p, child := range mfs.files {
			if strings.HasPrefix(p, oldName+"/") {
				moved[newName+strings.TrimPrefix(p, oldName)] = child
				delete(mfs.files, p)
			}
		}
	}

	delete(mfs.files, oldName)

	for p, f := range moved {
		mfs.files[p] = f
	}

	return nil
}

// Stat returns file information.
func (mfs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = cleanPath(name)
	if err := mfs.failure(OpStat, name); err != nil {
		return nil, err
	}

	file, exists := mfs.files[name]
	if !exists {
		return nil, notExist("stat", name)
	}

	return &mockFileInfo{
		name:    path.Base(name),
		size:    int64(len(file.data)),
		modTime: file.modTime,
		isDir:   file.isDir,
		perm:    file.perm,
	}, nil
}

// Walk returns an iterator over all entries below root in lexical order,
// which puts every directory before its children.
func (mfs *MockFileSystem) Walk(root string) FileScanner {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	root = cleanPath(root)
	if _, exists := mfs.files[root]; !exists {
		return errScanner{err: notExist("walk", root)}
	}

	prefix := strings.TrimSuffix(root, "/") + "/"
	infos := make([]FileInfo, 0)

	for p, file := range mfs.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}

		infos = append(infos, FileInfo{
			RelativePath: strings.TrimPrefix(p, prefix),
			Size:         int64(len(file.data)),
			ModTime:      file.modTime,
			IsDir:        file.isDir,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].RelativePath < infos[j].RelativePath
	})

	return &sliceScanner{infos: infos, index: -1}
}

// Helper methods for testing

// AddFile adds a file with the given content and modtime, creating parents.
func (mfs *MockFileSystem) AddFile(name string, content []byte, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = cleanPath(name)
	_ = mfs.mkdirAllLocked(path.Dir(name), 0o755)

	mfs.files[name] = &mockFile{
		data:    append([]byte(nil), content...),
		modTime: modTime,
		perm:    0o644,
	}
}

// AddDir adds a directory, creating parents.
func (mfs *MockFileSystem) AddDir(name string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = cleanPath(name)
	_ = mfs.mkdirAllLocked(name, 0o755)
	mfs.files[name].modTime = modTime
}

// Exists checks if a path exists in the mock filesystem.
func (mfs *MockFileSystem) Exists(name string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	_, exists := mfs.files[cleanPath(name)]

	return exists
}

// FailOn makes every subsequent op on name return err. A nil err clears it.
func (mfs *MockFileSystem) FailOn(op Op, name string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	key := failureKey{op: op, path: cleanPath(name)}
	if err == nil {
		delete(mfs.failures, key)
		return
	}

	mfs.failures[key] = err
}

// GetFile retrieves a file's content and modtime.
func (mfs *MockFileSystem) GetFile(name string) ([]byte, time.Time, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = cleanPath(name)

	file, exists := mfs.files[name]
	if !exists {
		return nil, time.Time{}, notExist("get", name)
	}

	if file.isDir {
		return nil, time.Time{}, fmt.Errorf("%s is a directory", name)
	}

	return append([]byte(nil), file.data...), file.modTime, nil
}

// ListFiles returns all paths in the mock filesystem except "/".
func (mfs *MockFileSystem) ListFiles() []string {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	paths := make([]string, 0, len(mfs.files))

	for p := range mfs.files {
		if p != "/" {
			paths = append(paths, p)
		}
	}

	sort.Strings(paths)

	return paths
}

func (mfs *MockFileSystem) failure(op Op, name string) error {
	if err, ok := mfs.failures[failureKey{op: op, path: name}]; ok {
		return &os.PathError{Op: string(op), Path: name, Err: err}
	}

	return nil
}

func (mfs *MockFileSystem) hasChildrenLocked(name string) bool {
	prefix := strings.TrimSuffix(name, "/") + "/"

	for p := range mfs.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	return false
}

// mkdirAllLocked is the internal implementation that assumes the lock is held.
func (mfs *MockFileSystem) mkdirAllLocked(name string, perm os.FileMode) error {
	if err := mfs.failure(OpMkdir, name); err != nil {
		return err
	}

	if existing, exists := mfs.files[name]; exists {
		if !existing.isDir {
			return &os.PathError{Op: "mkdir", Path: name, Err: errors.New("not a directory")}
		}

		return nil
	}

	if err := mfs.mkdirAllLocked(path.Dir(name), perm); err != nil {
		return err
	}

	mfs.files[name] = &mockFile{modTime: time.Now(), isDir: true, perm: perm}

	return nil
}

// sliceScanner iterates over a precomputed slice of FileInfo.
type sliceScanner struct {
	infos []FileInfo
	index int
}

func (s *sliceScanner) Next() (FileInfo, bool) {
	s.index++
	if s.index >= len(s.infos) {
		return FileInfo{}, false
	}

	return s.infos[s.index], true
}

func (s *sliceScanner) Err() error { return nil }

func cleanPath(name string) string {
	return path.Clean("/" + name)
}

func notExist(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
}
