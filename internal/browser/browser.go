package browser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/profile"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/shell"
)

// Browser tracks the folder and file selection inside a working directory.
type Browser struct {
	mu       sync.Mutex
	root     string
	opts     profile.Options
	launcher shell.Launcher
	logger   *slog.Logger

	state  State
	folder string
	files  []FileEntry
	file   *FileEntry
}

// New creates a browser over root.
func New(root string, opts profile.Options, launcher shell.Launcher, logger *slog.Logger) (*Browser, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat working directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("working directory %s is not a directory", root)
	}
	if launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		root:     root,
		opts:     opts,
		launcher: launcher,
		logger:   logger,
		state:    NoFolderSelected,
	}, nil
}

// Root returns the working directory.
func (b *Browser) Root() string {
	return b.root
}

// Options returns the profile options in effect.
func (b *Browser) Options() profile.Options {
	return b.opts
}

// State returns the current state.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Folders lists the immediate subdirectories of the working directory,
// sorted. Dot-prefixed directories and symlinks to directories count.
func (b *Browser) Folders() ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, goerr.Wrap(err, "list folders", goerr.V("root", b.root))
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(b.root, e.Name())); err == nil && info.IsDir() {
				folders = append(folders, e.Name())
			}
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// SelectFolder selects name and lists every file beneath it.
func (b *Browser) SelectFolder(name string) ([]FileEntry, error) {
	dir, err := b.folderPath(name)
	if err != nil {
		return nil, err
	}

	files, err := b.walk(dir)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = FolderSelected
	b.folder = name
	b.files = files
	b.file = nil
	return copyFiles(files), nil
}

// SelectFile selects the file with relative path rel in the current listing.
func (b *Browser) SelectFile(rel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == NoFolderSelected {
		return goerr.Wrap(ErrNoSelection, "select a folder first")
	}
	for i := range b.files {
		if b.files[i].Rel == rel {
			entry := b.files[i]
			b.file = &entry
			b.state = FileSelected
			return nil
		}
	}
	return goerr.New("file not in current listing", goerr.V("file", rel), goerr.V("folder", b.folder))
}

// ClearFile drops the file selection and keeps the folder.
func (b *Browser) ClearFile() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == FileSelected {
		b.state = FolderSelected
		b.file = nil
	}
}

// Refresh re-derives the file listing of the selected folder. A folder that
// disappeared returns the browser to NoFolderSelected; a vanished selected
// file drops the file selection.
func (b *Browser) Refresh() error {
	b.mu.Lock()
	folder := b.folder
	state := b.state
	b.mu.Unlock()

	if state == NoFolderSelected {
		return nil
	}

	dir := filepath.Join(b.root, folder)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		b.reset()
		return nil
	}

	files, err := b.walk(dir)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.files = files
	if b.file != nil {
		found := false
		for _, f := range files {
			if f.Rel == b.file.Rel {
				found = true
				break
			}
		}
		if !found {
			b.file = nil
			b.state = FolderSelected
		}
	}
	return nil
}

// Actions reports what can be done in the current state.
func (b *Browser) Actions() Actions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.actionsLocked()
}

func (b *Browser) actionsLocked() Actions {
	fileSelected := b.state == FileSelected
	return Actions{
		Execute:      fileSelected,
		Reveal:       b.state != NoFolderSelected,
		Delete:       fileSelected,
		DeleteFolder: b.state != NoFolderSelected && b.opts.AllowFolderDelete,
	}
}

// Execute opens the selected file in a new terminal.
func (b *Browser) Execute() error {
	file, err := b.selectedFile()
	if err != nil {
		return err
	}
	b.logger.Debug("execute", "file", file.Path)
	return b.launcher.Execute(filepath.Dir(file.Path), file.Name)
}

// Reveal opens the directory of the selected file, or the selected folder.
func (b *Browser) Reveal() error {
	b.mu.Lock()
	var dir string
	switch {
	case b.file != nil:
		dir = filepath.Dir(b.file.Path)
	case b.state == FolderSelected:
		dir = filepath.Join(b.root, b.folder)
	}
	b.mu.Unlock()

	if dir == "" {
		return goerr.Wrap(ErrNoSelection, "reveal")
	}
	return b.launcher.Reveal(dir)
}

// DeleteFile removes the selected file and re-derives the listing. The
// browser ends in FolderSelected, or in NoFolderSelected when the folder has
// no files left to list.
func (b *Browser) DeleteFile() error {
	file, err := b.selectedFile()
	if err != nil {
		return err
	}

	if err := os.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "delete file", goerr.V("path", file.Path))
	}
	b.logger.Info("deleted file", "path", file.Path)

	b.mu.Lock()
	b.file = nil
	b.state = FolderSelected
	b.mu.Unlock()

	if err := b.Refresh(); err != nil {
		return err
	}

	b.mu.Lock()
	empty := len(b.files) == 0
	b.mu.Unlock()
	if empty {
		b.reset()
	}
	return nil
}

// DeleteFolder removes the selected folder if it is empty. A non-empty
// folder yields ErrDirectoryNotEmpty and changes nothing.
func (b *Browser) DeleteFolder() error {
	if !b.opts.AllowFolderDelete {
		return goerr.New("folder deletion is disabled by the deployment profile")
	}

	b.mu.Lock()
	folder := b.folder
	state := b.state
	b.mu.Unlock()
	if state == NoFolderSelected {
		return goerr.Wrap(ErrNoSelection, "delete folder")
	}

	dir := filepath.Join(b.root, folder)
	empty, err := isEmptyDir(dir)
	if err != nil {
		return goerr.Wrap(err, "inspect folder", goerr.V("path", dir))
	}
	if !empty {
		return goerr.Wrap(ErrDirectoryNotEmpty, "delete folder", goerr.V("path", dir))
	}

	if err := os.Remove(dir); err != nil {
		return goerr.Wrap(err, "delete folder", goerr.V("path", dir))
	}
	b.logger.Info("deleted folder", "path", dir)

	b.reset()
	return nil
}

// Snapshot returns the current state for rendering, with the folder list
// freshly read from disk.
func (b *Browser) Snapshot() (View, error) {
	folders, err := b.Folders()
	if err != nil {
		return View{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	v := View{
		State:   b.state,
		Folders: folders,
		Folder:  b.folder,
		Files:   copyFiles(b.files),
		Actions: b.actionsLocked(),
	}
	if b.file != nil {
		f := *b.file
		v.File = &f
	}
	return v, nil
}

func (b *Browser) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = NoFolderSelected
	b.folder = ""
	b.files = nil
	b.file = nil
}

func (b *Browser) selectedFile() (FileEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file == nil {
		return FileEntry{}, goerr.Wrap(ErrNoSelection, "no file selected")
	}
	return *b.file, nil
}

// folderPath validates that name is an immediate subdirectory.
func (b *Browser) folderPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", goerr.New("invalid folder name", goerr.V("folder", name))
	}
	dir := filepath.Join(b.root, name)
	info, err := os.Stat(dir)
	if err != nil {
		return "", goerr.Wrap(err, "select folder", goerr.V("folder", name))
	}
	if !info.IsDir() {
		return "", goerr.New("not a folder", goerr.V("folder", name))
	}
	return dir, nil
}

// walk lists every file below dir that passes the extension filter, sorted
// by relative path. Symlinks to files are listed; symlinked directories are
// not descended into below the selected folder itself.
func (b *Browser) walk(dir string) ([]FileEntry, error) {
	// WalkDir does not follow a symlinked root.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "resolve folder", goerr.V("dir", dir))
	}

	var files []FileEntry
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			if d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		if !b.opts.Matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		files = append(files, FileEntry{
			Name: d.Name(),
			Rel:  filepath.ToSlash(rel),
			Path: filepath.Join(dir, rel),
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "list files", goerr.V("dir", dir))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func isEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

func copyFiles(files []FileEntry) []FileEntry {
	if files == nil {
		return nil
	}
	out := make([]FileEntry, len(files))
	copy(out, files)
	return out
}
