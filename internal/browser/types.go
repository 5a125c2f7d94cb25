package browser

import "errors"

// ErrDirectoryNotEmpty is returned when deleting a folder that still has
// entries.
var ErrDirectoryNotEmpty = errors.New("directory not empty")

// ErrNoSelection is returned by actions that need a selection.
var ErrNoSelection = errors.New("nothing selected")

// State is the selection state.
type State int

const (
	NoFolderSelected State = iota
	FolderSelected
	FileSelected
)

func (s State) String() string {
	switch s {
	case NoFolderSelected:
		return "no-folder-selected"
	case FolderSelected:
		return "folder-selected"
	case FileSelected:
		return "file-selected"
	default:
		return "unknown"
	}
}

// FileEntry is a file below the selected folder.
type FileEntry struct {
	// Name is the base name.
	Name string
	// Rel is the slash-separated path relative to the selected folder.
	Rel string
	// Path is the absolute path on disk.
	Path string
}

// Actions reports which actions are currently available.
type Actions struct {
	Execute      bool
	Reveal       bool
	Delete       bool
	DeleteFolder bool
}

// View is an immutable snapshot for rendering.
type View struct {
	State   State
	Folders []string
	Folder  string
	Files   []FileEntry
	File    *FileEntry
	Actions Actions
}
