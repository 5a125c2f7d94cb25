// Package browser is the headless state machine behind the launcher window
// and the list/run/reveal/rm commands.
//
// The browser moves between three states:
//
//	NoFolderSelected -> FolderSelected -> FileSelected
//
// Folder and file listings are derived from disk on every selection and
// never cached. Actions on the selected file go through a shell.Launcher so
// scripts never run inside the launcher process.
package browser
