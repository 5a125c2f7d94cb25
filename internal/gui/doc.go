// Package gui is the fyne front end: a folder list, a file list and the
// action buttons of the browser, plus the settings dialog.
//
// All state lives in browser.Browser. The window only renders snapshots of it
// and forwards button presses.
package gui
