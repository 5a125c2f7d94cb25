package gui

import (
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne"
	fyneapp "fyne.io/fyne/app"
	"fyne.io/fyne/container"
	"fyne.io/fyne/dialog"
	"fyne.io/fyne/widget"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/app"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/browser"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/gui/presenter"
)

const appID = "io.github.utilhub"

// UI is the main window.
type UI struct {
	session   *app.Session
	window    fyne.Window
	presenter *presenter.Presenter
	logger    *slog.Logger

	view      browser.View
	folderSel widget.ListItemID
	fileSel   widget.ListItemID

	folderList *widget.List
	fileList   *widget.List
	status     *widget.Label

	executeBtn      *widget.Button
	revealBtn       *widget.Button
	deleteBtn       *widget.Button
	deleteFolderBtn *widget.Button
}

// Run opens the main window for session and blocks until it is closed.
func Run(session *app.Session, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	a := fyneapp.NewWithID(appID)
	w := a.NewWindow(fmt.Sprintf("Python Utilities %s", session.Tag))
	w.SetMaster()

	ui := &UI{
		session:   session,
		window:    w,
		presenter: presenter.New(w, a.Settings(), session.Profile.Themeable, logger),
		logger:    logger,
		folderSel: -1,
		fileSel:   -1,
	}
	session.Editor.SetPresenter(ui.presenter)

	w.SetContent(ui.build())
	ui.presenter.ApplyPresentation(session.Config.Settings())
	ui.reload()

	w.CenterOnScreen()
	w.ShowAndRun()
}

func (ui *UI) build() fyne.CanvasObject {
	ui.folderList = widget.NewList(
		func() int { return len(ui.view.Folders) },
		func() fyne.CanvasObject { return widget.NewLabel("folder") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(ui.view.Folders[id])
		},
	)
	ui.folderList.OnSelected = ui.onFolderSelected

	ui.fileList = widget.NewList(
		func() int { return len(ui.view.Files) },
		func() fyne.CanvasObject { return widget.NewLabel("file") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(ui.view.Files[id].Rel)
		},
	)
	ui.fileList.OnSelected = ui.onFileSelected

	ui.executeBtn = widget.NewButton("Open in Shell", ui.onExecute)
	ui.executeBtn.Importance = widget.HighImportance
	ui.revealBtn = widget.NewButton("Open File Location", ui.onReveal)
	ui.deleteBtn = widget.NewButton("Delete", ui.onDelete)

	buttons := []fyne.CanvasObject{ui.executeBtn, ui.revealBtn, ui.deleteBtn}
	if ui.session.Profile.AllowFolderDelete {
		ui.deleteFolderBtn = widget.NewButton("Delete Folder", ui.onDeleteFolder)
		buttons = append(buttons, ui.deleteFolderBtn)
	}
	buttons = append(buttons,
		widget.NewButton("Refresh", ui.onRefresh),
		widget.NewButton("Settings", ui.onSettings),
	)

	ui.status = widget.NewLabel("")

	split := container.NewHSplit(
		container.NewBorder(widget.NewLabel("Folders"), nil, nil, nil, ui.folderList),
		container.NewBorder(widget.NewLabel("Files"), nil, nil, nil, ui.fileList),
	)
	split.Offset = 0.3

	return container.NewBorder(nil, container.NewVBox(container.NewHBox(buttons...), ui.status), nil, nil, split)
}

// reload re-renders from a fresh snapshot.
func (ui *UI) reload() {
	view, err := ui.session.Browser.Snapshot()
	if err != nil {
		ui.showError(err)
		return
	}
	ui.view = view

	if view.State == browser.NoFolderSelected && ui.folderSel >= 0 {
		ui.folderList.Unselect(ui.folderSel)
		ui.folderSel = -1
	}
	if view.File == nil && ui.fileSel >= 0 {
		ui.fileList.Unselect(ui.fileSel)
		ui.fileSel = -1
	}

	ui.folderList.Refresh()
	ui.fileList.Refresh()
	ui.updateButtons()
}

func (ui *UI) updateButtons() {
	set := func(b *widget.Button, on bool) {
		if b == nil {
			return
		}
		if on {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	act := ui.view.Actions
	set(ui.executeBtn, act.Execute)
	set(ui.revealBtn, act.Reveal)
	set(ui.deleteBtn, act.Delete)
	set(ui.deleteFolderBtn, act.DeleteFolder)

	switch {
	case ui.view.File != nil:
		ui.status.SetText(ui.view.File.Path)
	case ui.view.Folder != "":
		ui.status.SetText(fmt.Sprintf("%s: %d files", ui.view.Folder, len(ui.view.Files)))
	default:
		ui.status.SetText(ui.session.Browser.Root())
	}
}

func (ui *UI) onFolderSelected(id widget.ListItemID) {
	if id < 0 || id >= len(ui.view.Folders) {
		return
	}
	if ui.fileSel >= 0 {
		ui.fileList.Unselect(ui.fileSel)
		ui.fileSel = -1
	}
	ui.folderSel = id
	if _, err := ui.session.Browser.SelectFolder(ui.view.Folders[id]); err != nil {
		ui.showError(err)
	}
	ui.reload()
}

func (ui *UI) onFileSelected(id widget.ListItemID) {
	if id < 0 || id >= len(ui.view.Files) {
		return
	}
	ui.fileSel = id
	if err := ui.session.Browser.SelectFile(ui.view.Files[id].Rel); err != nil {
		ui.showError(err)
	}
	ui.reload()
}

func (ui *UI) onExecute() {
	if err := ui.session.Browser.Execute(); err != nil {
		ui.showError(err)
	}
}

func (ui *UI) onReveal() {
	if err := ui.session.Browser.Reveal(); err != nil {
		ui.showError(err)
	}
}

func (ui *UI) onDelete() {
	file := ui.view.File
	if file == nil {
		return
	}
	msg := fmt.Sprintf("Are you sure you want to delete %s?", file.Rel)
	dialog.ShowConfirm("Delete File", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := ui.session.Browser.DeleteFile(); err != nil {
			ui.showError(err)
			ui.reload()
			return
		}
		ui.reload()
		dialog.ShowInformation("Deleted", fmt.Sprintf("%s was deleted.", file.Name), ui.window)
	}, ui.window)
}

func (ui *UI) onDeleteFolder() {
	folder := ui.view.Folder
	if folder == "" {
		return
	}
	msg := fmt.Sprintf("Are you sure you want to delete the folder %s?", folder)
	dialog.ShowConfirm("Delete Folder", msg, func(ok bool) {
		if !ok {
			return
		}
		err := ui.session.Browser.DeleteFolder()
		switch {
		case errors.Is(err, browser.ErrDirectoryNotEmpty):
			dialog.ShowInformation("Folder Not Empty", fmt.Sprintf("%s still contains files.", folder), ui.window)
		case err != nil:
			ui.showError(err)
		default:
			dialog.ShowInformation("Deleted", fmt.Sprintf("%s was deleted.", folder), ui.window)
		}
		ui.reload()
	}, ui.window)
}

func (ui *UI) onRefresh() {
	if err := ui.session.Browser.Refresh(); err != nil {
		ui.showError(err)
	}
	ui.reload()
}

func (ui *UI) onSettings() {
	showSettings(ui.window, ui.session.Editor, func(err error) {
		ui.showError(err)
	})
}

func (ui *UI) showError(err error) {
	ui.logger.Error("action failed", "error", err)
	dialog.ShowError(err, ui.window)
}

// ShowFatal opens a small window describing a startup failure and blocks
// until the user quits.
func ShowFatal(err error) {
	a := fyneapp.NewWithID(appID)
	w := a.NewWindow("utilhub: startup failed")

	msg := widget.NewLabel(err.Error())
	msg.Wrapping = fyne.TextWrapWord
	quit := widget.NewButton("Quit", a.Quit)

	w.SetContent(container.NewBorder(nil, quit, nil, nil, msg))
	w.Resize(fyne.NewSize(420, 160))
	w.CenterOnScreen()
	w.ShowAndRun()
}
