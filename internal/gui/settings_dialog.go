package gui

import (
	"fyne.io/fyne"
	"fyne.io/fyne/dialog"
	"fyne.io/fyne/widget"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/settings"
)

// noneChoice stands for an empty optional value in a select.
const noneChoice = "(none)"

// showSettings opens the modal editor. Save writes every field back.
func showSettings(parent fyne.Window, editor *settings.Editor, onError func(error)) {
	form := editor.Open()
	readers := make([]func() string, len(form.Fields))

	var items []*widget.FormItem
	for i, field := range form.Fields {
		if len(field.Choices) > 0 {
			choices := field.Choices
			if field.Optional {
				choices = append([]string{noneChoice}, choices...)
			}
			sel := widget.NewSelect(choices, nil)
			switch {
			case field.Value != "":
				sel.SetSelected(field.Value)
			case field.Optional:
				sel.SetSelected(noneChoice)
			}
			readers[i] = func() string {
				if sel.Selected == noneChoice {
					return ""
				}
				return sel.Selected
			}
			items = append(items, widget.NewFormItem(field.Label, sel))
			continue
		}

		entry := widget.NewEntry()
		entry.SetText(field.Value)
		readers[i] = func() string { return entry.Text }
		items = append(items, widget.NewFormItem(field.Label, entry))
	}

	content := widget.NewForm(items...)
	d := dialog.NewCustomConfirm("Settings", "Save", "Cancel", content, func(save bool) {
		if !save {
			editor.Cancel()
			return
		}
		for i, field := range form.Fields {
			if err := form.Set(field.Key, readers[i]()); err != nil {
				onError(err)
				return
			}
		}
		if _, err := editor.Save(form); err != nil {
			onError(err)
		}
	}, parent)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}
