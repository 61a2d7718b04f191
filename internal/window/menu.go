package window

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// EditorActions is what the native menu can ask the shell to do.
type EditorActions interface {
	Open()
	Save()
	ToggleDevTools()
	Reload()
}

// FolderOpener is implemented by shells that can pick a directory.
type FolderOpener interface {
	OpenFolder()
}

// RecentOpener is implemented by shells that reopen recent documents.
type RecentOpener interface {
	OpenRecent(path string)
}

var (
	openShortcut   = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	saveShortcut   = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	reloadShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}
	devShortcut    = &desktop.CustomShortcut{KeyName: fyne.KeyI, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
)

// BuildMenu creates the application menu for actions. recent lists the
// entries of File > Open Recent, newest first.
func BuildMenu(actions EditorActions, recent []string) *fyne.MainMenu {
	openItem := fyne.NewMenuItem("Open...", actions.Open)
	openItem.Shortcut = openShortcut

	saveItem := fyne.NewMenuItem("Save", actions.Save)
	saveItem.Shortcut = saveShortcut

	fileItems := []*fyne.MenuItem{openItem}

	if opener, ok := actions.(FolderOpener); ok {
		fileItems = append(fileItems, fyne.NewMenuItem("Open Folder...", opener.OpenFolder))
	}

	if opener, ok := actions.(RecentOpener); ok && len(recent) > 0 {
		recentItem := fyne.NewMenuItem("Open Recent", nil)
		children := make([]*fyne.MenuItem, 0, len(recent))
		for _, path := range recent {
			path := path
			children = append(children, fyne.NewMenuItem(filepath.Base(path), func() {
				opener.OpenRecent(path)
			}))
		}
		recentItem.ChildMenu = fyne.NewMenu("", children...)
		fileItems = append(fileItems, recentItem)
	}

	fileItems = append(fileItems, fyne.NewMenuItemSeparator(), saveItem)
	fileMenu := fyne.NewMenu("File", fileItems...)

	reloadItem := fyne.NewMenuItem("Reload", actions.Reload)
	reloadItem.Shortcut = reloadShortcut

	devItem := fyne.NewMenuItem("Toggle Developer Tools", actions.ToggleDevTools)
	devItem.Shortcut = devShortcut

	viewMenu := fyne.NewMenu("View", reloadItem, devItem)

	return fyne.NewMainMenu(fileMenu, viewMenu)
}

// registerShortcuts makes the menu shortcuts work on platforms without a
// native menu bar.
func registerShortcuts(canvas fyne.Canvas, actions EditorActions) {
	canvas.AddShortcut(openShortcut, func(fyne.Shortcut) { actions.Open() })
	canvas.AddShortcut(saveShortcut, func(fyne.Shortcut) { actions.Save() })
	canvas.AddShortcut(reloadShortcut, func(fyne.Shortcut) { actions.Reload() })
	canvas.AddShortcut(devShortcut, func(fyne.Shortcut) { actions.ToggleDevTools() })
}
