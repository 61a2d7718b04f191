// Package view is the minimal editor surface: it renders what the shell
// sends and sends the user's open and save requests back.
package view

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"phodit/internal/ipc"
	"phodit/internal/tree"
	"phodit/internal/vcs"
)

const maxDevEntries = 200

// Navigator decides where activated links go.
type Navigator interface {
	Navigate(u *url.URL)
}

type Subscriber interface {
	Subscribe(channel string, handler ipc.Handler) func()
}

// MainView holds the editor, the file browser and the status line
type MainView struct {
	window    fyne.Window
	sender    ipc.Sender
	navigator Navigator

	editor   *widget.Entry
	preview  *widget.RichText
	files    *widget.Tree
	model    *TreeModel
	status   *widget.Label
	devList  *widget.List
	devPanel *fyne.Container
	devLog   []string

	mainContainer *fyne.Container
}

func NewMainView(sender ipc.Sender, navigator Navigator) *MainView {
	view := &MainView{
		sender:    sender,
		navigator: navigator,
		model:     NewTreeModel(),
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.editor = widget.NewMultiLineEntry()
	mv.editor.Wrapping = fyne.TextWrapWord
	mv.editor.SetPlaceHolder("Open a markdown file to start writing")

	mv.preview = widget.NewRichTextFromMarkdown("")
	mv.preview.Wrapping = fyne.TextWrapWord

	mv.files = widget.NewTree(
		mv.model.ChildUIDs,
		mv.model.IsBranch,
		func(bool) fyne.CanvasObject { return widget.NewLabel("") },
		func(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
			if node := mv.model.Node(uid); node != nil {
				obj.(*widget.Label).SetText(node.Name)
			}
		},
	)

	mv.status = widget.NewLabel("Ready")
	mv.status.Truncation = fyne.TextTruncateEllipsis

	mv.devList = widget.NewList(
		func() int { return len(mv.devLog) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(mv.devLog[id])
		},
	)
}

func (mv *MainView) buildLayout() {
	editorArea := container.NewHSplit(mv.editor, container.NewVScroll(mv.preview))
	editorArea.SetOffset(0.5)

	workArea := container.NewHSplit(mv.files, editorArea)
	workArea.SetOffset(0.2)

	mv.devPanel = container.NewBorder(widget.NewLabel("Messages"), nil, nil, nil, mv.devList)
	mv.devPanel.Hide()

	mv.mainContainer = container.NewBorder(
		nil,         // top
		mv.status,   // bottom
		nil,         // left
		mv.devPanel, // right
		workArea,    // center
	)
}

func (mv *MainView) setupEventHandlers() {
	mv.editor.OnChanged = func(text string) {
		mv.renderPreview(text)
	}

	mv.files.OnSelected = func(uid widget.TreeNodeID) {
		node := mv.model.Node(uid)
		if node == nil || !node.IsLeaf {
			return
		}
		mv.sender.Send(ipc.OpenFile, node.Path)
	}
}

func (mv *MainView) renderPreview(text string) {
	mv.preview.ParseMarkdown(text)

	for _, segment := range mv.preview.Segments {
		link, ok := segment.(*widget.HyperlinkSegment)
		if !ok || mv.navigator == nil {
			continue
		}
		target := link.URL
		link.OnTapped = func() {
			mv.navigator.Navigate(target)
		}
	}
}

// SetWindow gives the view a parent for its dialogs.
func (mv *MainView) SetWindow(w fyne.Window) {
	mv.window = w
}

func (mv *MainView) Container() fyne.CanvasObject {
	return mv.mainContainer
}

// Content is the text saves write out.
func (mv *MainView) Content() string {
	return mv.editor.Text
}

// Attach subscribes the view to the shell's messages. Handlers hop onto the
// UI thread before touching widgets.
func (mv *MainView) Attach(bus Subscriber) func() {
	channels := []string{
		ipc.OneFileOpened, ipc.PathOpened, ipc.GitStatus,
		ipc.OpenError, ipc.SaveError, ipc.FileSaved,
	}

	unsubscribers := make([]func(), 0, len(channels)+1)
	for _, channel := range channels {
		unsubscribers = append(unsubscribers, bus.Subscribe(channel, func(msg ipc.Message) {
			fyne.Do(func() { mv.Apply(msg) })
		}))
	}
	unsubscribers = append(unsubscribers, bus.Subscribe(ipc.Wildcard, func(msg ipc.Message) {
		fyne.Do(func() { mv.record(msg) })
	}))

	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

// Apply renders one shell message. Must run on the UI thread.
func (mv *MainView) Apply(msg ipc.Message) {
	switch msg.Channel {
	case ipc.OneFileOpened:
		text, _ := msg.Payload.(string)
		mv.editor.SetText(text)
		mv.status.SetText("File opened")

	case ipc.PathOpened:
		payload, ok := msg.Payload.(tree.Payload)
		if !ok {
			return
		}
		mv.model.Set(payload)
		mv.files.Refresh()
		for _, root := range payload.Children {
			if root != nil {
				mv.files.OpenBranch(root.Path)
			}
		}

	case ipc.GitStatus:
		status, _ := msg.Payload.(*vcs.Status)
		mv.status.SetText(describeStatus(status))

	case ipc.OpenError, ipc.SaveError:
		payload, _ := msg.Payload.(ipc.ErrorPayload)
		text := fmt.Sprintf("Cannot open %s: %s", payload.Path, payload.Error)
		if msg.Channel == ipc.SaveError {
			text = fmt.Sprintf("Cannot save %s: %s", payload.Path, payload.Error)
		}
		mv.status.SetText(text)
		if mv.window != nil {
			dialog.ShowError(fmt.Errorf("%s", text), mv.window)
		}

	case ipc.FileSaved:
		payload, _ := msg.Payload.(ipc.SavedPayload)
		mv.status.SetText(fmt.Sprintf("Saved %s (%d bytes)", payload.Path, payload.Bytes))
	}
}

func describeStatus(status *vcs.Status) string {
	if status == nil || !status.Repository {
		return "Not under version control"
	}

	changed := len(status.Modified) + len(status.Added) + len(status.Deleted) +
		len(status.Renamed) + len(status.Untracked)
	branch := status.Branch
	if branch == "" {
		branch = "detached"
	}
	if changed == 0 {
		return branch + ": clean"
	}
	return fmt.Sprintf("%s: %d changed", branch, changed)
}

func (mv *MainView) record(msg ipc.Message) {
	entry := fmt.Sprintf("%s %s", msg.Timestamp.Format(time.TimeOnly), msg.Channel)
	mv.devLog = append(mv.devLog, entry)
	if len(mv.devLog) > maxDevEntries {
		mv.devLog = mv.devLog[len(mv.devLog)-maxDevEntries:]
	}
	if mv.devPanel.Visible() {
		mv.devList.Refresh()
	}
}

// ToggleDeveloperPanel shows or hides the message log.
func (mv *MainView) ToggleDeveloperPanel() {
	if mv.devPanel.Visible() {
		mv.devPanel.Hide()
		return
	}
	mv.devList.Refresh()
	mv.devPanel.Show()
}

func (mv *MainView) DeveloperPanelVisible() bool {
	return mv.devPanel.Visible()
}

// DeveloperLog returns the recorded channel names, oldest first.
func (mv *MainView) DeveloperLog() []string {
	out := make([]string, len(mv.devLog))
	for i, entry := range mv.devLog {
		out[i] = entry[strings.LastIndex(entry, " ")+1:]
	}
	return out
}

// Reset empties the view before the shell refills it.
func (mv *MainView) Reset() {
	mv.editor.SetText("")
	mv.model.Clear()
	mv.files.Refresh()
	mv.status.SetText("Reloading...")
}
