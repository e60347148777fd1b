// Package gui implements the desktop window: file pickers for input and
// output, a single trigger button, and a status line driven by the run
// coordinator.
package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/transcribe-app/transcribe/internal/run"
)

// mediaExtensions filters the input picker to known media types.
var mediaExtensions = []string{
	".mp3", ".mp4", ".wav", ".m4a", ".mov", ".mkv", ".webm", ".flac", ".ogg",
}

// App owns the window and relays coordinator status to the widgets.
type App struct {
	coord *run.Coordinator

	win      fyne.Window
	input    *widget.Entry
	output   *widget.Entry
	status   *widget.Label
	startBtn *widget.Button
}

// New builds the window around an already-wired coordinator.
func New(coord *run.Coordinator) *App {
	a := &App{coord: coord}

	a.win = app.New().NewWindow("Transcribe")

	a.input = widget.NewEntry()
	a.input.SetPlaceHolder("Audio or video file")
	a.output = widget.NewEntry()
	a.output.SetPlaceHolder("Transcript text file")
	a.status = widget.NewLabel("Ready")
	a.startBtn = widget.NewButton("Transcribe", a.onStart)

	inputRow := container.NewBorder(nil, nil,
		widget.NewLabel("Input:"), widget.NewButton("Browse...", a.pickInput), a.input)
	outputRow := container.NewBorder(nil, nil,
		widget.NewLabel("Output:"), widget.NewButton("Browse...", a.pickOutput), a.output)

	a.win.SetContent(container.NewVBox(inputRow, outputRow, a.status, a.startBtn))
	a.win.Resize(fyne.NewSize(640, 220))
	return a
}

// Run shows the window and blocks until it closes.
func (a *App) Run() {
	go a.dispatch()
	a.win.ShowAndRun()
}

// dispatch drains coordinator status updates with a blocking receive and
// applies each one on the UI thread. The worker goroutine never touches
// widgets directly.
func (a *App) dispatch() {
	for st := range a.coord.Events() {
		fyne.Do(func() { a.apply(st) })
	}
}

func (a *App) apply(st run.Status) {
	switch st.State {
	case run.StateRunning:
		a.startBtn.Disable()
		a.status.SetText(st.Message)
	case run.StateComplete:
		a.startBtn.Enable()
		a.status.SetText(st.Message)
	case run.StateFailed:
		a.startBtn.Enable()
		a.status.SetText(st.Message)
		if st.Err != nil {
			dialog.ShowError(st.Err, a.win)
		}
	}
}

// onStart validates the form and hands the run to the coordinator. The
// coordinator rejects a second run while one is active, so a double
// click cannot spawn a second worker even before the button disables.
func (a *App) onStart() {
	input := strings.TrimSpace(a.input.Text)
	if input == "" {
		a.status.SetText("Select an input file first")
		return
	}

	output := strings.TrimSpace(a.output.Text)
	if output == "" {
		output = defaultOutput(input)
		a.output.SetText(output)
	}

	if err := a.coord.Start(input, output); err != nil {
		dialog.ShowError(err, a.win)
		return
	}

	a.startBtn.Disable()
	a.status.SetText("Starting...")
}

func (a *App) pickInput() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.win)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()

		a.input.SetText(path)
		if strings.TrimSpace(a.output.Text) == "" {
			a.output.SetText(defaultOutput(path))
		}
	}, a.win)
	d.SetFilter(storage.NewExtensionFileFilter(mediaExtensions))
	d.Show()
}

func (a *App) pickOutput() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.win)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()

		a.output.SetText(path)
	}, a.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	if input := strings.TrimSpace(a.input.Text); input != "" {
		d.SetFileName(baseName(defaultOutput(input)))
	}
	d.Show()
}
