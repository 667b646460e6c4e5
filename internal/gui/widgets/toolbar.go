package widgets

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Toolbar struct {
	container            *fyne.Container
	loadButton           *widget.Button
	enhanceButton        *widget.Button
	downloadButton       *widget.Button
	saveComparisonButton *widget.Button
	statusLabel          *widget.Label
	timingLabel          *widget.Label

	loadHandler           func()
	enhanceHandler        func()
	downloadHandler       func()
	saveComparisonHandler func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.SetImageLoaded(false)
	toolbar.SetResultAvailable(false)
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButtonWithIcon("Load", theme.FolderOpenIcon(), t.onLoadClicked)
	t.loadButton.Importance = widget.HighImportance

	t.enhanceButton = widget.NewButtonWithIcon("Enhance", theme.MediaPlayIcon(), t.onEnhanceClicked)
	t.enhanceButton.Importance = widget.HighImportance

	t.downloadButton = widget.NewButtonWithIcon("Download", theme.DownloadIcon(), t.onDownloadClicked)
	t.saveComparisonButton = widget.NewButtonWithIcon("Save comparison", theme.DocumentSaveIcon(), t.onSaveComparisonClicked)

	t.statusLabel = widget.NewLabel("Ready")
	t.timingLabel = widget.NewLabel("")
}

func (t *Toolbar) buildLayout() {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 1.0
	border.StrokeColor = color.NRGBA{R: 70, G: 70, B: 78, A: 255}

	leftSection := container.NewHBox(t.loadButton, t.enhanceButton)
	rightSection := container.NewHBox(t.downloadButton, t.saveComparisonButton)
	statusSection := container.NewHBox(t.statusLabel, widget.NewSeparator(), t.timingLabel)

	content := container.NewBorder(
		nil, nil,
		leftSection,
		rightSection,
		statusSection,
	)

	t.container = container.NewStack(border, container.NewPadded(content))
}

func (t *Toolbar) onLoadClicked() {
	if t.loadHandler != nil {
		t.loadHandler()
	}
}

func (t *Toolbar) onEnhanceClicked() {
	if t.enhanceHandler != nil {
		t.enhanceHandler()
	}
}

func (t *Toolbar) onDownloadClicked() {
	if t.downloadHandler != nil {
		t.downloadHandler()
	}
}

func (t *Toolbar) onSaveComparisonClicked() {
	if t.saveComparisonHandler != nil {
		t.saveComparisonHandler()
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetEnhanceHandler(handler func()) {
	t.enhanceHandler = handler
}

func (t *Toolbar) SetDownloadHandler(handler func()) {
	t.downloadHandler = handler
}

func (t *Toolbar) SetSaveComparisonHandler(handler func()) {
	t.saveComparisonHandler = handler
}

func (t *Toolbar) SetImageLoaded(loaded bool) {
	setEnabled(t.enhanceButton, loaded)
}

func (t *Toolbar) SetResultAvailable(available bool) {
	setEnabled(t.downloadButton, available)
	setEnabled(t.saveComparisonButton, available)
}

// SetBusy locks every action while a load or enhancement runs.
func (t *Toolbar) SetBusy(busy bool, imageLoaded, resultAvailable bool) {
	setEnabled(t.loadButton, !busy)
	setEnabled(t.enhanceButton, !busy && imageLoaded)
	setEnabled(t.downloadButton, !busy && resultAvailable)
	setEnabled(t.saveComparisonButton, !busy && resultAvailable)
}

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

func (t *Toolbar) SetTiming(algorithm string, elapsed time.Duration) {
	if elapsed <= 0 {
		t.timingLabel.SetText("")
		return
	}
	t.timingLabel.SetText(fmt.Sprintf("%s: %d ms", algorithm, elapsed.Milliseconds()))
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
