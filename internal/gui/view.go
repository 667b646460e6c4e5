package gui

import (
	"image"
	"time"

	"lowlight-enhancer/internal/enhance"
	"lowlight-enhancer/internal/gui/widgets"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

type View struct {
	window     fyne.Window
	controller *Controller

	toolbar        *widgets.Toolbar
	imageDisplay   *widgets.ImageDisplay
	parameterPanel *widgets.ParameterPanel
	mainContainer  *fyne.Container
}

func NewView(window fyne.Window) *View {
	view := &View{
		window: window,
	}

	view.setupComponents()
	view.setupLayout()

	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupComponents() {
	v.toolbar = widgets.NewToolbar()
	v.imageDisplay = widgets.NewImageDisplay()
	v.parameterPanel = widgets.NewParameterPanel(enhance.DefaultParameters())
}

func (v *View) setupLayout() {
	v.mainContainer = container.NewBorder(
		nil,
		container.NewVBox(v.toolbar.GetContainer(), v.parameterPanel.GetContainer()),
		nil, nil,
		v.imageDisplay.GetContainer(),
	)
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetLoadHandler(v.controller.LoadImage)
	v.toolbar.SetEnhanceHandler(v.controller.EnhanceImage)
	v.toolbar.SetDownloadHandler(v.controller.DownloadEnhanced)
	v.toolbar.SetSaveComparisonHandler(v.controller.SaveComparison)

	v.parameterPanel.SetBackendChangeHandler(v.controller.ChangeAlgorithm)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetComparisonImage(img image.Image) {
	v.imageDisplay.SetComparisonImage(img)
}

func (v *View) SetBackends(backends []string, selected string) {
	v.parameterPanel.SetBackends(backends, selected)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetTiming(algorithm string, elapsed time.Duration) {
	v.toolbar.SetTiming(algorithm, elapsed)
}

func (v *View) SetBusy(busy, imageLoaded, resultAvailable bool) {
	v.toolbar.SetBusy(busy, imageLoaded, resultAvailable)
	v.parameterPanel.SetEnabled(!busy)
}

func (v *View) ShowError(title string, err error) {
	d := dialog.NewError(err, v.window)
	d.Show()
}

func (v *View) ShowFileDialog(callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, v.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	d.Show()
}

func (v *View) ShowSaveDialog(fileName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, v.window)
	d.SetFileName(fileName)
	d.Show()
}

func (v *View) GetWindow() fyne.Window {
	return v.window
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
