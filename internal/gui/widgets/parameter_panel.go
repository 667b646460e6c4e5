package widgets

import (
	"fmt"

	"lowlight-enhancer/internal/enhance"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ParameterPanel shows the fixed enhancement settings and lets the user pick
// which backend runs them. The settings themselves are not editable.
type ParameterPanel struct {
	container      *fyne.Container
	backendSelect  *widget.Select
	backendHandler func(string)
}

func NewParameterPanel(params enhance.Parameters) *ParameterPanel {
	panel := &ParameterPanel{}
	panel.createWidgets()
	panel.buildLayout(params)
	return panel
}

func (pp *ParameterPanel) createWidgets() {
	pp.backendSelect = widget.NewSelect(nil, func(selected string) {
		if pp.backendHandler != nil && selected != "" {
			pp.backendHandler(selected)
		}
	})
}

func (pp *ParameterPanel) buildLayout(params enhance.Parameters) {
	form := widget.NewForm(
		widget.NewFormItem("Backend", pp.backendSelect),
		widget.NewFormItem("Local contrast", widget.NewLabel(
			fmt.Sprintf("clip %.1f, %dx%d tiles", params.ClipLimit, params.TileGrid.X, params.TileGrid.Y))),
		widget.NewFormItem("Gamma", widget.NewLabel(fmt.Sprintf("%.2f", params.Gamma))),
		widget.NewFormItem("Saturation", widget.NewLabel(fmt.Sprintf("x%.2f", params.SaturationFactor))),
	)

	pp.container = container.NewVBox(
		widget.NewLabelWithStyle("Enhancement", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
	)
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

// SetBackends fills the selector without firing the change handler.
func (pp *ParameterPanel) SetBackends(backends []string, selected string) {
	handler := pp.backendHandler
	pp.backendHandler = nil
	pp.backendSelect.Options = backends
	pp.backendSelect.SetSelected(selected)
	pp.backendSelect.Refresh()
	pp.backendHandler = handler
}

func (pp *ParameterPanel) SetBackendChangeHandler(handler func(string)) {
	pp.backendHandler = handler
}

func (pp *ParameterPanel) SelectedBackend() string {
	return pp.backendSelect.Selected
}

func (pp *ParameterPanel) SetEnabled(enabled bool) {
	if enabled {
		pp.backendSelect.Enable()
	} else {
		pp.backendSelect.Disable()
	}
}
