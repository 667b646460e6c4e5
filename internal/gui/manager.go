package gui

import (
	"sync"

	"lowlight-enhancer/internal/logger"

	"fyne.io/fyne/v2"
)

type Manager struct {
	window       fyne.Window
	controller   *Controller
	view         *View
	logger       logger.Logger
	shutdownOnce sync.Once
}

func NewManager(window fyne.Window, coordinator ProcessingCoordinator, algorithm string, log logger.Logger) *Manager {
	manager := &Manager{
		window: window,
		logger: log,
	}

	manager.view = NewView(window)
	manager.controller = NewController(coordinator, algorithm, log)
	manager.view.SetController(manager.controller)
	manager.controller.SetView(manager.view)

	log.Info("GUIManager", "initialized", map[string]interface{}{
		"window_title": window.Title(),
		"algorithm":    algorithm,
	})

	return manager
}

func (m *Manager) GetMainContainer() *fyne.Container {
	return m.view.GetMainContainer()
}

// FileMenu mirrors the toolbar actions.
func (m *Manager) FileMenu() *fyne.Menu {
	return fyne.NewMenu("File",
		fyne.NewMenuItem("Load Image...", m.controller.LoadImage),
		fyne.NewMenuItem("Enhance", m.controller.EnhanceImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Download Enhanced...", m.controller.DownloadEnhanced),
		fyne.NewMenuItem("Save Comparison...", m.controller.SaveComparison),
	)
}

func (m *Manager) Show() {
	m.view.Show()
	m.logger.Info("GUIManager", "GUI displayed", nil)
}

func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.logger.Info("GUIManager", "shutdown initiated", nil)
		m.controller.Shutdown()
		m.logger.Info("GUIManager", "shutdown completed", nil)
	})
}
