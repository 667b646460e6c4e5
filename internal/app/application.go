package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/algorithms/opencv"
	"lowlight-enhancer/internal/config"
	"lowlight-enhancer/internal/gui"
	"lowlight-enhancer/internal/gui/widgets"
	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	AppName    = "Low-Light Enhancer"
	AppID      = "com.lowlight.enhancer"
	AppVersion = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

type shutdownHandler interface {
	Shutdown()
}

type Application struct {
	fyneApp       fyne.App
	window        fyne.Window
	guiManager    *gui.Manager
	coordinator   *pipeline.Coordinator
	logger        logger.Logger
	shutdownables []shutdownHandler
	ctx           context.Context
	cancel        context.CancelFunc
	shutdown      chan struct{}
	shutdownOnce  sync.Once
}

func NewApplication() (*Application, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
		Build:   1,
	})

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(gui.NewTheme())
	window := fyneApp.NewWindow(AppName)

	windowSize := calculateMinimumWindowSize()
	window.Resize(windowSize)
	window.SetPadded(false)
	window.CenterOnScreen()
	window.SetMaster()

	log := logger.NewConsoleLogger(cfg.LogLevel)

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  windowSize.Width,
		"window_height": windowSize.Height,
		"log_level":     cfg.LogLevel.String(),
	})

	algorithmManager, err := newAlgorithmManager(log)
	if err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if err := algorithmManager.SetCurrentAlgorithm(backend); err != nil {
		return nil, err
	}

	coordinator := pipeline.NewCoordinator(algorithmManager, cfg.JPEGQuality, log)
	guiManager := gui.NewManager(window, coordinator, backend, log)

	ctx, cancel := context.WithCancel(context.Background())
	application := &Application{
		fyneApp:     fyneApp,
		window:      window,
		guiManager:  guiManager,
		coordinator: coordinator,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
		shutdown:    make(chan struct{}),
		shutdownables: []shutdownHandler{
			coordinator,
			guiManager,
		},
	}

	application.setupMenu()
	application.setupSignalHandling()
	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// newAlgorithmManager registers the OpenCV backend next to the native one.
// A failure there is logged and the native backend stays available.
func newAlgorithmManager(log logger.Logger) (*algorithms.Manager, error) {
	manager, err := algorithms.NewManager()
	if err != nil {
		return nil, err
	}

	cvProcessor, err := opencv.NewProcessor()
	if err != nil {
		log.Warning("Application", "opencv backend unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return manager, nil
	}
	manager.Register(cvProcessor)

	return manager, nil
}

func (a *Application) setupMenu() {
	aboutAction := func() {
		fyne.Do(a.showAbout)
	}

	fileMenu := a.guiManager.FileMenu()
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", aboutAction),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *Application) showAbout() {
	metadata := a.fyneApp.Metadata()

	name := metadata.Name
	if name == "" {
		name = AppName
	}

	version := metadata.Version
	if version == "" {
		version = AppVersion
	}

	aboutContent := container.NewVBox(
		widget.NewLabel(name),
		widget.NewLabel(fmt.Sprintf("Version: %s", version)),
		widget.NewLabel(""),
		widget.NewLabel("Local contrast, gamma and saturation enhancement for dark photos."),
		widget.NewLabel(""),
		widget.NewLabel(fmt.Sprintf("Go: %s", runtime.Version())),
		widget.NewLabel(fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)),
	)

	dialog.ShowCustom("About", "Close", aboutContent, a.window)
}

func calculateMinimumWindowSize() fyne.Size {
	toolbarHeight := float32(50)
	parametersHeight := float32(140)

	return fyne.Size{
		Width:  float32(widgets.ImageAreaWidth*2 + 100),
		Height: float32(widgets.ImageAreaHeight) + toolbarHeight + parametersHeight + 60,
	}
}

func (a *Application) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			a.logger.Info("Application", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			a.initiateShutdown()
		case <-a.ctx.Done():
		}
	}()
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested via window close", nil)
		a.initiateShutdown()
	})

	a.guiManager.Show()

	go func() {
		<-a.shutdown
		fyne.Do(a.fyneApp.Quit)
	}()

	a.fyneApp.Run()
	return nil
}

// initiateShutdown is safe to call from the signal goroutine and the window
// close callback at once; only the first call runs the sequence.
func (a *Application) initiateShutdown() {
	a.shutdownOnce.Do(a.runShutdown)
}

func (a *Application) runShutdown() {
	close(a.shutdown)

	a.logger.Info("Application", "shutdown sequence initiated", map[string]interface{}{
		"components": len(a.shutdownables),
	})

	a.cancel()

	for i := len(a.shutdownables) - 1; i >= 0; i-- {
		component := a.shutdownables[i]

		done := make(chan struct{})
		go func() {
			defer close(done)
			component.Shutdown()
		}()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			a.logger.Warning("Application", "component shutdown timeout", map[string]interface{}{
				"component_index": i,
			})
		}
	}

	a.logger.Info("Application", "shutdown sequence completed", nil)
}
