package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"reader-overlay/internal/bookmarks"
	"reader-overlay/internal/chapters"
	"reader-overlay/internal/config"
	"reader-overlay/internal/logging"
	"reader-overlay/internal/reader"
	"reader-overlay/internal/tray"
	"reader-overlay/internal/visibility"
)

//go:embed all:frontend/dist
var assets embed.FS

const appTitle = "Text Reader"

// App struct
type App struct {
	ctx        context.Context
	log        zerolog.Logger
	config     *config.Service
	reader     *reader.Service
	bookmarks  *bookmarks.Store
	visibility *visibility.Controller
	tray       *tray.Manager

	chapterMu   sync.Mutex
	chapterList []string

	emergency bool
}

var _ logging.Reporter = (*App)(nil)

// NewApp creates a new App application struct
func NewApp(emergency bool) *App {
	return &App{log: zerolog.Nop(), emergency: emergency}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	configSvc, err := config.New()
	if err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	a.config = configSvc

	logger, err := logging.New(configSvc.Dir())
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
	} else {
		a.log = logger
	}

	if err := configSvc.Load(); err != nil {
		a.ReportError("Failed to load settings", err)
	}
	if a.emergency {
		configSvc.Get().Transparency = 80
		if err := configSvc.Save(); err != nil {
			a.log.Error().Err(err).Msg("failed to save emergency settings")
		}
	}

	readerSvc, err := reader.New(filepath.Join(configSvc.Dir(), "recent.txt"), a)
	if err != nil {
		a.log.Warn().Err(err).Msg("auto-reload disabled")
	}
	a.reader = readerSvc
	readerSvc.OnReload = func(path string) {
		a.refreshChapters()
		a.visibility.SetEmpty(readerSvc.Empty())
		runtime.EventsEmit(a.ctx, "content:changed")
	}

	a.bookmarks = bookmarks.NewStore(filepath.Join(configSvc.Dir(), "bookmark.txt"))

	vis := visibility.New(visibility.DefaultHideDelay)
	vis.OnHide = func() { runtime.EventsEmit(a.ctx, "visibility:hidden") }
	vis.OnShow = func() { runtime.EventsEmit(a.ctx, "visibility:shown") }
	vis.OnStatus = func(status string) {
		if a.tray != nil {
			a.tray.SetStatus(status)
		}
	}
	a.visibility = vis

	a.tray = tray.New(tray.Options{
		Tooltip: appTitle,
		OnShow:  a.ShowWindow,
		OnHide:  a.HideWindow,
		OnOpenFile: func() {
			a.ShowWindow()
			a.OpenFile()
		},
		OnQuit: a.Quit,
	})
	go func() {
		a.tray.Start(func() { a.tray.SetStatus(a.visibility.Status()) })
		// systray.Run returning means either a requested quit or no tray
		// support at all; the reader cannot run headless.
		runtime.Quit(a.ctx)
	}()

	cfg := configSvc.Get()
	runtime.WindowSetSize(ctx, cfg.WindowWidth, cfg.WindowHeight)
	runtime.WindowSetPosition(ctx, cfg.WindowX, cfg.WindowY)

	a.registerGlobalHotkey()

	if recent, err := readerSvc.LoadRecent(); err != nil {
		a.ReportError("Failed to load recent file", err)
	} else if recent != "" {
		a.LoadFile(recent)
	}

	if a.emergency {
		a.ShowWindow()
		runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.InfoDialog,
			Title:   "Emergency mode",
			Message: "Display settings were reset to defaults.",
		})
	}
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	width, height := runtime.WindowGetSize(ctx)
	x, y := runtime.WindowGetPosition(ctx)
	if err := a.config.SetGeometry(width, height, x, y); err != nil {
		a.log.Error().Err(err).Msg("failed to save window geometry")
	}

	if a.reader != nil {
		a.reader.Close()
	}
	if a.tray != nil {
		a.tray.Stop()
	}
}

// ReportError logs a failure with a timestamp and surfaces it in a modal
// dialog. Implements logging.Reporter.
func (a *App) ReportError(msg string, err error) {
	a.log.Error().Err(err).Msg(msg)
	if a.ctx == nil {
		return
	}
	runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   "Error",
		Message: fmt.Sprintf("%s: %v", msg, err),
	})
}

// OpenFile shows the file picker and loads the chosen file.
func (a *App) OpenFile() error {
	home, _ := os.UserHomeDir()
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Choose a text file",
		DefaultDirectory: home,
		Filters: []runtime.FileFilter{
			{DisplayName: "Text files (*.txt)", Pattern: "*.txt"},
			{DisplayName: "All files", Pattern: "*"},
		},
	})
	if err != nil {
		a.ReportError("Failed to open file dialog", err)
		return err
	}
	if path == "" {
		return nil
	}
	return a.LoadFile(path)
}

// LoadFile reads a text file into the display buffer, recomputes the chapter
// list, and updates the empty state. Also the drag-and-drop entry point.
func (a *App) LoadFile(path string) error {
	if err := a.reader.Load(path); err != nil {
		a.ReportError("Failed to load file", err)
		return err
	}

	a.refreshChapters()
	a.visibility.SetEmpty(a.reader.Empty())
	runtime.EventsEmit(a.ctx, "content:changed")
	return nil
}

func (a *App) refreshChapters() {
	list := chapters.Extract(a.reader.Content())
	a.chapterMu.Lock()
	a.chapterList = list
	a.chapterMu.Unlock()
}

// GetContent returns the loaded text.
func (a *App) GetContent() string {
	return a.reader.Content()
}

// GetSettings returns the current display settings.
func (a *App) GetSettings() *config.Config {
	return a.config.Get()
}

// GetChapters returns the chapter list from the last load.
func (a *App) GetChapters() []string {
	a.chapterMu.Lock()
	defer a.chapterMu.Unlock()
	return a.chapterList
}

// GetStatus returns the tray status line.
func (a *App) GetStatus() string {
	return a.visibility.Status()
}

// AddBookmark appends the selected text to the bookmark file.
func (a *App) AddBookmark(text string) error {
	if err := a.bookmarks.Add(text); err != nil {
		a.ReportError("Failed to save bookmark", err)
		return err
	}
	runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   "Bookmark",
		Message: "Bookmark added",
	})
	return nil
}

// ListBookmarks returns all saved bookmarks in insertion order.
func (a *App) ListBookmarks() ([]string, error) {
	list, err := a.bookmarks.List()
	if err != nil {
		a.ReportError("Failed to read bookmarks", err)
	}
	return list, err
}

// JumpToBookmark locates the bookmark text in the loaded content and returns
// the rune span to select. Not-found is reported and returned.
func (a *App) JumpToBookmark(text string) (*bookmarks.Span, error) {
	span, err := bookmarks.Find(a.reader.Content(), text)
	if err != nil {
		a.ReportError("Bookmark not found", err)
		return nil, err
	}
	a.visibility.Touch()
	return &span, nil
}

// SetTransparency updates the background alpha percentage.
func (a *App) SetTransparency(value int) error {
	if err := a.config.SetTransparency(value); err != nil {
		a.ReportError("Failed to save settings", err)
		return err
	}
	a.visibility.Touch()
	runtime.EventsEmit(a.ctx, "settings:changed")
	return nil
}

// SetFont updates the font descriptor.
func (a *App) SetFont(family string, size int) error {
	if err := a.config.SetFont(family, size); err != nil {
		a.ReportError("Failed to save settings", err)
		return err
	}
	runtime.EventsEmit(a.ctx, "settings:changed")
	return nil
}

// SetTextColor updates the text color.
func (a *App) SetTextColor(hex string) error {
	if err := a.config.SetTextColor(hex); err != nil {
		a.ReportError("Invalid text color", err)
		return err
	}
	runtime.EventsEmit(a.ctx, "settings:changed")
	return nil
}

// SetBgColor updates the background color.
func (a *App) SetBgColor(hex string) error {
	if err := a.config.SetBgColor(hex); err != nil {
		a.ReportError("Invalid background color", err)
		return err
	}
	runtime.EventsEmit(a.ctx, "settings:changed")
	return nil
}

// ResizeWindow applies and persists a new window size.
func (a *App) ResizeWindow(width, height int) error {
	x, y := runtime.WindowGetPosition(a.ctx)
	if err := a.config.SetGeometry(width, height, x, y); err != nil {
		a.ReportError("Failed to save settings", err)
		return err
	}

	cfg := a.config.Get()
	runtime.WindowSetSize(a.ctx, cfg.WindowWidth, cfg.WindowHeight)
	a.visibility.Touch()
	return nil
}

// NotifyInteraction resets the auto-hide countdown; the frontend calls this
// on pointer and wheel activity.
func (a *App) NotifyInteraction() {
	a.visibility.Touch()
}

// ToggleVisibility flips the overlay fade and reports whether the window is
// now visible.
func (a *App) ToggleVisibility() bool {
	return a.visibility.Toggle()
}

// ShowWindow restores the overlay at its previous opacity.
func (a *App) ShowWindow() {
	runtime.WindowShow(a.ctx)
	a.visibility.Show()
}

// HideWindow fades the overlay out without moving it.
func (a *App) HideWindow() {
	a.visibility.Hide()
}

// Quit exits the application.
func (a *App) Quit() {
	runtime.Quit(a.ctx)
}

func main() {
	emergency := flag.Bool("emergency", false, "start visible with default display settings")
	flag.Parse()

	app := NewApp(*emergency)

	err := wails.Run(&options.App{
		Title:  appTitle,
		Width:  800,
		Height: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		AlwaysOnTop:      true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows: &wailswindows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		OnStartup:  app.OnStartup,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		fmt.Printf("Error starting application: %v\n", err)
		os.Exit(1)
	}
}
