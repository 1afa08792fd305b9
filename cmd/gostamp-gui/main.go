package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/internal/session"
	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/philipparndt/gostamp/pkg/mesh"
	"github.com/philipparndt/gostamp/pkg/overlay"
	"github.com/philipparndt/gostamp/pkg/viewer"
	"github.com/philipparndt/gostamp/pkg/watcher"
	"github.com/philipparndt/gostamp/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	patternRef string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "gostamp-gui [model]",
	Short:         "Overlay editor with a software-rendered preview",
	Version:       version.GetFullVersion(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "gostamp.yaml", "settings file")
	rootCmd.Flags().StringVarP(&patternRef, "pattern", "p", "", "base pattern image (path or URL)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// App is the fyne front end
type App struct {
	window  fyne.Window
	cfg     config.Config
	log     *slog.Logger
	session *session.Session
	canvas  *viewer.EditorCanvas
	preview *viewer.MeshPreview
	status  *widget.Label
	watcher *watcher.FileWatcher
	watched []string
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = patternRef
	}
	if len(args) == 1 {
		cfg.Model = args[0]
	}

	a := app.New()
	w := a.NewWindow("gostamp " + version.GetVersion())

	gui := &App{window: w, cfg: cfg, log: log, status: widget.NewLabel("Ready")}
	gui.preview = viewer.NewMeshPreview()
	gui.session = session.New(session.Options{
		Config: cfg,
		Target: gui.preview,
		Logger: log,
		OnBakeError: func(err error) {
			fyne.Do(func() { gui.status.SetText("Bake failed: " + err.Error() + " (retry with the refresh button)") })
		},
		OnChange: func(overlay.Event) {
			gui.canvas.Refresh()
		},
	})
	defer gui.session.Close()
	gui.canvas = viewer.NewEditorCanvas(gui.session.Editor, cfg.Canvas.Width, cfg.Canvas.Height)

	w.SetContent(gui.layout())
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, u := range uris {
			gui.addImage(u.Path())
		}
	})
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	if cfg.Watch {
		if fw, err := watcher.NewFileWatcher(500*time.Millisecond, log); err != nil {
			log.Warn("File watching disabled", "error", err)
		} else {
			gui.watcher = fw
			fw.Start()
			defer fw.Close()
		}
	}
	if cfg.Model != "" {
		gui.loadModel(cfg.Model)
	}
	gui.session.Rebake()

	w.ShowAndRun()
	return nil
}

func (a *App) layout() fyne.CanvasObject {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), a.showImageDialog),
		widget.NewToolbarAction(theme.ContentPasteIcon(), a.pasteImage),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showModelDialog),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { a.session.Editor.DeleteSelected() }),
		widget.NewToolbarAction(theme.MoveUpIcon(), func() { a.session.Editor.RaiseSelected() }),
		widget.NewToolbarAction(theme.MoveDownIcon(), func() { a.session.Editor.LowerSelected() }),
		widget.NewToolbarAction(theme.ContentClearIcon(), a.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			a.status.SetText("Retrying bake")
			a.session.Retry()
		}),
		widget.NewToolbarAction(theme.ZoomFitIcon(), a.preview.ResetView),
	)

	split := container.NewHSplit(a.canvas, a.preview)
	split.Offset = 0.45
	return container.NewBorder(toolbar, a.status, nil, nil, split)
}

func (a *App) showImageDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		a.addImage(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(imagefile.Extensions()))
	d.Show()
}

func (a *App) addImage(path string) {
	if !imagefile.IsSupported(path) {
		a.status.SetText("Not an image: " + path)
		return
	}
	if _, err := a.session.AddImageFile(path); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetText(fmt.Sprintf("%d layers", a.session.Editor.Len()))
}

func (a *App) pasteImage() {
	if _, err := a.session.PasteImage(); err != nil {
		dialog.ShowError(err, a.window)
	}
}

func (a *App) confirmClear() {
	if a.session.Editor.Len() == 0 {
		return
	}
	dialog.ShowConfirm("Clear", "Remove all layers?", func(ok bool) {
		if ok {
			a.session.Editor.ClearAll()
		}
	}, a.window)
}

func (a *App) showModelDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		a.loadModel(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".stl", ".scad"}))
	d.Show()
}

// loadModel loads path in the background and swaps it into the preview
func (a *App) loadModel(path string) {
	a.status.SetText("Loading " + path)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		start := time.Now()
		g, err := mesh.Load(ctx, path)
		fyne.Do(func() {
			if err != nil {
				a.log.Error("Failed to load model", "path", path, "error", err)
				dialog.ShowError(fmt.Errorf("failed to load model: %w", err), a.window)
				a.status.SetText("Load failed")
				return
			}
			a.preview.SetGroup(g)
			a.status.SetText(fmt.Sprintf("%s: %d triangles (%s)", g.Name, g.TriangleCount(), time.Since(start).Round(time.Millisecond)))
			a.watch(path)
		})
	}()
}

// watch reloads path when it or one of its imports changes
func (a *App) watch(path string) {
	if a.watcher == nil {
		return
	}
	files, err := mesh.WatchList(path)
	if err != nil {
		a.log.Warn("Failed to resolve dependencies", "path", path, "error", err)
		files = []string{path}
	}
	a.watcher.Unwatch(a.watched)
	if err := a.watcher.Watch(files, func(string) {
		fyne.Do(func() { a.loadModel(path) })
	}); err != nil {
		a.log.Warn("Failed to watch model", "path", path, "error", err)
		return
	}
	a.watched = files
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
