// Package app is the raylib desktop editor: the overlay canvas on the left,
// the textured garment on the right.
package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/internal/scene"
	"github.com/philipparndt/gostamp/internal/session"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

// Options configures Run
type Options struct {
	Config config.Config
	Logger *slog.Logger
	// Images are added as layers at startup
	Images []string
}

// App is the running editor window
type App struct {
	cfg     config.Config
	log     *slog.Logger
	session *session.Session
	scene   *scene.Context

	Camera    CameraState
	Canvas    CanvasState
	View      ViewState
	FileWatch FileWatchState
	UI        UIState
}

// Run opens the window and blocks until it is closed
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "gostamp")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	// Escape clears the selection instead of closing the window
	rl.SetExitKey(rl.KeyNull)

	app := &App{
		cfg: cfg,
		log: log,
		FileWatch: FileWatchState{
			modelFile:   cfg.Model,
			patternFile: cfg.Pattern,
			reloads:     make(chan struct{}, 1),
			loads:       make(chan error, 1),
		},
		UI: UIState{font: rl.GetFontDefault()},
	}

	// The window exists, so the 3D side can be set up
	app.scene = scene.New(scene.Options{Logger: log})
	defer app.scene.Close()

	app.session = session.New(session.Options{
		Config: cfg,
		Target: app.scene,
		Logger: log,
		OnChange: func(overlay.Event) {
			app.Canvas.dirty = true
		},
	})
	defer app.session.Close()

	app.layout()
	app.initCanvas()
	defer func() {
		rl.UnloadTexture(app.Canvas.texture)
		if app.View.target.ID != 0 {
			rl.UnloadRenderTexture(app.View.target)
		}
	}()

	app.Camera.camera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
	app.Camera.defaultDist = 10
	app.resetCameraView()

	if cfg.Watch {
		if err := app.setupFileWatcher(); err != nil {
			log.Warn("Auto-reload will not be available", "error", err)
		} else {
			defer app.FileWatch.fileWatcher.Close()
		}
	}
	app.requestReload()

	for _, img := range opts.Images {
		if _, err := app.session.AddImageFile(img); err != nil {
			app.setStatus(err.Error(), true)
		}
	}
	if cfg.Pattern != "" && len(opts.Images) == 0 {
		app.session.Rebake()
	}

	for !rl.WindowShouldClose() {
		// Check for Ctrl+Q to exit
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyQ) {
			break
		}

		app.pollLoads()
		if changes := app.scene.Sync(); changes.Model {
			app.onModelChanged()
		}

		app.layout()
		app.layoutToolbar()
		app.handleInput()
		app.updateCamera()
		app.refreshCanvas()

		rl.BeginDrawing()
		rl.ClearBackground(colorBackground)
		app.drawView()
		app.drawCanvas()
		app.drawUI()
		rl.EndDrawing()
	}

	return nil
}

// onModelChanged frames the first load of a model. Reloads of the same file
// keep the camera where the user left it.
func (app *App) onModelChanged() {
	bounds, ok := app.scene.Bounds()
	if !ok {
		app.setStatus("Model has no triangles", true)
		return
	}
	if !app.FileWatch.loadedOnce {
		app.FileWatch.loadedOnce = true
		app.frameModel(bounds)
	}
	if g := app.scene.Group(); g != nil {
		app.log.Info("Model ready", "name", g.Name, "triangles", g.TriangleCount())
	}
}
