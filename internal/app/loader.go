package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/gostamp/pkg/mesh"
	"github.com/philipparndt/gostamp/pkg/watcher"
)

// modelLoadTimeout bounds OpenSCAD renders
const modelLoadTimeout = 2 * time.Minute

// switchModel replaces the current model with path and re-targets the watcher
func (app *App) switchModel(path string) {
	app.FileWatch.modelFile = path
	app.FileWatch.loadedOnce = false
	app.requestReload()
	if app.FileWatch.fileWatcher != nil {
		if err := app.watchModel(); err != nil {
			app.log.Warn("Failed to watch model", "error", err)
		}
	}
}

// requestReload asks the main loop to load the model once no load is running
func (app *App) requestReload() {
	select {
	case app.FileWatch.reloads <- struct{}{}:
	default:
	}
}

// loadModel loads the model in the background. Only parsing happens off the
// main thread; the GPU upload happens in scene.Sync.
func (app *App) loadModel() {
	if app.FileWatch.isLoading || app.FileWatch.modelFile == "" {
		return
	}

	app.FileWatch.isLoading = true
	app.FileWatch.loadStart = time.Now()
	path := app.FileWatch.modelFile

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
		defer cancel()
		_, err := app.scene.LoadModel(ctx, path)
		app.FileWatch.loads <- err
	}()
}

// pollLoads collects finished loads and pending reload requests. Runs on the
// main thread.
func (app *App) pollLoads() {
	select {
	case err := <-app.FileWatch.loads:
		app.FileWatch.isLoading = false
		elapsed := time.Since(app.FileWatch.loadStart)
		if err != nil {
			app.log.Error("Model load failed", "error", err)
			app.setStatus(err.Error(), true)
		} else {
			app.setStatus(fmt.Sprintf("Model loaded in %.2fs", elapsed.Seconds()), false)
		}
	default:
	}

	if app.FileWatch.isLoading {
		return
	}
	select {
	case <-app.FileWatch.reloads:
		app.loadModel()
	default:
	}
}

// setupFileWatcher watches the model (and its OpenSCAD imports) and the
// pattern file
func (app *App) setupFileWatcher() error {
	fw, err := watcher.NewFileWatcher(500*time.Millisecond, app.log)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	app.FileWatch.fileWatcher = fw

	if app.FileWatch.modelFile != "" {
		if err := app.watchModel(); err != nil {
			fw.Close()
			app.FileWatch.fileWatcher = nil
			return err
		}
	}

	if pattern := app.FileWatch.patternFile; pattern != "" && isLocalFile(pattern) {
		path := strings.TrimPrefix(pattern, "file://")
		if err := fw.Watch([]string{path}, func(string) {
			// Safe from the watcher goroutine: the session only queues a bake
			app.session.Rebake()
		}); err != nil {
			app.log.Warn("Failed to watch pattern", "path", path, "error", err)
		}
	}

	fw.Start()
	return nil
}

// watchModel replaces the watched model files with the current dependency list
func (app *App) watchModel() error {
	files, err := mesh.WatchList(app.FileWatch.modelFile)
	if err != nil {
		return err
	}

	fw := app.FileWatch.fileWatcher
	fw.Unwatch(app.FileWatch.watched)
	if err := fw.Watch(files, func(string) { app.requestReload() }); err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	app.FileWatch.watched = files
	app.log.Info("Watching model", "files", len(files), "source", filepath.Base(app.FileWatch.modelFile))
	return nil
}

func isLocalFile(ref string) bool {
	return !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}
