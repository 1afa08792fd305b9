package app

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/compositor"
	"github.com/philipparndt/gostamp/pkg/overlay"
	"github.com/philipparndt/gostamp/pkg/watcher"
)

// CameraState holds the orbit camera around the garment
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32    // Default camera distance (for reset)
	defaultTarget rl.Vector3
}

// CanvasState holds the on-screen editor panel
type CanvasState struct {
	surface *compositor.Surface
	texture rl.Texture2D
	dirty   bool         // Surface must be re-rendered
	rect    rl.Rectangle // Panel area in screen pixels
	fit     float32      // Screen pixels per logical unit
	cursor  overlay.CursorHint
	held    bool // Left button went down inside the panel
}

// ViewState holds the off-screen target the 3D view is drawn into
type ViewState struct {
	target  rl.RenderTexture2D
	rect    rl.Rectangle
	orbit   bool // Left button went down inside the view
	panning bool
}

// FileWatchState holds file watching and reload state
type FileWatchState struct {
	modelFile   string
	patternFile string
	watched     []string
	fileWatcher *watcher.FileWatcher
	reloads     chan struct{} // Signalled by the watcher, drained by the main loop
	loads       chan error    // Result of a background model load
	isLoading   bool
	loadStart   time.Time
	loadedOnce  bool
}

// UIState holds the status bar and toolbar
type UIState struct {
	font        rl.Font
	status      string
	statusError bool
	statusTime  time.Time
	toolbar     []toolbarButton
}
