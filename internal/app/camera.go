package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/geometry"
)

// frameModel points the camera at bounds, facing the front of the garment
func (app *App) frameModel(bounds geometry.BoundingBox) {
	center := bounds.Center()
	distance := float32(bounds.MaxDimension() * 2.0)
	if distance <= 0 {
		distance = 10
	}

	app.Camera.defaultTarget = rl.Vector3{X: float32(center.X), Y: float32(center.Y), Z: float32(center.Z)}
	app.Camera.defaultDist = distance
	app.resetCameraView()
}

// resetCameraView resets the camera to the default view
func (app *App) resetCameraView() {
	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = 0.15
	app.Camera.angleY = 0
	app.Camera.target = app.Camera.defaultTarget
}

// updateCamera updates camera position based on angles
func (app *App) updateCamera() {
	cosX := float32(math.Cos(float64(app.Camera.angleX)))
	x := app.Camera.distance * cosX * float32(math.Sin(float64(app.Camera.angleY)))
	y := app.Camera.distance * float32(math.Sin(float64(app.Camera.angleX)))
	z := app.Camera.distance * cosX * float32(math.Cos(float64(app.Camera.angleY)))

	app.Camera.camera.Position = rl.Vector3{
		X: app.Camera.target.X + x,
		Y: app.Camera.target.Y + y,
		Z: app.Camera.target.Z + z,
	}
	app.Camera.camera.Target = app.Camera.target
}

// orbit rotates around the target by a mouse delta
func (app *App) orbit(delta rl.Vector2) {
	app.Camera.angleY -= delta.X * 0.01
	app.Camera.angleX += delta.Y * 0.01

	// Clamp vertical rotation
	app.Camera.angleX = float32(math.Max(-1.5, math.Min(1.5, float64(app.Camera.angleX))))
}

// doPan performs camera panning based on mouse delta
func (app *App) doPan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(app.Camera.target, app.Camera.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, app.Camera.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	// Pan speed based on distance from target
	panSpeed := app.Camera.distance * 0.001

	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(up, delta.Y*panSpeed))
}

// zoom scales the camera distance by a wheel step
func (app *App) zoom(wheel float32) {
	app.Camera.distance *= 1.0 - wheel*0.05
	if app.Camera.distance < 1.0 {
		app.Camera.distance = 1.0
	}
}
