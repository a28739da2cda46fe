//go:build !js

package glint

// Run drives the schedule until a system requests Quit or, for stateful
// apps, the final state is reached.
func (app *App) Run() {
	app.startup()

	for app.frame() {
	}
}
