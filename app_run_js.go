//go:build js && wasm

package glint

import (
	"syscall/js"
)

// Run drives the schedule from requestAnimationFrame so frames stay in
// step with the browser's repaint. The callback reschedules itself
// until frame reports the loop is done; main then parks forever to keep
// the wasm instance and its registered callbacks alive.
func (app *App) Run() {
	app.startup()

	var tick js.Func
	tick = js.FuncOf(func(this js.Value, args []js.Value) any {
		if !app.frame() {
			tick.Release()
			app.Logger().Infof("Run loop finished")
			return nil
		}
		js.Global().Call("requestAnimationFrame", tick)
		return nil
	})
	js.Global().Call("requestAnimationFrame", tick)

	select {}
}
