package glint

import (
	"fmt"
)

// RendererTag marks that a renderer has been installed into the App.
// Only one renderer can be active at a time.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer enforces the single renderer invariant. It
// reports whether this call registered the renderer: re-selecting the
// same renderer reports false so callers skip reinstalling its modules,
// selecting a different one panics.
func ensureSingleRenderer(app *App, name string) bool {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}

	tag, ok := resourceOf[RendererTag](app)
	if !ok {
		app.addResources(&RendererTag{Name: name})
		return true
	}

	if tag.Name != name {
		app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
		panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
	}
	return false
}
