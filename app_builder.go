package glint

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	ecs := MakeEcs()
	return &AppBuilder{app: &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		stateful:         false,
		ecs:              &ecs,
	}}
}

// UseStates makes the app stateful. States are expected to be a dense
// range of ints; the app starts in initialState and the run loop ends
// once finalState is reached.
func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState

	return b
}

func (b *AppBuilder) UseModules(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build initializes the stage table and installs the queued modules in
// registration order. Stages exist before any module runs, so modules
// may schedule systems into them freely.
func (b *AppBuilder) Build() *App {
	app := b.app

	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}

	app.UseModules(b.modules...)

	return app
}
