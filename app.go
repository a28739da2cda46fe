package glint

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module is an installable unit of functionality. Install runs once,
// during App construction, and may register resources, systems, stages
// and entities.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	quitRequested      bool

	stages           []Stage
	systems          map[string]map[State]map[statePhase][]systemFn
	systemsStateless map[string][]systemFn
	resources        map[reflect.Type]any
	ecs              *Ecs

	// Command buffering
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingCompAdd
	pendingCompRemovals []pendingCompRemoval
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

type pendingCompRemoval struct {
	eid        EntityId
	components []any
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// UseModules installs modules into an already built App. Renderer
// selection uses it; most modules go through AppBuilder instead.
func (app *App) UseModules(modules ...Module) *App {
	cmd := &Commands{app: app}
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Quit asks the run loop to stop after the current frame.
func (app *App) Quit() {
	app.quitRequested = true
}

// startup transitions the app into its initial state. Platform Run
// implementations call it once before the first frame.
func (app *App) startup() {
	if app.stateful {
		app.Logger().Infof("Running in stateful mode...")
		app.state = app.initialState
		app.callSystems(app.state, enter)
	} else {
		app.Logger().Infof("Running in stateless mode...")
	}
}

// frame runs every stage once, in order, and reports whether the loop
// should keep going.
func (app *App) frame() bool {
	app.callSystems(app.state, execute)

	if app.stateful {
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}

		if app.state == app.finalState {
			app.callSystems(app.state, exit)
			return false
		}
	}
	return !app.quitRequested
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// Stateless/always systems only run on the execute phase.
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			for _, system := range app.statefulSystems(stage.Name, state, phase) {
				app.callSystem(system)
			}
		}

		app.FlushCommands()
	}
}

func (app *App) statefulSystems(stage string, state State, phase statePhase) []systemFn {
	states, ok := app.systems[stage]
	if !ok {
		return nil
	}
	phases, ok := states[state]
	if !ok {
		return nil
	}
	return phases[phase]
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// resourceOf looks up a registered resource by its concrete type.
func resourceOf[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem invokes a system func, resolving each pointer argument
// from the resource table. *Commands is synthesized per call.
func (app *App) callSystem(system systemFn) {
	systemValue := reflect.ValueOf(system)
	systemType := systemValue.Type()

	args := make([]reflect.Value, systemType.NumIn())
	for i := range args {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
			continue
		}

		resource, ok := app.resources[underlyingType]
		if !ok {
			panic(fmt.Sprintf("unable to resolve system dependency\nsystem: %s\nsystem type: %s\ndependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			))
		}
		args[i] = reflect.NewAt(underlyingType, reflect.ValueOf(resource).UnsafePointer())
	}

	systemValue.Call(args)
}

// FlushCommands applies buffered entity commands. Component removals go
// first so an entity removed in the same batch is still known, then
// entity removals, entity additions and component additions.
func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 &&
		len(app.pendingRemovals) == 0 &&
		len(app.pendingCompAdds) == 0 &&
		len(app.pendingCompRemovals) == 0 {
		return
	}

	for _, rem := range app.pendingCompRemovals {
		app.ecs.removeComponents(rem.eid, rem.components...)
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]

	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]
}
