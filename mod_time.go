package glint

import (
	"time"
)

// Time tracks frame timing. Frame counts completed schedule passes and
// is what frame-periodic systems key off.
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Time: time.Now()})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(t *Time) {
	now := time.Now()

	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Frame++
}
