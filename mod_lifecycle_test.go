package glint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifetimeSystem_RemovesExpiredEntities(t *testing.T) {
	app := NewAppBuilder().UseModules(TimeModule{}, LifecycleModule{}).Build()
	cmd := app.Commands()

	short := cmd.AddEntity(Lifetime{TimeLeft: 0.001})
	long := cmd.AddEntity(Lifetime{TimeLeft: 3600})
	app.FlushCommands()

	app.startup()
	app.frame()
	// a real delta has to elapse before the short lifetime can expire
	time.Sleep(5 * time.Millisecond)
	app.frame()

	if _, ok := app.ecs.entityIndex[short]; ok {
		t.Errorf("Expected the expired entity to be removed")
	}
	_, ok := app.ecs.entityIndex[long]
	assert.True(t, ok, "long-lived entity should survive")
}

func TestLifetimeSystem_CountsDown(t *testing.T) {
	app := NewAppBuilder().UseModules(TimeModule{}, LifecycleModule{}).Build()
	cmd := app.Commands()

	eid := cmd.AddEntity(Lifetime{TimeLeft: 3600})
	app.FlushCommands()

	app.startup()
	time.Sleep(2 * time.Millisecond)
	app.frame()

	var left float32
	found := false
	MakeQuery1[Lifetime](cmd).Map(func(id EntityId, lt *Lifetime) bool {
		if id == eid {
			left = lt.TimeLeft
			found = true
		}
		return true
	})

	require.True(t, found)
	if left >= 3600 {
		t.Errorf("Expected the lifetime to count down, still %f", left)
	}
}
