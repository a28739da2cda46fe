//go:build !js

package glint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWgpuState_SweepDrawsDropsDespawnedEntities(t *testing.T) {
	rs := &wgpuState{draws: map[EntityId]*wgpuEntityDraw{
		1: {},
		2: {},
		3: {},
	}}

	// entity 2 despawned between frames
	rs.sweepDraws(set[EntityId]{1: {}, 3: {}})

	require.Len(t, rs.draws, 2)
	assert.Contains(t, rs.draws, EntityId(1))
	assert.NotContains(t, rs.draws, EntityId(2))
	assert.Contains(t, rs.draws, EntityId(3))
}

func TestWgpuState_SweepDrawsKeepsLiveEntities(t *testing.T) {
	draw := &wgpuEntityDraw{}
	rs := &wgpuState{draws: map[EntityId]*wgpuEntityDraw{7: draw}}

	rs.sweepDraws(set[EntityId]{7: {}})

	require.Len(t, rs.draws, 1)
	assert.Same(t, draw, rs.draws[7])
}

func TestWgpuState_SweepDrawsClearsAllWhenNothingMatches(t *testing.T) {
	rs := &wgpuState{draws: map[EntityId]*wgpuEntityDraw{
		4: {},
		5: {},
	}}

	rs.sweepDraws(set[EntityId]{})

	assert.Empty(t, rs.draws)
}
