package glint

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// Ecs stores entities grouped by archetype: all entities sharing the
// same component set live in one archetype, one typed slice per
// component. Moving a component set changes the entity's archetype.
type Ecs struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	entityMu        sync.Mutex
	entityIdCounter EntityId

	componentMu        sync.Mutex
	componentIdCounter componentId
	componentTypeIdMap map[reflect.Type]componentId
	componentIdTypeMap map[componentId]reflect.Type
}

func MakeEcs() Ecs {
	return Ecs{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // typed slices via reflection
	recycled      []row
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	arch := ecs.archetypeFor(ecs.keyOf(components...))

	r := ecs.reserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		ecs.writeComponent(arch, r, component)
	}

	ecs.entityIndex[entityId] = arch.id

	return entityId
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	ecs.releaseRow(entityId)
}

// addComponents migrates the entity into the archetype extended by the
// given components, then writes them. Unknown entities are ignored so a
// flush batch that removes an entity first stays safe.
func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	srcArch, srcRow, ok := ecs.entityLocation(entityId)
	if !ok {
		return
	}

	dstKey := mergeKeys(srcArch.key, ecs.keyOf(components...))
	dstArch := ecs.archetypeFor(dstKey)
	dstRow := ecs.reserveRow(dstArch)

	ecs.copyCommonComponents(srcArch, srcRow, dstArch, dstRow)
	for _, component := range components {
		ecs.writeComponent(dstArch, dstRow, component)
	}

	ecs.releaseRow(entityId)

	dstArch.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dstArch.id
}

// removeComponents migrates the entity into the archetype without the
// given components. Components the entity does not have are ignored.
func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	srcArch, srcRow, ok := ecs.entityLocation(entityId)
	if !ok {
		return
	}

	removing := make(set[componentId])
	for _, id := range ecs.keyOf(components...) {
		removing[id] = struct{}{}
	}

	var dstKey archetypeKey
	for _, id := range srcArch.key {
		if _, drop := removing[id]; !drop {
			dstKey = append(dstKey, id)
		}
	}

	dstArch := ecs.archetypeFor(dstKey)
	dstRow := ecs.reserveRow(dstArch)

	ecs.copyCommonComponents(srcArch, srcRow, dstArch, dstRow)
	ecs.releaseRow(entityId)

	dstArch.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dstArch.id
}

func (ecs *Ecs) entityLocation(entityId EntityId) (*archetype, row, bool) {
	archId, ok := ecs.entityIndex[entityId]
	if !ok {
		return nil, 0, false
	}
	arch := ecs.archetypes[archId]
	return arch, arch.entities[entityId], true
}

// copyCommonComponents copies the component values both archetypes
// share. The shorter key is always the shared subset, since migrations
// only ever add or remove components.
func (ecs *Ecs) copyCommonComponents(srcArch *archetype, srcRow row, dstArch *archetype, dstRow row) {
	shared := srcArch.key
	if len(dstArch.key) < len(shared) {
		shared = dstArch.key
	}

	for _, id := range shared {
		val := typedSliceGet(srcArch.componentData[id], int(srcRow))
		typedSliceSet(dstArch.componentData[id], int(dstRow), val)
	}
}

func (ecs *Ecs) writeComponent(arch *archetype, r row, component any) {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		panic(fmt.Sprintf("component must be a struct or pointer to struct, got %s", value.Kind()))
	}

	id := ecs.componentIdOf(value.Type())
	typedSliceSet(arch.componentData[id], int(r), value)
}

func (ecs *Ecs) releaseRow(entityId EntityId) {
	arch, r, ok := ecs.entityLocation(entityId)
	if !ok {
		return
	}

	arch.recycled = append(arch.recycled, r)
	delete(arch.entities, entityId)
	delete(ecs.entityIndex, entityId)
}

func (ecs *Ecs) archetypeFor(key archetypeKey) *archetype {
	id := hashKey(key)

	if arch, ok := ecs.archetypes[id]; ok {
		return arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any),
	}
	for _, componentId := range key {
		arch.componentData[componentId] = makeTypedSlice(ecs.componentTypeOf(componentId))
	}

	ecs.archetypes[id] = arch
	return arch
}

// reserveRow hands out a recycled row when one exists, otherwise grows
// every column by one zero value. With no recycled rows every column
// slot is in use, so len(entities) is always the next free index.
func (ecs *Ecs) reserveRow(arch *archetype) row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(len(arch.entities))
	for _, componentId := range arch.key {
		arch.componentData[componentId] = typedSliceAppend(
			arch.componentData[componentId],
			reflect.Zero(ecs.componentTypeOf(componentId)),
		)
	}
	return r
}

// keyOf derives the canonical archetype key for a component list: the
// sorted, deduplicated component ids. The archetypeId is an fnv64a hash
// of the key, cheaper to index by than the key itself.
func (ecs *Ecs) keyOf(components ...any) archetypeKey {
	var key archetypeKey

	for _, component := range components {
		compType := reflect.TypeOf(component)
		if compType.Kind() == reflect.Pointer {
			compType = compType.Elem()
		}
		if compType.Kind() != reflect.Struct {
			panic("component must be a struct")
		}

		key = append(key, ecs.componentIdOf(compType))
	}

	return normalizeKey(key)
}

func mergeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	return normalizeKey(append(slices.Clone(a), b...))
}

func normalizeKey(key archetypeKey) archetypeKey {
	seen := make(set[componentId], len(key))
	res := make(archetypeKey, 0, len(key))

	for _, id := range key {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}

	slices.Sort(res)
	return res
}

func hashKey(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	var b [8]byte
	for _, componentId := range key {
		binary.LittleEndian.PutUint64(b[:], uint64(componentId))
		hash.Write(b[:])
	}
	return archetypeId(hash.Sum64())
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.entityMu.Lock()
	defer ecs.entityMu.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter++
	return id
}

func (ecs *Ecs) componentIdOf(componentType reflect.Type) componentId {
	ecs.componentMu.Lock()
	defer ecs.componentMu.Unlock()

	if id, ok := ecs.componentTypeIdMap[componentType]; ok {
		return id
	}

	id := ecs.componentIdCounter
	ecs.componentIdCounter++
	ecs.componentTypeIdMap[componentType] = id
	ecs.componentIdTypeMap[id] = componentType
	return id
}

func (ecs *Ecs) componentTypeOf(id componentId) reflect.Type {
	ecs.componentMu.Lock()
	defer ecs.componentMu.Unlock()

	t, ok := ecs.componentIdTypeMap[id]
	if !ok {
		panic("component id not registered")
	}
	return t
}
