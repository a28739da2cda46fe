package glint

import (
	"reflect"
)

// Queries iterate every entity whose archetype satisfies the type
// parameters. A term listed in optionals may be absent, in which case
// its pointer is nil for entities of archetypes without it. Returning
// false from the visitor stops the iteration.
//
// Higher arities follow the same shape; add QueryN, MakeQueryN and its
// Map when needed.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A] {
	return Query1[A]{ecs: cmd.app.ecs}
}

func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] {
	return Query2[A, B]{ecs: cmd.app.ecs}
}

func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	idA := termId[A](q.ecs)
	opt := optionalIds(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, ok := column[A](arch, idA, opt)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, termPtr(compsA, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	idA := termId[A](q.ecs)
	idB := termId[B](q.ecs)
	opt := optionalIds(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, ok := column[A](arch, idA, opt)
		if !ok {
			continue
		}
		compsB, ok := column[B](arch, idB, opt)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, termPtr(compsA, r), termPtr(compsB, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	idA := termId[A](q.ecs)
	idB := termId[B](q.ecs)
	idC := termId[C](q.ecs)
	opt := optionalIds(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, ok := column[A](arch, idA, opt)
		if !ok {
			continue
		}
		compsB, ok := column[B](arch, idB, opt)
		if !ok {
			continue
		}
		compsC, ok := column[C](arch, idC, opt)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, termPtr(compsA, r), termPtr(compsB, r), termPtr(compsC, r)) {
				return
			}
		}
	}
}

// column resolves one query term against an archetype. ok is false when
// the archetype cannot satisfy the term; a nil slice with ok true means
// the term is optional and absent here.
func column[T any](arch *archetype, id componentId, opt set[componentId]) ([]T, bool) {
	if data, present := arch.componentData[id]; present {
		return data.([]T), true
	}
	if _, optional := opt[id]; optional {
		return nil, true
	}
	return nil, false
}

func termPtr[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func termId[T any](ecs *Ecs) componentId {
	var zero T
	return ecs.componentIdOf(reflect.TypeOf(zero))
}

func optionalIds(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.componentIdOf(reflect.TypeOf(c))] = struct{}{}
	}
	return res
}
