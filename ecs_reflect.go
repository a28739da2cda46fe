package glint

import (
	"reflect"
)

// Archetype columns are typed slices ([]T for component type T) stored
// behind `any`. These helpers do the reflection plumbing in one place.

func makeTypedSlice(elem reflect.Type) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), 0, 1).Interface()
}

func typedSliceGet(slice any, idx int) reflect.Value {
	return reflect.ValueOf(slice).Index(idx)
}

func typedSliceSet(slice any, idx int, val reflect.Value) {
	reflect.ValueOf(slice).Index(idx).Set(val)
}

func typedSliceAppend(slice any, val reflect.Value) any {
	return reflect.Append(reflect.ValueOf(slice), val).Interface()
}

func typedSliceLen(slice any) int {
	return reflect.ValueOf(slice).Len()
}
