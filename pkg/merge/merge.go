// Package merge deep-merges configuration values.
//
// Two shapes are supported. Into overlays a "partial" struct (pointer, func,
// map and slice fields, nil meaning "not set") onto a fully populated struct
// of the same field names. Trees overlays generic map[string]any trees, as
// produced by YAML or TOML decoding, where the Undefined marker means "not
// set" and an explicit nil overwrites.
//
// In both shapes nested objects merge recursively while every other value
// (scalars, slices, funcs) replaces the target value wholesale.
package merge

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidTarget is returned when the merge destination is not a struct pointer.
	ErrInvalidTarget = errors.New("merge: invalid target")
	// ErrTypeMismatch is returned when a source field cannot be stored in its destination.
	ErrTypeMismatch = errors.New("merge: type mismatch")
)

// Into merges src over dst. dst must be a non-nil pointer to a struct; src is
// a struct or a pointer to one (a nil pointer is a no-op). Source fields with
// no destination field of the same name are ignored.
//
// Maps reachable from dst are copied before they are written, so values that
// share maps with dst (an earlier merge result, a defaults value) are never
// modified.
func Into(dst, src any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: want non-nil struct pointer, got %T", ErrInvalidTarget, dst)
	}

	sv := reflect.ValueOf(src)
	for sv.Kind() == reflect.Pointer {
		if sv.IsNil() {
			return nil
		}
		sv = sv.Elem()
	}
	if !sv.IsValid() {
		return nil
	}
	if sv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: source must be a struct, got %T", ErrTypeMismatch, src)
	}

	return mergeStruct(dv.Elem(), sv, dv.Elem().Type().Name())
}

func mergeStruct(dst, src reflect.Value, path string) error {
	st := src.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		df := dst.FieldByName(sf.Name)
		if !df.IsValid() || !df.CanSet() {
			continue
		}
		if err := mergeValue(df, src.Field(i), path+"."+sf.Name); err != nil {
			return err
		}
	}
	return nil
}

func mergeValue(dst, src reflect.Value, path string) error {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return nil
		}
		if src.Type().AssignableTo(dst.Type()) {
			dst.Set(src)
			return nil
		}
		elem := src.Elem()
		if elem.Kind() == reflect.Struct && dst.Kind() == reflect.Struct {
			return mergeStruct(dst, elem, path)
		}
		return assign(dst, elem, path)

	case reflect.Func, reflect.Slice, reflect.Interface:
		if src.IsNil() {
			return nil
		}
		if src.Kind() == reflect.Interface {
			return assign(dst, src.Elem(), path)
		}
		return assign(dst, src, path)

	case reflect.Map:
		if src.IsNil() {
			return nil
		}
		return mergeMap(dst, src, path)

	case reflect.Struct:
		if dst.Kind() == reflect.Struct && dst.Type() != src.Type() {
			return mergeStruct(dst, src, path)
		}
		return assign(dst, src, path)

	default:
		return assign(dst, src, path)
	}
}

func mergeMap(dst, src reflect.Value, path string) error {
	if dst.Kind() != reflect.Map {
		return fmt.Errorf("%w: %s: cannot merge %s into %s", ErrTypeMismatch, path, src.Type(), dst.Type())
	}
	keyType := dst.Type().Key()
	if !src.Type().Key().ConvertibleTo(keyType) {
		return fmt.Errorf("%w: %s: key %s is not %s", ErrTypeMismatch, path, src.Type().Key(), keyType)
	}

	out := reflect.MakeMapWithSize(dst.Type(), dst.Len()+src.Len())
	iter := dst.MapRange()
	for iter.Next() {
		out.SetMapIndex(iter.Key(), iter.Value())
	}

	iter = src.MapRange()
	for iter.Next() {
		key := iter.Key().Convert(keyType)
		val := iter.Value()
		if isNilable(val.Kind()) && val.IsNil() {
			continue
		}

		cur := reflect.New(dst.Type().Elem()).Elem()
		if existing := out.MapIndex(key); existing.IsValid() {
			cur.Set(existing)
		}
		if err := mergeValue(cur, val, fmt.Sprintf("%s[%v]", path, key.Interface())); err != nil {
			return err
		}
		out.SetMapIndex(key, cur)
	}

	dst.Set(out)
	return nil
}

func assign(dst, src reflect.Value, path string) error {
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("%w: %s: cannot use %s as %s", ErrTypeMismatch, path, src.Type(), dst.Type())
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return true
	}
	return false
}
