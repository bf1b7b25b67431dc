// Package unwrap peels proxy and decorator layers off a value until it finds
// one of a requested type.
//
// Layers are recognized by capability, not by concrete type. Each Step knows
// one way a wrapper can expose what it wraps; at every layer the steps are
// tried in order and the first one that yields a non-nil value wins. Whether a
// layer is an interceptor proxy and whether it exposes a delegate are
// independent questions: a layer that is not a handler proxy is still probed
// for a delegate accessor, and a handler proxy without a target falls through
// to the other steps.
//
//	r, ok := unwrap.As[*router.Router](ds, unwrap.Delegate[datasource.DataSource]())
package unwrap

import "reflect"

// MaxDepth bounds the number of layers followed, so that a wrapper cycle ends
// as "not found" instead of looping.
const MaxDepth = 32

// Step tries to peel one layer off v.
type Step interface {
	TryUnwrap(v any) (next any, ok bool)
}

// StepFunc adapts a function to Step.
type StepFunc func(v any) (any, bool)

// TryUnwrap calls f(v).
func (f StepFunc) TryUnwrap(v any) (any, bool) { return f(v) }

// DefaultSteps are always tried, in this order, before caller-supplied steps.
var DefaultSteps = []Step{
	HandlerStep{},
	AnyDelegateStep{},
}

// As walks the chain starting at handle and returns the first layer
// assignable to T. It returns the zero T and false when the chain ends, hits a
// nil layer or exceeds MaxDepth. It never panics on values it cannot unwrap.
//
// Parameters:
//   - handle: The value to start from, possibly nil
//   - extra: Steps tried after DefaultSteps at every layer
//
// Returns:
//   - T: The first layer assignable to T, handle itself when it already is one
//   - bool: false when no layer matched
//
// Example:
//
//	r, ok := unwrap.As[*router.Router](ds, unwrap.Delegate[datasource.DataSource]())
//	if !ok {
//	    return
//	}
func As[T any](handle any, extra ...Step) (T, bool) {
	var zero T

	current := handle
	for depth := 0; depth <= MaxDepth; depth++ {
		if isNil(current) {
			return zero, false
		}
		if t, ok := current.(T); ok {
			return t, true
		}

		next, ok := peel(current, extra)
		if !ok {
			return zero, false
		}
		current = next
	}
	return zero, false
}

// Chain returns every layer from handle to the innermost value it can reach,
// handle first. It is meant for diagnostics.
func Chain(handle any, extra ...Step) []any {
	var layers []any
	current := handle
	for depth := 0; depth <= MaxDepth && !isNil(current); depth++ {
		layers = append(layers, current)
		next, ok := peel(current, extra)
		if !ok {
			break
		}
		current = next
	}
	return layers
}

func peel(v any, extra []Step) (any, bool) {
	for _, steps := range [][]Step{DefaultSteps, extra} {
		for _, s := range steps {
			next, ok := s.TryUnwrap(v)
			if ok && !isNil(next) {
				return next, true
			}
		}
	}
	return nil, false
}

// isNil reports whether v is nil or an interface holding a nil pointer, map,
// slice, func or channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
