package mapper

import (
	"reflect"

	"mapwire/internal/match"
)

type stepKind int

const (
	stepMissing stepKind = iota
	stepTypeMap
	stepCopy
	stepConvert
	stepUnwrap
	stepDeref
	stepAlloc
	stepSlice
	stepMap
)

// step is the first move of converting one runtime type pair.
type step struct {
	kind stepKind
	tm   *TypeMap
}

func (c *Configuration) plan(st, dt reflect.Type) step {
	key := typePair{source: st, destination: dt}
	if s, ok := c.plans.Get(key); ok {
		return s
	}

	s := c.computeStep(st, dt)
	c.plans.Add(key, s)

	return s
}

func (c *Configuration) computeStep(st, dt reflect.Type) step {
	if tm, ok := c.maps[typePair{source: st, destination: dt}]; ok {
		return step{kind: stepTypeMap, tm: tm}
	}

	switch match.Compare(st, dt) {
	case match.Identical, match.Assignable:
		return step{kind: stepCopy}
	case match.Convertible:
		return step{kind: stepConvert}
	}

	switch {
	case st.Kind() == reflect.Interface:
		return step{kind: stepUnwrap}
	case st.Kind() == reflect.Pointer:
		return step{kind: stepDeref}
	case dt.Kind() == reflect.Pointer:
		return step{kind: stepAlloc}
	case (st.Kind() == reflect.Slice || st.Kind() == reflect.Array) && dt.Kind() == reflect.Slice:
		return step{kind: stepSlice}
	case st.Kind() == reflect.Map && dt.Kind() == reflect.Map:
		return step{kind: stepMap}
	default:
		return step{kind: stepMissing}
	}
}

// reachable reports whether values of st can be mapped into dt without
// knowing runtime values. Interfaces are assumed reachable.
func (c *Configuration) reachable(st, dt reflect.Type, depth int) bool {
	if depth > c.maxDepth {
		return false
	}

	switch c.plan(st, dt).kind {
	case stepTypeMap, stepCopy, stepConvert, stepUnwrap:
		return true
	case stepDeref:
		return c.reachable(st.Elem(), dt, depth+1)
	case stepAlloc:
		return c.reachable(st, dt.Elem(), depth+1)
	case stepSlice:
		return c.reachable(st.Elem(), dt.Elem(), depth+1)
	case stepMap:
		return c.reachable(st.Key(), dt.Key(), depth+1) && c.reachable(st.Elem(), dt.Elem(), depth+1)
	default:
		return false
	}
}
