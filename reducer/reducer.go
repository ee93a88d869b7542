/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package reducer composes independently defined slice reducers into one
// reducer over the whole application state tree.
package reducer

import (
	"fmt"
	"sort"
)

// InitAction is the action type every slice is probed with when a reducer
// is combined. No slice should handle it.
const InitAction = "@@checkstore/INIT"

// Action is an opaque tagged value. Only the slice reducers interpret it.
type Action struct {
	Type    string
	Payload any
}

// State is the combined state tree keyed by slice name.
type State map[string]any

// Reducer maps a previous state and an action to the next state. A nil
// previous state asks for the initial state. Reducers must be pure.
type Reducer func(state any, action Action) any

// Slice adapts a typed slice reducer. A missing or mistyped previous state is
// passed as the zero value of S.
func Slice[S any](fn func(state S, action Action) S) Reducer {
	return func(state any, action Action) any {
		s, _ := state.(S)
		return fn(s, action)
	}
}

// Combine builds one reducer from a mapping of slice name to reducer. The
// mapping is copied; later changes to slices have no effect.
//
// Every slice is probed with a nil state and the init action and must
// return a non-nil initial state.
//
// The combined reducer calls each slice with (state[name], action) and
// returns a new State holding exactly the declared names. Keys of the
// incoming state that name no slice are dropped.
func Combine(slices map[string]Reducer) (Reducer, error) {
	names := make([]string, 0, len(slices))
	fixed := make(map[string]Reducer, len(slices))
	for name, r := range slices {
		if r == nil {
			return nil, fmt.Errorf("slice %q has no reducer", name)
		}
		names = append(names, name)
		fixed[name] = r
	}
	sort.Strings(names)

	for _, name := range names {
		if fixed[name](nil, Action{Type: InitAction}) == nil {
			return nil, fmt.Errorf("slice %q returned no initial state", name)
		}
	}

	return func(state any, action Action) any {
		prev := asState(state)
		next := make(State, len(names))
		for _, name := range names {
			next[name] = fixed[name](prev[name], action)
		}
		return next
	}, nil
}

// MustCombine is Combine for package-level wiring; it panics on error.
func MustCombine(slices map[string]Reducer) Reducer {
	r, err := Combine(slices)
	if err != nil {
		panic(err)
	}
	return r
}

func asState(v any) State {
	switch s := v.(type) {
	case State:
		return s
	case map[string]any:
		return s
	}
	return nil
}
