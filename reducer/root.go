/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package reducer

// Slice names of the application state tree.
const (
	KeyPopins      = "popins"
	KeyOpenPopover = "openPopover"
	KeyUser        = "user"
	KeyChecks      = "checks"
	KeyOpenCheckID = "openCheckID"
	KeyLog         = "log"
	KeyMenuIsOpen  = "menuIsOpen"
	KeyIsOffline   = "isOffline"
	KeyRouting     = "routing"
)

// RootSlices holds the reducer of every slice of the application state tree.
type RootSlices struct {
	Popins      Reducer
	OpenPopover Reducer
	User        Reducer
	Checks      Reducer
	OpenCheckID Reducer
	Log         Reducer
	MenuIsOpen  Reducer
	IsOffline   Reducer
	Routing     Reducer
}

func (s RootSlices) mapping() map[string]Reducer {
	return map[string]Reducer{
		KeyPopins:      s.Popins,
		KeyOpenPopover: s.OpenPopover,
		KeyUser:        s.User,
		KeyChecks:      s.Checks,
		KeyOpenCheckID: s.OpenCheckID,
		KeyLog:         s.Log,
		KeyMenuIsOpen:  s.MenuIsOpen,
		KeyIsOffline:   s.IsOffline,
		KeyRouting:     s.Routing,
	}
}

// NewRootReducer combines the application slices. Every slice must be set.
func NewRootReducer(slices RootSlices) (Reducer, error) {
	return Combine(slices.mapping())
}
