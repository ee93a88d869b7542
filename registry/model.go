/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"github.com/suparena/checkstore/errors"
)

// Tag identifies one persistent entity type.
type Tag string

const (
	TagUser  Tag = "user"
	TagCheck Tag = "check"
)

// AssociationKind distinguishes to-one from to-many relations.
type AssociationKind int

const (
	// AssociationModel is a to-one relation stored as the related record's id.
	AssociationModel AssociationKind = iota
	// AssociationCollection is a to-many relation resolved through the related model's Via attribute.
	AssociationCollection
)

// Association describes a relation that can be populated onto a fetched record.
type Association struct {
	Kind  AssociationKind
	Model Tag
	// Via is the attribute on the related model holding this record's id.
	// Only used by collections.
	Via string
}

// Model is the schema half of a model handle.
type Model struct {
	Tag Tag
	// Identity is the storage name of the model (table, entity type).
	Identity string
	// Required attributes must be present and non-empty on create.
	Required []string
	// Defaults are merged under caller-supplied fields on create.
	Defaults     map[string]any
	Associations map[string]Association
}

// Association returns the named association, if the model declares it.
func (m *Model) Association(name string) (Association, bool) {
	a, ok := m.Associations[name]
	return a, ok
}

// IsCollection reports whether attr names a to-many association.
// Collections are virtual and never stored on the record.
func (m *Model) IsCollection(attr string) bool {
	a, ok := m.Associations[attr]
	return ok && a.Kind == AssociationCollection
}

var userModel = &Model{
	Tag:      TagUser,
	Identity: "user",
	Required: []string{"email"},
	Defaults: map[string]any{
		"role": "member",
	},
	Associations: map[string]Association{
		"checks": {Kind: AssociationCollection, Model: TagCheck, Via: "owner"},
	},
}

var checkModel = &Model{
	Tag:      TagCheck,
	Identity: "check",
	Required: []string{"url"},
	Defaults: map[string]any{
		"interval": 60,
		"active":   true,
	},
	Associations: map[string]Association{
		"owner": {Kind: AssociationModel, Model: TagUser},
	},
}

// Resolve maps a model tag to its model. Unknown tags fail with an UnknownModelError.
func Resolve(tag string) (*Model, error) {
	switch Tag(tag) {
	case TagUser:
		return userModel, nil
	case TagCheck:
		return checkModel, nil
	default:
		return nil, errors.NewUnknownModelError(tag)
	}
}

// MustResolve is Resolve for tags known at compile time.
func MustResolve(tag Tag) *Model {
	m, err := Resolve(string(tag))
	if err != nil {
		panic(err)
	}
	return m
}

// Tags returns every registered tag in a stable order.
func Tags() []Tag {
	return []Tag{TagUser, TagCheck}
}
