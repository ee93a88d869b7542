/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/suparena/checkstore/registry"
)

const (
	IndexMapExtension = "x-dynamodb-indexmap"
	ModelExtension    = "x-checkstore-model"
)

var (
	macroPattern = regexp.MustCompile(`\{([^{}]*)\}`)
	fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	keyPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// IndexMap is the key template set of one schema.
type IndexMap struct {
	Schema string
	Tag    registry.Tag
	Keys   map[string]string
}

type document struct {
	Components struct {
		Schemas map[string]map[string]yaml.Node `yaml:"schemas"`
	} `yaml:"components"`
}

// Parse reads an OpenAPI document (YAML or JSON) and returns the index maps
// of every schema carrying the extension, sorted by schema name.
func Parse(r io.Reader) ([]IndexMap, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var maps []IndexMap
	for _, name := range names {
		schema := doc.Components.Schemas[name]
		node, ok := schema[IndexMapExtension]
		if !ok {
			continue
		}

		var keys map[string]string
		if err := node.Decode(&keys); err != nil {
			return nil, fmt.Errorf("schema %s: %s must map key names to templates: %w", name, IndexMapExtension, err)
		}

		tagName := strings.ToLower(name)
		if modelNode, ok := schema[ModelExtension]; ok {
			if err := modelNode.Decode(&tagName); err != nil {
				return nil, fmt.Errorf("schema %s: %s must be a string: %w", name, ModelExtension, err)
			}
		}
		model, err := registry.Resolve(tagName)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}

		im := IndexMap{Schema: name, Tag: model.Tag, Keys: keys}
		if err := im.Validate(); err != nil {
			return nil, err
		}
		maps = append(maps, im)
	}
	return maps, nil
}

// Validate checks that the primary key is templated and every macro names a
// plain attribute.
func (im IndexMap) Validate() error {
	for _, required := range []string{"PK", "SK"} {
		if im.Keys[required] == "" {
			return fmt.Errorf("schema %s: index map has no %s", im.Schema, required)
		}
	}
	for key, tmpl := range im.Keys {
		if !keyPattern.MatchString(key) {
			return fmt.Errorf("schema %s: invalid key attribute %q", im.Schema, key)
		}
		for _, m := range macroPattern.FindAllStringSubmatch(tmpl, -1) {
			if !fieldPattern.MatchString(m[1]) {
				return fmt.Errorf("schema %s: %s has invalid macro {%s}", im.Schema, key, m[1])
			}
		}
	}
	if pk1, ok := im.Keys["PK1"]; ok && macroPattern.MatchString(pk1) {
		return fmt.Errorf("schema %s: PK1 must be static to list records", im.Schema)
	}
	return nil
}

// Register installs the index maps in the registry.
func Register(maps []IndexMap) {
	for _, im := range maps {
		registry.RegisterIndexMap(im.Tag, im.Keys)
	}
}

var registrationTemplate = template.Must(template.New("registration").Parse(`// Code generated by checkstore indexmap. DO NOT EDIT.

package {{.Package}}

import "github.com/suparena/checkstore/registry"

func init() {
{{- range .Maps}}
	// {{.Schema}}
	registry.RegisterIndexMap(registry.Tag({{printf "%q" .Tag}}), map[string]string{
	{{- range $k, $v := .Keys}}
		{{printf "%q" $k}}: {{printf "%q" $v}},
	{{- end}}
	})
{{- end}}
}
`))

// Generate writes a gofmt-ed Go file registering the maps from an init function.
func Generate(w io.Writer, pkg string, maps []IndexMap) error {
	var buf bytes.Buffer
	err := registrationTemplate.Execute(&buf, struct {
		Package string
		Maps    []IndexMap
	}{pkg, maps})
	if err != nil {
		return fmt.Errorf("failed to render registration: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format registration: %w", err)
	}
	_, err = w.Write(src)
	return err
}
