/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/suparena/checkstore/registry"
)

const sampleDocument = `
openapi: 3.0.3
components:
  schemas:
    Check:
      type: object
      x-dynamodb-indexmap:
        PK: "CHECK#{id}"
        SK: "CHECK#{id}"
        PK1: "ENTITY#check"
        SK1: "{url}"
    Account:
      type: object
      x-checkstore-model: user
      x-dynamodb-indexmap:
        PK: "USER#{id}"
        SK: "PROFILE"
    Error:
      type: object
`

func TestParse(t *testing.T) {
	maps, err := Parse(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("expected 2 index maps, got %d", len(maps))
	}
	if maps[0].Schema != "Account" || maps[0].Tag != registry.TagUser {
		t.Errorf("first map = %+v", maps[0])
	}
	if maps[1].Tag != registry.TagCheck || maps[1].Keys["SK1"] != "{url}" {
		t.Errorf("second map = %+v", maps[1])
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown model", `
components:
  schemas:
    Invoice:
      x-dynamodb-indexmap: {PK: "INV#{id}", SK: "INV"}
`},
		{"missing SK", `
components:
  schemas:
    Check:
      x-dynamodb-indexmap: {PK: "CHECK#{id}"}
`},
		{"bad macro", `
components:
  schemas:
    Check:
      x-dynamodb-indexmap: {PK: "CHECK#{a.b}", SK: "CHECK"}
`},
		{"templated PK1", `
components:
  schemas:
    Check:
      x-dynamodb-indexmap: {PK: "CHECK#{id}", SK: "CHECK", PK1: "OWNER#{owner}"}
`},
		{"not a map", `
components:
  schemas:
    Check:
      x-dynamodb-indexmap: [PK, SK]
`},
		{"malformed yaml", "components: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRegister(t *testing.T) {
	original, _ := registry.GetIndexMap(registry.TagCheck)
	t.Cleanup(func() { registry.RegisterIndexMap(registry.TagCheck, original) })

	Register([]IndexMap{{Schema: "Check", Tag: registry.TagCheck, Keys: map[string]string{"PK": "C#{id}", "SK": "C"}}})

	got, _ := registry.GetIndexMap(registry.TagCheck)
	if got["PK"] != "C#{id}" || got["SK"] != "C" {
		t.Errorf("registered map = %v", got)
	}
}

func TestGenerate(t *testing.T) {
	maps, err := Parse(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Generate(&buf, "models", maps); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := buf.String()
	for _, want := range []string{
		"package models",
		`registry.RegisterIndexMap(registry.Tag("check"), map[string]string{`,
		`"SK1": "{url}",`,
		"// Account",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source lacks %q:\n%s", want, src)
		}
	}
}
