/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func validateOutput() error {
	switch output {
	case "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", output)
}

// printResult writes v in the selected format. An absent record prints as null.
func printResult(w io.Writer, v any) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseObject decodes a JSON object argument.
func parseObject(name, raw string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%s must be a JSON object: %w", name, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%s must be a JSON object", name)
	}
	return m, nil
}
