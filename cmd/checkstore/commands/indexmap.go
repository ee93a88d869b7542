/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suparena/checkstore/processor"
	"github.com/suparena/checkstore/registry"
)

// indexmap: show the registered index maps, or load them from an OpenAPI document.
func indexMapCmd() *cobra.Command {
	var (
		specFile string
		generate bool
		pkg      string
	)
	cmd := &cobra.Command{
		Use:         "indexmap [model]",
		Short:       "Show, load or generate DynamoDB index maps",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipStorage: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if specFile != "" {
				f, err := os.Open(specFile)
				if err != nil {
					return err
				}
				defer f.Close()

				maps, err := processor.Parse(f)
				if err != nil {
					return err
				}
				if generate {
					return processor.Generate(cmd.OutOrStdout(), pkg, maps)
				}
				processor.Register(maps)
			} else if generate {
				return fmt.Errorf("--generate requires --spec")
			}

			tags := registry.Tags()
			if len(args) == 1 {
				model, err := registry.Resolve(args[0])
				if err != nil {
					return err
				}
				tags = []registry.Tag{model.Tag}
			}
			out := make(map[string]map[string]string, len(tags))
			for _, tag := range tags {
				if m, ok := registry.GetIndexMap(tag); ok {
					out[string(tag)] = m
				}
			}
			return printResult(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&specFile, "spec", "", "OpenAPI document carrying x-dynamodb-indexmap extensions")
	cmd.Flags().BoolVar(&generate, "generate", false, "write Go registration code instead of the maps")
	cmd.Flags().StringVar(&pkg, "package", "models", "package name of the generated code")
	return cmd
}
