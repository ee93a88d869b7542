/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/suparena/checkstore"
	"github.com/suparena/checkstore/storagemodels"
)

// create <model> <json>: create a record.
func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <model> <json>",
		Short:   "Create a record from a JSON object",
		Example: `  checkstore create check '{"url":"https://example.com","owner":"u1"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseObject("fields", args[1])
			if err != nil {
				return err
			}
			rec, err := await(cmd, func(ctx context.Context, cb checkstore.Callback[storagemodels.Record]) {
				dispatcher.Create(ctx, args[0], fields, cb)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rec)
		},
	}
}
