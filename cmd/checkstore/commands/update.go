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

// update <model> <id> <json>: merge fields into a record.
func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <model> <id> <json>",
		Short: "Merge a JSON object into a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseObject("fields", args[2])
			if err != nil {
				return err
			}
			rec, err := await(cmd, func(ctx context.Context, cb checkstore.Callback[storagemodels.Record]) {
				dispatcher.Update(ctx, args[0], args[1], fields, cb)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rec)
		},
	}
}
