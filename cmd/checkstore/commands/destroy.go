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

// destroy <model> <id>: remove a record.
func destroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <model> <id>",
		Short: "Remove a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := await(cmd, func(ctx context.Context, cb checkstore.Callback[storagemodels.Record]) {
				dispatcher.Destroy(ctx, args[0], args[1], cb)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rec)
		},
	}
}
