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

// get <model> <id>: show one record.
func getCmd() *cobra.Command {
	var populate string
	cmd := &cobra.Command{
		Use:   "get <model> <id>",
		Short: "Show one record, optionally with an association populated",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := await(cmd, func(ctx context.Context, cb checkstore.Callback[storagemodels.Record]) {
				if populate != "" {
					dispatcher.FetchOneWithAssociation(ctx, args[0], args[1], populate, cb)
					return
				}
				dispatcher.FetchOne(ctx, args[0], args[1], cb)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&populate, "populate", "", "association to load (checks on user, owner on check)")
	return cmd
}
