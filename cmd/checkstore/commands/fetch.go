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

// fetch <model>: list matching records.
func fetchCmd() *cobra.Command {
	var (
		where string
		sort  []string
		limit int
		skip  int
	)
	cmd := &cobra.Command{
		Use:     "fetch <model>",
		Short:   "List the records of a model matching criteria",
		Example: `  checkstore fetch check --where '{"owner":"u1","interval":{">":30}}' --sort "interval DESC" --limit 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := storagemodels.Criteria{}
			if where != "" {
				w, err := parseObject("--where", where)
				if err != nil {
					return err
				}
				criteria[storagemodels.KeyWhere] = w
			}
			if len(sort) > 0 {
				criteria[storagemodels.KeySort] = sort
			}
			if limit > 0 {
				criteria[storagemodels.KeyLimit] = limit
			}
			if skip > 0 {
				criteria[storagemodels.KeySkip] = skip
			}

			records, err := await(cmd, func(ctx context.Context, cb checkstore.Callback[[]storagemodels.Record]) {
				dispatcher.FetchMany(ctx, args[0], criteria, cb)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "criteria as a JSON object")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, `sort keys such as "createdAt DESC"`)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of records to skip")
	return cmd
}
