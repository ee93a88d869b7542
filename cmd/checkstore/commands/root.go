/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/suparena/checkstore"
	"github.com/suparena/checkstore/config"
	"github.com/suparena/checkstore/internal/telemetry"
)

// Commands annotated with skipStorage run without opening a backend.
const skipStorage = "checkstore/skip-storage"

var (
	envFiles []string
	output   string
	timeout  time.Duration

	storage    *checkstore.Storage
	dispatcher *checkstore.Dispatcher
	shutdown   func(context.Context) error
)

func Execute() error {
	err := newRootCmd().Execute()
	if cerr := closeStorage(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "checkstore",
		Short:        "Manage users and checks in a checkstore backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			if cmd.Annotations[skipStorage] != "" {
				return nil
			}

			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}

			shutdown, err = telemetry.Setup(cmd.Context(), "checkstore", cfg.OTELEndpoint)
			if err != nil {
				return err
			}

			storage, err = checkstore.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			log.Printf("checkstore: using %s backend", cfg.Backend)
			dispatcher = checkstore.NewDispatcher(storage)
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "time limit for backend operations")

	root.AddCommand(fetchCmd(), getCmd(), createCmd(), updateCmd(), destroyCmd(), indexMapCmd(), versionCmd())
	return root
}

// closeStorage drains pending callbacks, closes the backend and flushes
// traces. Telemetry is flushed even when the backend never opened.
func closeStorage() error {
	var err error
	if storage != nil {
		dispatcher.Wait()
		err = storage.Close()
		storage, dispatcher = nil, nil
	}
	if shutdown != nil {
		if serr := shutdown(context.Background()); serr != nil {
			log.Printf("checkstore: flush traces: %v", serr)
		}
		shutdown = nil
	}
	return err
}

// await runs one dispatcher operation and blocks until its callback fires.
func await[R any](cmd *cobra.Command, run func(ctx context.Context, cb checkstore.Callback[R])) (R, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	type outcome struct {
		result R
		err    error
	}
	done := make(chan outcome, 1)
	run(ctx, func(result R, err error) {
		done <- outcome{result, err}
	})
	o := <-done
	return o.result, o.err
}
