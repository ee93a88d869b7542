/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"os"

	"github.com/suparena/checkstore/cmd/checkstore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
