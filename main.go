package main

import (
	"fmt"
	"os"

	"github.com/maboroshi-cli/maboroshi/cmd"
	"github.com/maboroshi-cli/maboroshi/config"
	"github.com/maboroshi-cli/maboroshi/log"
)

func main() {
	for _, setup := range []func() error{config.Setup, log.Setup} {
		if err := setup(); err != nil {
			fmt.Fprintln(os.Stderr, "maboroshi:", err)
			os.Exit(1)
		}
	}

	cmd.Execute()
}
