package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "tablescore",
		Short:         "Score restaurant visits as a group and keep the results",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.StringVar(&f.store, "store", "", "Store backend: memory, file or sqlite")
	pf.StringVar(&f.data, "data", "", "Store location (directory for file, database path for sqlite)")
	pf.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(
		newSessionCmd(f),
		newListCmd(f),
		newShowCmd(f),
		newDeleteCmd(f),
		newClearCmd(f),
		newExportCmd(f),
		newCheckCmd(f),
		newBackupCmd(f),
		newRestoreCmd(f),
		newPresetsCmd(),
	)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
