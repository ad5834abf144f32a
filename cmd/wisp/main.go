package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "wisp",
		Short: "Local mirror of a social presence service",
		// configuration flags (-a, -p, -d, -i, -l, -c) are parsed by the
		// config loader, not by cobra
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(runCmd())
	root.AddCommand(memoCmd())
	root.AddCommand(importMemosCmd())
	root.AddCommand(updateCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
