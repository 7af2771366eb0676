package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliasvillacis/vaya"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vaya",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vaya version %s\n", strings.TrimSpace(vaya.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
