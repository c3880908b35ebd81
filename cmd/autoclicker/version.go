package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jj-repository/autoclicker"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of autoclicker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autoclicker version %s\n", autoclicker.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
