package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Release coordinates the update pipeline checks against.
const (
	releaseOwner = "jj-repository"
	releaseRepo  = "autoclicker"
)

var rootCmd = &cobra.Command{
	Use:   "autoclicker",
	Short: "Hotkey-driven auto clicker and key presser",
	Long: `Autoclicker runs toggleable input slots (clickers and key pressers) bound
to global hotkeys, with mutex groups, an emergency stop, and runtime
hotkey rebinding. Updates are fetched and verified from the release feed.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: the platform user config dir)")
	rootCmd.PersistentFlags().String("profile", "", "Path to a YAML slot profile (default: the built-in three slots)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
