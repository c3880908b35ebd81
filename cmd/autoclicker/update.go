package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jj-repository/autoclicker"
	"github.com/jj-repository/autoclicker/internal/cli"
	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/internal/update"
	"github.com/jj-repository/autoclicker/pkg/adapters/github"
	"github.com/jj-repository/autoclicker/pkg/domain"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release and optionally install it",
	Long: `Compares the running version against the latest published release.
With --apply, downloads the new binary, verifies its checksum, and
replaces the current executable atomically, keeping a backup.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Bool("apply", false, "Install the update after a successful check")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	apply, _ := cmd.Flags().GetBool("apply")
	debug, _ := cmd.Flags().GetBool("debug")

	log := logging.NewNop()
	if debug {
		log = logging.New(slog.LevelDebug)
	}

	target, err := os.Executable()
	if err != nil {
		return err
	}
	feed := github.NewFeed(releaseOwner, releaseRepo, autoclicker.Version)
	pipeline := update.New(feed, autoclicker.Version, target, update.WithLogger(log))

	info, newer, err := pipeline.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !newer {
		fmt.Printf("autoclicker %s is up to date (latest: %s)\n", autoclicker.Version, info.Tag)
		return nil
	}

	fmt.Printf("Update available: %s (current: %s)\n", info.Tag, autoclicker.Version)
	if notes := cli.RenderNotes(info.Notes); notes != "" {
		fmt.Println(notes)
	}

	if !apply {
		fmt.Println("Run again with --apply to install it.")
		return nil
	}

	n := pipeline.Apply(cmd.Context(), info)
	switch n.Outcome {
	case domain.OutcomeApplied:
		fmt.Printf("Updated to %s (%s). Restart to use the new version.\n", n.Version, n.Checksum)
		if n.BackupPath != "" {
			fmt.Printf("Previous binary kept at %s\n", n.BackupPath)
		}
		return nil
	case domain.OutcomeAborted:
		return fmt.Errorf("update aborted: %s", n.Reason)
	default:
		return fmt.Errorf("update failed: %s", n.Reason)
	}
}
