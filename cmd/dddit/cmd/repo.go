package cmd

import (
	"github.com/spf13/cobra"
)

// repoCmd represents the repo related commands
var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Commands to manage repositories",
	Long: `Commands to manage asset repositories.

A repository holds resources, each resource carries branches of
immutable versions. The creating user owns the repository and may
grant access to contributors.`,
}

func init() {
	rootCmd.AddCommand(repoCmd)
}
