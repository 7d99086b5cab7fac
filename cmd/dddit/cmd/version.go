package cmd

import (
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/spf13/cobra"
)

// versionCmd represents the version related commands
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Commands to manage versions",
	Long: `Commands to push, pull and inspect versions.

A version is an immutable snapshot of a resource payload: a single
mesh file, or the texture files of a material set.`,
}

func branchKeyFromFlags() model.BranchKey {
	return model.BranchKey{
		Repository: ddditFlags.repo.Name,
		Resource:   ddditFlags.resource.Name,
		Branch:     ddditFlags.branch.Name,
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
