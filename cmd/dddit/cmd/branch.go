package cmd

import (
	"context"
	"fmt"

	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/spf13/cobra"
)

// branchCmd represents the branch related commands
var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Commands to manage branches",
	Long: `Commands to manage the branches of a resource.

Each branch carries an append only chain of versions.`,
}

var branchCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a branch on a resource",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		err := engine.CreateBranch(ctx, ddditFlags.user.Name, model.BranchKey{
			Repository: ddditFlags.repo.Name,
			Resource:   ddditFlags.resource.Name,
			Branch:     ddditFlags.branch.Name,
		})
		if err != nil {
			wrapFatalln("create branch", err)
		}
	},
}

var branchList = &cobra.Command{
	Use:   "list",
	Short: "List the branches of a resource",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		branches, err := engine.ListBranches(ctx, ddditFlags.user.Name, ddditFlags.repo.Name, ddditFlags.resource.Name)
		if err != nil {
			wrapFatalln("list branches", err)
		}
		for _, branch := range branches {
			fmt.Println(branch)
		}
	},
}

func init() {
	requireFlags(branchCreate,
		addRepoNameFlag(branchCreate),
		addResourceNameFlag(branchCreate),
		addBranchNameFlag(branchCreate),
	)
	requireFlags(branchList,
		addRepoNameFlag(branchList),
		addResourceNameFlag(branchList),
	)
	branchCmd.AddCommand(branchCreate)
	branchCmd.AddCommand(branchList)
	rootCmd.AddCommand(branchCmd)
}
