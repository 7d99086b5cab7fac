package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var repoCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a named repository",
	Long: "Create a repository. Repository names must be 3-30 chars of " +
		"letters, digits, underscore and dot. Example: space_game.assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		if err := engine.EnsureUser(ctx, ddditFlags.user.Name); err != nil {
			wrapFatalln("register user", err)
		}
		if err := engine.CreateRepository(ctx, ddditFlags.user.Name, ddditFlags.repo.Name); err != nil {
			wrapFatalln("create repository", err)
		}
	},
}

func init() {
	requireFlags(repoCreate, addRepoNameFlag(repoCreate))
	repoCmd.AddCommand(repoCreate)
}
