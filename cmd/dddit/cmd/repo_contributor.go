package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var repoContributor = &cobra.Command{
	Use:   "contributor",
	Short: "Grant a user access to a repository",
	Long:  "Grant a user access to a repository. Only the owner may grant access.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		if err := engine.EnsureUser(ctx, ddditFlags.user.Contributor); err != nil {
			wrapFatalln("register contributor", err)
		}
		err := engine.AddContributor(ctx, ddditFlags.user.Name, ddditFlags.repo.Name, ddditFlags.user.Contributor)
		if err != nil {
			wrapFatalln("add contributor", err)
		}
	},
}

func init() {
	requireFlags(repoContributor,
		addRepoNameFlag(repoContributor),
		addContributorFlag(repoContributor),
	)
	repoCmd.AddCommand(repoContributor)
}
