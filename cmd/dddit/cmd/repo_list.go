package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var repoList = &cobra.Command{
	Use:   "list",
	Short: "List repositories",
	Long:  "List the repositories the acting user owns or contributes to",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		owned, err := engine.ListRepositoriesOwned(ctx, ddditFlags.user.Name)
		if err != nil {
			wrapFatalln("list owned repositories", err)
		}
		contributed, err := engine.ListRepositoriesContributed(ctx, ddditFlags.user.Name)
		if err != nil {
			wrapFatalln("list contributed repositories", err)
		}
		for _, repo := range owned {
			fmt.Printf("%s (owner)\n", repo)
		}
		for _, repo := range contributed {
			fmt.Printf("%s (contributor)\n", repo)
		}
	},
}

func init() {
	repoCmd.AddCommand(repoList)
}
