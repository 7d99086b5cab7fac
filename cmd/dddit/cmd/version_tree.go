package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var versionTree = &cobra.Command{
	Use:   "tree",
	Short: "Show the version tree of a resource",
	Long: `Show every branch of a resource with its chain of versions,
oldest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		tree, err := engine.VersionTree(ctx, ddditFlags.user.Name, ddditFlags.repo.Name, ddditFlags.resource.Name)
		if err != nil {
			wrapFatalln("show version tree", err)
		}
		for _, branch := range tree {
			fmt.Printf("%s\n", branch.Branch)
			for i, ref := range branch.Versions {
				marker := "├─"
				if i == len(branch.Versions)-1 {
					marker = "└─"
				}
				fmt.Printf("  %s %s (%s)\n", marker, ref.Name, ref.Type)
			}
		}
	},
}

func init() {
	requireFlags(versionTree,
		addRepoNameFlag(versionTree),
		addResourceNameFlag(versionTree),
	)
	versionCmd.AddCommand(versionTree)
}
