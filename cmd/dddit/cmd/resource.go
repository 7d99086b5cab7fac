package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// resourceCmd represents the resource related commands
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Commands to manage resources",
	Long: `Commands to manage resources inside a repository.

A resource is one logical asset, e.g. a character model or a floor
material, versioned along branches.`,
}

var resourceCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a resource in a repository",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		err := engine.CreateResource(ctx, ddditFlags.user.Name, ddditFlags.repo.Name, ddditFlags.resource.Name)
		if err != nil {
			wrapFatalln("create resource", err)
		}
	},
}

var resourceList = &cobra.Command{
	Use:   "list",
	Short: "List the resources of a repository",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		resources, err := engine.ListResources(ctx, ddditFlags.user.Name, ddditFlags.repo.Name)
		if err != nil {
			wrapFatalln("list resources", err)
		}
		for _, resource := range resources {
			fmt.Println(resource)
		}
	},
}

func init() {
	requireFlags(resourceCreate,
		addRepoNameFlag(resourceCreate),
		addResourceNameFlag(resourceCreate),
	)
	requireFlags(resourceList, addRepoNameFlag(resourceList))
	resourceCmd.AddCommand(resourceCreate)
	resourceCmd.AddCommand(resourceList)
	rootCmd.AddCommand(resourceCmd)
}
