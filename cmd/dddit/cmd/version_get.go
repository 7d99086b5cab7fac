package cmd

import (
	"context"
	"fmt"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var versionGet = &cobra.Command{
	Use:   "get",
	Short: "Get the metadata of a version",
	Long: `Get the metadata document of a version without downloading
its payloads. Without --version the branch tip is shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		desc, err := engine.Metadata(ctx, core.PullParams{
			Key:      branchKeyFromFlags(),
			Version:  ddditFlags.version.Name,
			Username: ddditFlags.user.Name,
		})
		if err != nil {
			wrapFatalln("get version metadata", err)
		}
		buf, err := yaml.Marshal(desc)
		if err != nil {
			wrapFatalln("marshal version metadata", err)
		}
		fmt.Print(string(buf))
	},
}

func init() {
	requireFlags(versionGet,
		addRepoNameFlag(versionGet),
		addResourceNameFlag(versionGet),
		addBranchNameFlag(versionGet),
	)
	addVersionNameFlag(versionGet)
	versionCmd.AddCommand(versionGet)
}
