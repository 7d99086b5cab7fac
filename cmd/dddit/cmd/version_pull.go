package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/spf13/cobra"
)

var versionPull = &cobra.Command{
	Use:   "pull",
	Short: "Pull the payloads of a version",
	Long: `Pull the payloads of a version into a local directory.

Without --version the branch tip is pulled.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		payloads, desc, err := engine.Pull(ctx, core.PullParams{
			Key:      branchKeyFromFlags(),
			Version:  ddditFlags.version.Name,
			Username: ddditFlags.user.Name,
		})
		if err != nil {
			wrapFatalln("pull version", err)
		}
		if err := os.MkdirAll(ddditFlags.version.Dest, 0700); err != nil {
			wrapFatalln("create destination", err)
		}
		for _, p := range payloads {
			target := filepath.Join(ddditFlags.version.Dest, p.Name)
			f, err := os.Create(target)
			if err != nil {
				wrapFatalln("create payload file", err)
			}
			if _, err := storage.PipeIO(f, p.Stream); err != nil {
				wrapFatalln("write payload file", err)
			}
			_ = p.Stream.Close()
			if err := f.Close(); err != nil {
				wrapFatalln("close payload file", err)
			}
			fmt.Println(target)
		}
		fmt.Printf("pulled version %s (%s)\n", desc.Name, desc.Type)
	},
}

func init() {
	requireFlags(versionPull,
		addRepoNameFlag(versionPull),
		addResourceNameFlag(versionPull),
		addBranchNameFlag(versionPull),
	)
	addVersionNameFlag(versionPull)
	addDestFlag(versionPull)
	versionCmd.AddCommand(versionPull)
}
