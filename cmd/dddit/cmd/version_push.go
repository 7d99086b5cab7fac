package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/spf13/cobra"
)

// fileFromPath builds a reopenable upload source from a local path
func fileFromPath(pth string) (model.File, error) {
	fi, err := os.Stat(pth)
	if err != nil {
		return model.File{}, err
	}
	return model.File{
		Name: filepath.Base(pth),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(pth)
		},
	}, nil
}

var versionPush = &cobra.Command{
	Use:   "push",
	Short: "Push a new version on a branch",
	Long: `Push a new version on a branch.

A mesh push takes exactly one .fbx file, a material push one or more
.png textures. The version id is generated from the first file name
and printed on success.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, done := paramsToEngine(ctx)
		defer func() { _ = done() }()

		files := make([]model.File, 0, len(ddditFlags.version.Files))
		for _, pth := range ddditFlags.version.Files {
			f, err := fileFromPath(pth)
			if err != nil {
				wrapFatalln("read payload file", err)
			}
			files = append(files, f)
		}
		params := core.PushParams{
			Key:      branchKeyFromFlags(),
			Username: ddditFlags.user.Name,
			Comment:  ddditFlags.version.Comment,
		}
		if ddditFlags.version.Material {
			params.Materials = files
		} else {
			if len(files) != 1 {
				wrapFatalln("push version", fmt.Errorf("a mesh push takes exactly one file, got %d", len(files)))
			}
			params.Mesh = &files[0]
		}

		desc, err := engine.Push(ctx, params)
		if err != nil {
			wrapFatalln("push version", err)
		}
		fmt.Printf("pushed version %s on %s\n", desc.Name, branchKeyFromFlags())
	},
}

func init() {
	requireFlags(versionPush,
		addRepoNameFlag(versionPush),
		addResourceNameFlag(versionPush),
		addBranchNameFlag(versionPush),
		addFilesFlag(versionPush),
	)
	addCommentFlag(versionPush)
	addMaterialFlag(versionPush)
	versionCmd.AddCommand(versionPush)
}
