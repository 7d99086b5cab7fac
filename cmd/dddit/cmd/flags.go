package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	context2 "github.com/PasqualeSorrentino/ddditserver/pkg/context"
	"github.com/PasqualeSorrentino/ddditserver/pkg/core"
	"github.com/PasqualeSorrentino/ddditserver/pkg/dlogger"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph/bdgr"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metadata"
	"github.com/PasqualeSorrentino/ddditserver/pkg/objects"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/gcs"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/localfs"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/sthree"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	storageLocal = "local"
	storageGCS   = "gcs"
	storageS3    = "s3"
)

type flagsT struct {
	repo struct {
		Name string
	}
	resource struct {
		Name string
	}
	branch struct {
		Name string
	}
	version struct {
		Name     string
		Comment  string
		Material bool
		Files    []string
		Dest     string
	}
	user struct {
		Name        string
		Contributor string
	}
	root struct {
		logLevel  string
		storage   string
		path      string
		meshes    string
		materials string
		documents string
	}
}

var ddditFlags flagsT

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dddit", "store")
	}
	return filepath.Join(home, ".dddit", "store")
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&ddditFlags.root.logLevel, loglevel, "info", "The logging level")
	return loglevel
}

func addUserFlag(cmd *cobra.Command) string {
	user := "user"
	cmd.PersistentFlags().StringVar(&ddditFlags.user.Name, user, "", "The acting user name")
	return user
}

func addRepoNameFlag(cmd *cobra.Command) string {
	repo := "repo"
	cmd.Flags().StringVar(&ddditFlags.repo.Name, repo, "", "The name of this repository")
	return repo
}

func addResourceNameFlag(cmd *cobra.Command) string {
	resource := "resource"
	cmd.Flags().StringVar(&ddditFlags.resource.Name, resource, "", "The name of the resource")
	return resource
}

func addBranchNameFlag(cmd *cobra.Command) string {
	branch := "branch"
	cmd.Flags().StringVar(&ddditFlags.branch.Name, branch, "", "The name of the branch")
	return branch
}

func addVersionNameFlag(cmd *cobra.Command) string {
	version := "version"
	cmd.Flags().StringVar(&ddditFlags.version.Name, version, "", "The version id, defaults to the branch tip")
	return version
}

func addCommentFlag(cmd *cobra.Command) string {
	comment := "comment"
	cmd.Flags().StringVar(&ddditFlags.version.Comment, comment, "", "A comment stored with the version")
	return comment
}

func addMaterialFlag(cmd *cobra.Command) string {
	material := "material"
	cmd.Flags().BoolVar(&ddditFlags.version.Material, material, false, "Push a material set of textures instead of a mesh")
	return material
}

func addFilesFlag(cmd *cobra.Command) string {
	file := "file"
	cmd.Flags().StringSliceVar(&ddditFlags.version.Files, file, nil, "Payload file, repeat for material textures")
	return file
}

func addDestFlag(cmd *cobra.Command) string {
	destination := "destination"
	cmd.Flags().StringVar(&ddditFlags.version.Dest, destination, ".", "Directory receiving the pulled payloads")
	return destination
}

func addStorageFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ddditFlags.root.storage, "storage", "", "Backend kind: local, gcs or s3")
	cmd.PersistentFlags().StringVar(&ddditFlags.root.path, "path", "", "Base directory for the local backend and the graph index")
	cmd.PersistentFlags().StringVar(&ddditFlags.root.meshes, "meshes", "", "Bucket holding mesh payloads")
	cmd.PersistentFlags().StringVar(&ddditFlags.root.materials, "materials", "", "Bucket holding material payloads")
	cmd.PersistentFlags().StringVar(&ddditFlags.root.documents, "documents", "", "Bucket holding version documents")
}

func addContributorFlag(cmd *cobra.Command) string {
	contributor := "contributor"
	cmd.Flags().StringVar(&ddditFlags.user.Contributor, contributor, "", "The user granted access")
	return contributor
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
}

func getLogger() *zap.Logger {
	logger, err := dlogger.GetLogger(ddditFlags.root.logLevel)
	if err != nil {
		wrapFatalln("get logger", err)
		return nil
	}
	return logger
}

// paramsToStores wires the backing stores selected by config and flags
func paramsToStores(ctx context.Context, logger *zap.Logger) (context2.Stores, error) {
	var meshes, materials, documents storage.Store
	switch ddditFlags.root.storage {
	case storageLocal, "":
		base := ddditFlags.root.path
		fs := func(sub string) afero.Fs {
			return afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(base, sub))
		}
		meshes = localfs.New(fs("meshes"))
		materials = localfs.New(fs("materials"))
		documents = localfs.New(fs("documents"))
	case storageGCS:
		var err error
		if meshes, err = gcs.New(ctx, ddditFlags.root.meshes, config.Credential, gcs.Logger(logger)); err != nil {
			return nil, err
		}
		if materials, err = gcs.New(ctx, ddditFlags.root.materials, config.Credential, gcs.Logger(logger)); err != nil {
			return nil, err
		}
		if documents, err = gcs.New(ctx, ddditFlags.root.documents, config.Credential, gcs.Logger(logger)); err != nil {
			return nil, err
		}
	case storageS3:
		cfg := aws.NewConfig()
		meshes = sthree.New(sthree.Bucket(ddditFlags.root.meshes), sthree.AWSConfig(cfg))
		materials = sthree.New(sthree.Bucket(ddditFlags.root.materials), sthree.AWSConfig(cfg))
		documents = sthree.New(sthree.Bucket(ddditFlags.root.documents), sthree.AWSConfig(cfg))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", ddditFlags.root.storage)
	}

	idx := bdgr.New(filepath.Join(ddditFlags.root.path, "graph"))
	if err := idx.Initialize(); err != nil {
		return nil, err
	}
	return context2.NewStores(
		idx,
		metadata.New(storage.Instrument(documents, logger), metadata.Logger(logger)),
		objects.New(
			storage.Instrument(meshes, logger),
			storage.Instrument(materials, logger),
			objects.Logger(logger),
		),
	), nil
}

// paramsToEngine builds the engine all commands run against
func paramsToEngine(ctx context.Context) (*core.Engine, func() error) {
	if ddditFlags.user.Name == "" {
		wrapFatalln("an acting user is required, set --user or the username config entry", nil)
		return nil, nil
	}
	logger := getLogger()
	stores, err := paramsToStores(ctx, logger)
	if err != nil {
		wrapFatalln("failed to initialize stores", err)
		return nil, nil
	}
	e := core.New(stores, core.Logger(logger))
	return e, stores.Graph().Close
}
