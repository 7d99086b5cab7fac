package core

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metrics"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"go.uber.org/zap"
)

// PushParams describe one version push: where it goes, who pushes,
// and the payload. Exactly one of Mesh or Materials must be set.
type PushParams struct {
	Key       model.BranchKey
	Username  string
	Comment   string
	Mesh      *model.File
	Materials []model.File
	_         struct{}
}

// validatePush checks the push input and resolves the resource type
// and payload files it carries.
func (e *Engine) validatePush(params PushParams) (model.ResourceType, []model.File, error) {
	if err := model.ValidateUserName(params.Username); err != nil {
		return "", nil, status.ErrValidation.Wrap(err)
	}
	if err := model.ValidateComment(params.Comment); err != nil {
		return "", nil, status.ErrValidation.Wrap(err)
	}
	switch {
	case params.Mesh != nil && len(params.Materials) > 0:
		return "", nil, status.ErrValidation.WrapMessage("a push carries either a mesh file or a material set, not both")
	case params.Mesh != nil:
		if err := model.ValidateMeshFile(*params.Mesh); err != nil {
			return "", nil, status.ErrValidation.Wrap(err)
		}
		return model.ResourceTypeMesh, []model.File{*params.Mesh}, nil
	case len(params.Materials) > 0:
		for _, f := range params.Materials {
			if err := model.ValidateTextureFile(f); err != nil {
				return "", nil, status.ErrValidation.Wrap(err)
			}
		}
		return model.ResourceTypeMaterial, params.Materials, nil
	default:
		return "", nil, status.ErrValidation.WrapMessage("a push needs a mesh file or a material set")
	}
}

// classifyMesh runs the classifier on the mesh payload before any
// store is written to, so a rejected mesh aborts the push cleanly.
func (e *Engine) classifyMesh(ctx context.Context, f model.File) ([]string, error) {
	rdr, err := f.Open()
	if err != nil {
		return nil, status.ErrClassification.Wrap(err)
	}
	defer rdr.Close()
	tags, err := e.classifier.Classify(ctx, f.Name, rdr)
	if err != nil {
		return nil, status.ErrClassification.Wrap(err)
	}
	return tags, nil
}

// Push persists a new version across the three stores: payloads
// first, then the metadata document, and last the graph link that
// makes the version visible. A failure on any store rolls back the
// stores already written so the version never appears half persisted.
func (e *Engine) Push(ctx context.Context, params PushParams) (model.VersionDescriptor, error) {
	defer metrics.Since(time.Now(), metrics.PushDuration, "push")

	rt, files, err := e.validatePush(params)
	if err != nil {
		return model.VersionDescriptor{}, err
	}
	if err := e.checkAccess(ctx, params.Key.Repository, params.Username); err != nil {
		return model.VersionDescriptor{}, err
	}
	has, err := e.graph().HasBranch(ctx, params.Key)
	if err != nil {
		return model.VersionDescriptor{}, mapGraphError(err)
	}
	if !has {
		return model.VersionDescriptor{}, status.ErrBranchNotFound
	}

	var tags []string
	if rt == model.ResourceTypeMesh {
		tags, err = e.classifyMesh(ctx, files[0])
		if err != nil {
			return model.VersionDescriptor{}, err
		}
	}

	hint := strings.TrimSuffix(files[0].Name, filepath.Ext(files[0].Name))
	version := e.generate(hint)
	collides, err := e.graph().HasVersion(ctx, params.Key.Repository, params.Key.Resource, version)
	if err != nil {
		return model.VersionDescriptor{}, mapGraphError(err)
	}
	if collides {
		return model.VersionDescriptor{}, status.ErrExistingVersion
	}

	vkey := model.VersionKey{BranchKey: params.Key, Version: version}
	desc := model.VersionDescriptor{
		Repository: params.Key.Repository,
		Resource:   params.Key.Resource,
		Branch:     params.Key.Branch,
		Name:       version,
		Username:   params.Username,
		PushedAt:   model.GetVersionTimeStamp(),
		Comment:    params.Comment,
		Tags:       tags,
		Type:       rt,
	}

	documentURL := ""
	steps := []step{
		{
			name: "payload",
			action: func(ctx context.Context) error {
				for _, f := range files {
					url, err := e.stores.Objects().Save(ctx, rt, vkey, f)
					if err != nil {
						return status.ErrStorage.Wrap(err)
					}
					desc.PayloadURL = url
				}
				if rt == model.ResourceTypeMaterial {
					desc.PayloadURL = e.stores.Objects().FolderURL(rt, vkey)
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return e.stores.Objects().Delete(ctx, rt, vkey)
			},
		},
		{
			name: "metadata",
			action: func(ctx context.Context) error {
				url, err := e.stores.Metadata().Save(ctx, desc)
				if err != nil {
					return status.ErrStorage.Wrap(err)
				}
				documentURL = url
				return nil
			},
			compensate: func(ctx context.Context) error {
				return e.stores.Metadata().Delete(ctx, params.Key.Resource, version)
			},
		},
		{
			name: "graph",
			action: func(ctx context.Context) error {
				return mapGraphError(e.graph().AppendVersion(ctx, params.Key, graph.VersionRef{
					Name:        version,
					Type:        rt,
					DocumentURL: documentURL,
				}))
			},
		},
	}
	if err := runSaga(ctx, e.l, "push", steps); err != nil {
		return model.VersionDescriptor{}, err
	}

	metrics.Inc(metrics.PushCount, "push")
	e.l.Info("pushed version",
		zap.String("version", vkey.String()),
		zap.String("username", params.Username),
		zap.String("type", string(rt)),
	)
	return desc, nil
}
