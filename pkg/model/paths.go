package model

import (
	"fmt"
	"strings"
)

// Payload objects are addressed by a deterministic path built from the
// coordinates of the version:
//
//	<repo>/<resource>/<branch>/<version>/<originalFileName>
//
// For material sets the same prefix, without a file name, designates
// the folder holding all textures of the version.

// GetObjectPathToVersion yields the folder prefix for one version's payloads
func GetObjectPathToVersion(key VersionKey) string {
	return fmt.Sprint(key.Repository, "/", key.Resource, "/", key.Branch, "/", key.Version)
}

// GetObjectPathToFile yields the full object path for one payload file
func GetObjectPathToFile(key VersionKey, fileName string) string {
	return fmt.Sprint(GetObjectPathToVersion(key), "/", fileName)
}

// GetObjectFileName extracts the original file name from an object path or URL
func GetObjectFileName(pth string) string {
	return pth[strings.LastIndex(pth, "/")+1:]
}

// GetDocumentPathToVersion yields the metadata document path for a
// version document, partitioned by resource name:
//
//	versions/<resource>/<documentID>.json
func GetDocumentPathToVersion(resource, documentID string) string {
	return fmt.Sprint(getDocumentPathToVersions(), resource, "/", documentID, ".json")
}

// GetDocumentPathPrefixToResource yields the document path prefix
// holding all version documents of a resource
func GetDocumentPathPrefixToResource(resource string) string {
	return fmt.Sprint(getDocumentPathToVersions(), resource, "/")
}

func getDocumentPathToVersions() string {
	return "versions/"
}

// DocumentPathComponents are the parts encoded in a version document path
type DocumentPathComponents struct {
	Resource   string
	DocumentID string
	_          struct{}
}

// GetDocumentPathComponents parses a version document path back into
// its components
func GetDocumentPathComponents(pth string) (DocumentPathComponents, error) {
	cs := strings.SplitN(pth, "/", 3)
	if len(cs) != 3 || cs[0] != "versions" || cs[1] == "" || !strings.HasSuffix(cs[2], ".json") {
		return DocumentPathComponents{}, fmt.Errorf("expected a path like versions/{resource}/{id}.json, got %q", pth)
	}
	return DocumentPathComponents{
		Resource:   cs[1],
		DocumentID: strings.TrimSuffix(cs[2], ".json"),
	}, nil
}
