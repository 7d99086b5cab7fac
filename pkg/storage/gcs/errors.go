package gcs

import (
	"context"
	"net/http"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/status"
	"google.golang.org/api/googleapi"
)

// toSentinelErrors maps google storage errors to sentinel errors
// defined by the status package, so callers may discriminate on
// the failure mode without knowing about googleapi.
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if err == gcsStorage.ErrObjectNotExist || err == gcsStorage.ErrBucketNotExist {
		return status.ErrNotExists.Wrap(err)
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return err
	}
	if gerr, ok := err.(*googleapi.Error); ok {
		switch gerr.Code {
		case http.StatusNotFound:
			return status.ErrNotFound.Wrap(err)
		case http.StatusUnauthorized:
			return status.ErrUnauthorized.Wrap(err)
		case http.StatusForbidden:
			return status.ErrForbidden.Wrap(err)
		case http.StatusPreconditionFailed, http.StatusConflict:
			return status.ErrExists.Wrap(err)
		}
	}
	return status.ErrStorageAPI.Wrap(err)
}
